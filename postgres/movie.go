package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movielobby/errs"
	"movielobby/movie"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const codeCheckViolation = "23514"

var errRowInvalid = errs.Errorf(errs.EINVALID, "movie failed store validation")

// MovieModel represents the database model for movies.
// search_vector is generated in SQL migration and not mapped here.
type MovieModel struct {
	ID            string `gorm:"primaryKey;type:char(24)"`
	Title         string `gorm:"not null"`
	Genre         string `gorm:"not null"`
	Rating        float64
	StreamingLink string `gorm:"column:streaming_link;not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

func (m MovieModel) toMovie() movie.Movie {
	return movie.Movie{
		ID:            m.ID,
		Title:         m.Title,
		Genre:         m.Genre,
		Rating:        m.Rating,
		StreamingLink: m.StreamingLink,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
}

// MovieRepository implements movie.Repository interface
// and provides PostgreSQL full-text search.
type MovieRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (r *MovieRepository) All(ctx context.Context) ([]movie.Movie, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: list movies: %w", err)
	}
	return toMovies(models), nil
}

func (r *MovieRepository) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	const sql = `
SELECT id, title, genre, rating, streaming_link, created_at, updated_at
FROM movies
WHERE search_vector @@ websearch_to_tsquery('english', ?)
ORDER BY ts_rank(search_vector, websearch_to_tsquery('english', ?)) DESC, id`

	var models []MovieModel
	if err := r.db.WithContext(ctx).Raw(sql, query, query).Scan(&models).Error; err != nil {
		return nil, fmt.Errorf("postgres: search movies: %w", err)
	}
	return toMovies(models), nil
}

func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	now := r.now()
	model := MovieModel{
		ID:            movie.NewID(),
		Title:         m.Title,
		Genre:         m.Genre,
		Rating:        m.Rating,
		StreamingLink: m.StreamingLink,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isCheckViolation(err) {
			return movie.Movie{}, errRowInvalid
		}
		return movie.Movie{}, fmt.Errorf("postgres: insert movie: %w", err)
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) UpdateByID(ctx context.Context, id string, f movie.Fields) (movie.Movie, error) {
	values := map[string]interface{}{"updated_at": r.now()}
	if f.Title != nil {
		values["title"] = *f.Title
	}
	if f.Genre != nil {
		values["genre"] = *f.Genre
	}
	if f.Rating != nil {
		values["rating"] = *f.Rating
	}
	if f.StreamingLink != nil {
		values["streaming_link"] = *f.StreamingLink
	}

	var model MovieModel
	res := r.db.WithContext(ctx).
		Model(&model).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		if isCheckViolation(res.Error) {
			return movie.Movie{}, errRowInvalid
		}
		return movie.Movie{}, fmt.Errorf("postgres: update movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return movie.Movie{}, movie.ErrNotFound
	}
	return model.toMovie(), nil
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MovieModel{})
	if res.Error != nil {
		return fmt.Errorf("postgres: delete movie: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return movie.ErrNotFound
	}
	return nil
}

// DeleteAll empties the movies table. Used by the seeder.
func (r *MovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MovieModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("postgres: delete movies: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func toMovies(models []MovieModel) []movie.Movie {
	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = model.toMovie()
	}
	return movies
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}
