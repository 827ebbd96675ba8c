package movie

import (
	"context"
	"strings"
)

type Service interface {
	List(ctx context.Context, query string) ([]Movie, error)
	Create(ctx context.Context, f Fields) (Movie, error)
	Update(ctx context.Context, id string, f Fields) (Movie, error)
	Delete(ctx context.Context, id string) error
}

// Repository is the only component allowed to talk to the store.
// UpdateByID and DeleteByID return ErrNotFound when no record matches.
type Repository interface {
	All(ctx context.Context) ([]Movie, error)
	Search(ctx context.Context, query string) ([]Movie, error)
	Create(ctx context.Context, m Movie) (Movie, error)
	UpdateByID(ctx context.Context, id string, f Fields) (Movie, error)
	DeleteByID(ctx context.Context, id string) error
}

type Usecase struct {
	r Repository
	p EventPublisher
}

func NewUsecase(r Repository, p EventPublisher) *Usecase {
	if p == nil {
		p = NopPublisher{}
	}
	return &Usecase{r: r, p: p}
}

// List treats a blank query like no query and returns every movie.
func (uc *Usecase) List(ctx context.Context, query string) ([]Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return uc.r.All(ctx)
	}
	return uc.r.Search(ctx, query)
}

func (uc *Usecase) Create(ctx context.Context, f Fields) (Movie, error) {
	f = f.Normalize()
	if f.Title == nil || f.Genre == nil || !HasRequiredCreateFields(*f.Title, *f.Genre) {
		return Movie{}, ErrMissingRequiredFields
	}

	m := f.Apply(Movie{})
	if err := m.Validate(); err != nil {
		return Movie{}, err
	}

	created, err := uc.r.Create(ctx, m)
	if err != nil {
		return Movie{}, err
	}

	uc.publish(ctx, EventCreated, created)
	return created, nil
}

func (uc *Usecase) Update(ctx context.Context, id string, f Fields) (Movie, error) {
	if !IsValidID(id) {
		return Movie{}, ErrInvalidID
	}
	id = NormalizeID(id)

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return Movie{}, err
	}

	updated, err := uc.r.UpdateByID(ctx, id, f)
	if err != nil {
		return Movie{}, err
	}

	uc.publish(ctx, EventUpdated, updated)
	return updated, nil
}

func (uc *Usecase) Delete(ctx context.Context, id string) error {
	if !IsValidID(id) {
		return ErrInvalidID
	}
	id = NormalizeID(id)

	if err := uc.r.DeleteByID(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, EventDeleted, Movie{ID: id})
	return nil
}

// publish never fails the write that triggered it; publishers log their own errors.
func (uc *Usecase) publish(ctx context.Context, typ EventType, m Movie) {
	_ = uc.p.Publish(ctx, NewEvent(typ, m))
}
