package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movielobby/errs"
	"movielobby/movie"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MovieDocument is the stored shape of a movie.
type MovieDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Title         string        `bson:"title"`
	Genre         string        `bson:"genre"`
	Rating        float64       `bson:"rating"`
	StreamingLink string        `bson:"streamingLink"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
}

func (d MovieDocument) toMovie() movie.Movie {
	return movie.Movie{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Genre:         d.Genre,
		Rating:        d.Rating,
		StreamingLink: d.StreamingLink,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// publicFields drops anything other writers may have attached to a document.
var publicFields = bson.D{
	{Key: "title", Value: 1},
	{Key: "genre", Value: 1},
	{Key: "rating", Value: 1},
	{Key: "streamingLink", Value: 1},
	{Key: "createdAt", Value: 1},
	{Key: "updatedAt", Value: 1},
}

// movieSchema mirrors movie.Movie.Validate so the collection rejects bad
// documents written by anything other than this service.
var movieSchema = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": bson.A{"title", "genre"},
		"properties": bson.M{
			"title":         bson.M{"bsonType": "string", "minLength": 1},
			"genre":         bson.M{"bsonType": "string", "minLength": 1},
			"rating":        bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}, "minimum": movie.MinRating, "maximum": movie.MaxRating},
			"streamingLink": bson.M{"bsonType": "string", "maxLength": movie.MaxStreamingLinkLen},
		},
	},
}

var errDocumentInvalid = errs.Errorf(errs.EINVALID, "movie failed store validation")

type MovieRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
	now        func() time.Time
}

func NewMovieRepository(db *mongo.Database, collection string) *MovieRepository {
	return &MovieRepository{
		db:         db,
		collection: db.Collection(collection),
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// EnsureSchema installs the collection validator and the text index used by Search.
func (r *MovieRepository) EnsureSchema(ctx context.Context) error {
	name := r.collection.Name()
	err := r.db.CreateCollection(ctx, name, options.CreateCollection().SetValidator(movieSchema))
	if isNamespaceExists(err) {
		err = r.db.RunCommand(ctx, bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: movieSchema},
		}).Err()
	}
	if err != nil {
		return fmt.Errorf("mongo: install movie schema: %w", err)
	}

	_, err = r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "genre", Value: "text"},
		},
	})
	if err != nil {
		return fmt.Errorf("mongo: create text index: %w", err)
	}
	return nil
}

func (r *MovieRepository) All(ctx context.Context) ([]movie.Movie, error) {
	return r.find(ctx, bson.D{})
}

func (r *MovieRepository) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	return r.find(ctx, bson.D{{Key: "$text", Value: bson.M{"$search": query}}})
}

func (r *MovieRepository) find(ctx context.Context, filter bson.D) ([]movie.Movie, error) {
	cur, err := r.collection.Find(ctx, filter, options.Find().SetProjection(publicFields))
	if err != nil {
		return nil, fmt.Errorf("mongo: find movies: %w", err)
	}
	defer cur.Close(ctx)

	var docs []MovieDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode movies: %w", err)
	}

	movies := make([]movie.Movie, len(docs))
	for i, doc := range docs {
		movies[i] = doc.toMovie()
	}
	return movies, nil
}

func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	now := r.now()
	doc := MovieDocument{
		ID:            bson.NewObjectID(),
		Title:         m.Title,
		Genre:         m.Genre,
		Rating:        m.Rating,
		StreamingLink: m.StreamingLink,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if isValidationFailure(err) {
			return movie.Movie{}, errDocumentInvalid
		}
		return movie.Movie{}, fmt.Errorf("mongo: insert movie: %w", err)
	}

	return doc.toMovie(), nil
}

func (r *MovieRepository) UpdateByID(ctx context.Context, id string, f movie.Fields) (movie.Movie, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return movie.Movie{}, movie.ErrInvalidID
	}

	set := bson.D{{Key: "updatedAt", Value: r.now()}}
	if f.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *f.Title})
	}
	if f.Genre != nil {
		set = append(set, bson.E{Key: "genre", Value: *f.Genre})
	}
	if f.Rating != nil {
		set = append(set, bson.E{Key: "rating", Value: *f.Rating})
	}
	if f.StreamingLink != nil {
		set = append(set, bson.E{Key: "streamingLink", Value: *f.StreamingLink})
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(publicFields)

	var doc MovieDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return movie.Movie{}, movie.ErrNotFound
	case isValidationFailure(err):
		return movie.Movie{}, errDocumentInvalid
	case err != nil:
		return movie.Movie{}, fmt.Errorf("mongo: update movie: %w", err)
	}

	return doc.toMovie(), nil
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return movie.ErrInvalidID
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo: delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return movie.ErrNotFound
	}
	return nil
}

// DeleteAll empties the collection. Used by the seeder.
func (r *MovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("mongo: delete movies: %w", err)
	}
	return res.DeletedCount, nil
}
