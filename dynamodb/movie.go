package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movielobby/errs"
	"movielobby/movie"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MovieRepository stores movies in a single table keyed by id. DynamoDB has
// no schema, so the repository validates before every write.
type MovieRepository struct {
	client *dynamodb.Client
	table  string
	now    func() time.Time
}

// movieItem keeps lowercased copies of title and genre for Search.
type movieItem struct {
	ID            string    `dynamodbav:"id"`
	Title         string    `dynamodbav:"title"`
	TitleLower    string    `dynamodbav:"title_lc"`
	Genre         string    `dynamodbav:"genre"`
	GenreLower    string    `dynamodbav:"genre_lc"`
	Rating        float64   `dynamodbav:"rating"`
	StreamingLink string    `dynamodbav:"streamingLink"`
	CreatedAt     time.Time `dynamodbav:"createdAt"`
	UpdatedAt     time.Time `dynamodbav:"updatedAt"`
}

func (i movieItem) toMovie() movie.Movie {
	return movie.Movie{
		ID:            i.ID,
		Title:         i.Title,
		Genre:         i.Genre,
		Rating:        i.Rating,
		StreamingLink: i.StreamingLink,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func NewMovieRepository(client *dynamodb.Client, table string) *MovieRepository {
	return &MovieRepository{
		client: client,
		table:  table,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MovieRepository) All(ctx context.Context) ([]movie.Movie, error) {
	return r.scan(ctx, nil)
}

// Search matches any whitespace separated term against title or genre,
// case-insensitively.
func (r *MovieRepository) Search(ctx context.Context, query string) ([]movie.Movie, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []movie.Movie{}, nil
	}

	conds := make([]expression.ConditionBuilder, 0, len(terms)*2)
	for _, term := range terms {
		conds = append(conds,
			expression.Name("title_lc").Contains(term),
			expression.Name("genre_lc").Contains(term),
		)
	}
	filter := expression.Or(conds[0], conds[1], conds[2:]...)

	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("dynamodb: build search filter: %w", err)
	}
	return r.scan(ctx, &expr)
}

func (r *MovieRepository) scan(ctx context.Context, expr *expression.Expression) ([]movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return nil, err
	}

	input := &dynamodb.ScanInput{TableName: aws.String(r.table)}
	if expr != nil {
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	movies := []movie.Movie{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb: scan movies: %w", err)
		}

		var items []movieItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("dynamodb: unmarshal movies: %w", err)
		}
		for _, item := range items {
			movies = append(movies, item.toMovie())
		}
	}

	return movies, nil
}

func (r *MovieRepository) Create(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Movie{}, err
	}
	if err := m.Validate(); err != nil {
		return movie.Movie{}, err
	}

	now := r.now()
	item := movieItem{
		ID:            movie.NewID(),
		Title:         m.Title,
		TitleLower:    strings.ToLower(m.Title),
		Genre:         m.Genre,
		GenreLower:    strings.ToLower(m.Genre),
		Rating:        m.Rating,
		StreamingLink: m.StreamingLink,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: marshal movie: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return movie.Movie{}, errs.Errorf(errs.ECONFLICT, "movie %s already exists", item.ID)
		}
		return movie.Movie{}, fmt.Errorf("dynamodb: put movie: %w", err)
	}

	return item.toMovie(), nil
}

func (r *MovieRepository) UpdateByID(ctx context.Context, id string, f movie.Fields) (movie.Movie, error) {
	if err := validateTable(r.table); err != nil {
		return movie.Movie{}, err
	}
	if err := f.Validate(); err != nil {
		return movie.Movie{}, err
	}

	update := expression.Set(expression.Name("updatedAt"), expression.Value(r.now()))
	if f.Title != nil {
		update = update.
			Set(expression.Name("title"), expression.Value(*f.Title)).
			Set(expression.Name("title_lc"), expression.Value(strings.ToLower(*f.Title)))
	}
	if f.Genre != nil {
		update = update.
			Set(expression.Name("genre"), expression.Value(*f.Genre)).
			Set(expression.Name("genre_lc"), expression.Value(strings.ToLower(*f.Genre)))
	}
	if f.Rating != nil {
		update = update.Set(expression.Name("rating"), expression.Value(*f.Rating))
	}
	if f.StreamingLink != nil {
		update = update.Set(expression.Name("streamingLink"), expression.Value(*f.StreamingLink))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: build update: %w", err)
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       movieKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return movie.Movie{}, movie.ErrNotFound
		}
		return movie.Movie{}, fmt.Errorf("dynamodb: update movie: %w", err)
	}

	var item movieItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return movie.Movie{}, fmt.Errorf("dynamodb: unmarshal movie: %w", err)
	}
	return item.toMovie(), nil
}

func (r *MovieRepository) DeleteByID(ctx context.Context, id string) error {
	if err := validateTable(r.table); err != nil {
		return err
	}

	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 movieKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return movie.ErrNotFound
		}
		return fmt.Errorf("dynamodb: delete movie: %w", err)
	}
	return nil
}

func movieKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// DeleteAll removes every movie. Used by the seeder.
func (r *MovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	if err := validateTable(r.table); err != nil {
		return 0, err
	}

	var deleted int64
	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:            aws.String(r.table),
		ProjectionExpression: aws.String("id"),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("dynamodb: scan movie keys: %w", err)
		}
		for _, key := range out.Items {
			_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(r.table),
				Key:       key,
			})
			if err != nil {
				return deleted, fmt.Errorf("dynamodb: delete movie: %w", err)
			}
			deleted++
		}
	}
	return deleted, nil
}
