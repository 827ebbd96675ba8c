// Package storage opens the movie repository selected by DB_DRIVER.
package storage

import (
	"context"
	"fmt"
	"strconv"

	"movielobby/dynamodb"
	"movielobby/mongo"
	"movielobby/movie"
	"movielobby/pkg/config"
	"movielobby/postgres"

	"go.uber.org/zap"
)

// Store is a movie.Repository that can also be wiped, which the seeder needs.
type Store interface {
	movie.Repository
	DeleteAll(ctx context.Context) (int64, error)
}

// Open connects to the configured backend and prepares its schema. The
// returned close func releases the connection and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Store, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(cfg, logger)
	case config.DriverDynamoDB:
		return openDynamoDB(ctx, cfg, logger)
	}
	return nil, func() {}, fmt.Errorf("storage: unsupported driver %q", cfg.DB.Driver)
}

func openMongo(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Store, func(), error) {
	client, err := mongo.NewClient(ctx, mongo.Options{URI: cfg.Mongo.URI})
	if err != nil {
		return nil, func() {}, err
	}
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warnw("mongo disconnect", "error", err)
		}
	}

	repo := mongo.NewMovieRepository(client.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
	if err := repo.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, func() {}, err
	}

	logger.Infow("using mongo store", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
	return repo, closeFn, nil
}

// openPostgres expects the schema to be applied by cmd/migrate.
func openPostgres(cfg *config.Config, logger *zap.SugaredLogger) (Store, func(), error) {
	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("postgres: open connection: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() {}, fmt.Errorf("postgres: get db instance: %w", err)
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warnw("postgres close", "error", err)
		}
	}

	logger.Infow("using postgres store", "host", cfg.DB.Host, "database", cfg.DB.Name)
	return postgres.NewMovieRepository(db), closeFn, nil
}

func openDynamoDB(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Store, func(), error) {
	client, err := dynamodb.NewClient(ctx, dynamodb.Options{
		Region:       cfg.DynamoDB.Region,
		Endpoint:     cfg.DynamoDB.Endpoint,
		AccessKey:    cfg.DynamoDB.AccessKey,
		SecretKey:    cfg.DynamoDB.SecretKey,
		SessionToken: cfg.DynamoDB.SessionToken,
	})
	if err != nil {
		return nil, func() {}, err
	}
	if err := dynamodb.EnsureTable(ctx, client, cfg.DynamoDB.MoviesTable); err != nil {
		return nil, func() {}, err
	}

	logger.Infow("using dynamodb store", "table", cfg.DynamoDB.MoviesTable)
	return dynamodb.NewMovieRepository(client, cfg.DynamoDB.MoviesTable), func() {}, nil
}
