package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"movielobby/movie"
	"movielobby/pkg/config"
	"movielobby/pkg/logger"
	"movielobby/storage"

	"go.uber.org/zap"
)

const defaultMovieLensURL = "https://files.grouplens.org/datasets/movielens/ml-latest-small.zip"

func main() {
	var (
		jsonPath  string
		csvPath   string
		zipURL    string
		movieLens bool
		limit     int
	)

	flag.StringVar(&jsonPath, "file", "", "Path to a JSON array of movies to seed instead of the samples")
	flag.BoolVar(&movieLens, "movielens", false, "Import the MovieLens dataset")
	flag.StringVar(&csvPath, "csv", "", "Path to a MovieLens movies.csv (implies -movielens, skips download)")
	flag.StringVar(&zipURL, "url", defaultMovieLensURL, "MovieLens zip URL")
	flag.IntVar(&limit, "limit", 0, "Limit number of MovieLens rows to import (0 = all)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatalw("cannot open store", "error", err)
	}
	defer closeStore()

	movies, cleanup, err := loadMovies(jsonPath, csvPath, zipURL, movieLens, limit, log)
	if err != nil {
		closeStore()
		log.Fatalw("cannot load seed data", "error", err)
	}
	defer cleanup()

	inserted, err := seed(ctx, store, movies, log)
	if err != nil {
		closeStore()
		log.Fatalw("seeding failed", "error", err, "inserted", inserted)
	}

	log.Infow("seed data successfully added", "inserted", inserted)
}

func loadMovies(jsonPath, csvPath, zipURL string, movieLens bool, limit int, log *zap.SugaredLogger) ([]movie.Movie, func(), error) {
	noop := func() {}
	switch {
	case jsonPath != "":
		movies, err := readJSONFile(jsonPath)
		return movies, noop, err
	case csvPath != "" || movieLens:
		cleanup := noop
		if csvPath == "" {
			log.Infow("downloading movielens dataset", "url", zipURL)
			path, c, err := downloadAndExtract(zipURL)
			if err != nil {
				return nil, noop, err
			}
			csvPath, cleanup = path, c
		}
		movies, err := readMovieLensCSV(csvPath, limit)
		return movies, cleanup, err
	}
	return sampleMovies(), noop, nil
}

// Seeder is the part of storage.Store the seeder uses.
type Seeder interface {
	Create(ctx context.Context, m movie.Movie) (movie.Movie, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// seed wipes the store and inserts movies, skipping entries that fail validation.
func seed(ctx context.Context, store Seeder, movies []movie.Movie, log *zap.SugaredLogger) (int, error) {
	removed, err := store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("wipe movies: %w", err)
	}
	log.Infow("removed existing movies", "count", removed)

	inserted := 0
	for _, m := range movies {
		if err := m.Validate(); err != nil {
			log.Warnw("skipping invalid movie", "title", m.Title, "error", err)
			continue
		}
		if _, err := store.Create(ctx, m); err != nil {
			return inserted, fmt.Errorf("insert %q: %w", m.Title, err)
		}
		inserted++
	}
	return inserted, nil
}
