package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"movielobby/pkg/config"
	"movielobby/pkg/logger"
	"movielobby/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	var (
		dir  string
		down bool
	)
	flag.StringVar(&dir, "dir", "migrations", "Directory holding the migration files")
	flag.BoolVar(&down, "down", false, "Roll back the last migration instead of applying")
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

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		log.Fatalw("cannot connect to db", "error", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalw("cannot get db instance", "error", err)
	}
	defer sqlDB.Close()

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	direction, limit := migrate.Up, 0
	if down {
		direction, limit = migrate.Down, 1
	}

	total, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, limit)
	if err != nil {
		log.Fatalw("cannot execute migration", "error", err)
	}

	log.Infow("applied migrations", "total", total, "down", down)
}
