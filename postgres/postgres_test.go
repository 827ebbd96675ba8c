package postgres_test

import (
	"context"
	"testing"
	"time"

	"movielobby/postgres"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const (
	migrationsDir          = "../migrations"
	postgresPort  nat.Port = "5432/tcp"
)

func TestMigrations(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	db := CreateConnection(t, "migrate_test", "lobby", "lobbypass")
	source := &migrate.FileMigrationSource{Dir: migrationsDir}
	sqlDB, err := db.DB()
	require.NoError(t, err)

	applied, err := migrate.Exec(sqlDB, "postgres", source, migrate.Up)
	require.NoError(t, err)
	assert.Positive(t, applied)

	var columns []string
	err = db.Raw(`SELECT column_name FROM information_schema.columns WHERE table_name = 'movies' ORDER BY column_name`).
		Scan(&columns).Error
	require.NoError(t, err)
	assert.Subset(t, columns, []string{"id", "title", "genre", "rating", "streaming_link", "search_vector"})

	rolledBack, err := migrate.Exec(sqlDB, "postgres", source, migrate.Down)
	require.NoError(t, err)
	assert.Equal(t, applied, rolledBack)
	assert.False(t, db.Migrator().HasTable("movies"))
}

func TestNewConnection_Error(t *testing.T) {
	_, err := postgres.NewConnection(postgres.Options{
		DBName:   "lobby",
		DBUser:   "nobody",
		Password: "wrongpass",
		Host:     "invalidhost",
		Port:     "5432",
		SSLMode:  true,
	})
	assert.Error(t, err)
}

// MigrateTestDatabase applies every migration in migrationPath.
func MigrateTestDatabase(t testing.TB, db *gorm.DB, migrationPath string) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = migrate.Exec(sqlDB, "postgres", &migrate.FileMigrationSource{Dir: migrationPath}, migrate.Up)
	require.NoError(t, err, "failed to run database migrations")
}

// CreateConnection starts a throwaway postgres and opens a gorm connection to it.
func CreateConnection(t testing.TB, dbName, dbUser, dbPass string) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	cont, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbName),
		pgcontainer.WithUsername(dbUser),
		pgcontainer.WithPassword(dbPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		assert.NoError(t, cont.Terminate(ctx), "failed to terminate postgres container")
	})

	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, postgresPort)
	require.NoError(t, err)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   dbUser,
		Password: dbPass,
		Host:     host,
		Port:     port.Port(),
	})
	require.NoError(t, err, "failed to connect to postgres")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}
