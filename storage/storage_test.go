package storage_test

import (
	"context"
	"testing"

	"movielobby/pkg/config"
	"movielobby/pkg/logger"
	"movielobby/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = "sqlite"

	store, closeFn, err := storage.Open(context.Background(), cfg, logger.NOOPLogger)

	assert.Nil(t, store)
	require.NotNil(t, closeFn)
	assert.NotPanics(t, closeFn)
	assert.EqualError(t, err, `storage: unsupported driver "sqlite"`)
}

func TestOpen_DynamoDBRequiresRegion(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverDynamoDB
	cfg.DynamoDB.MoviesTable = "movies"

	store, closeFn, err := storage.Open(context.Background(), cfg, logger.NOOPLogger)

	assert.Nil(t, store)
	assert.NotNil(t, closeFn)
	assert.EqualError(t, err, "dynamodb: region is required")
}
