package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Server error codes the adapters care about.
const (
	codeNamespaceExists          = 48
	codeDocumentValidationFailed = 121
)

type Options struct {
	URI string
}

// NewClient connects to MongoDB and pings the primary.
func NewClient(ctx context.Context, opts Options) (*mongo.Client, error) {
	uri := strings.TrimSpace(opts.URI)
	if uri == "" {
		return nil, errors.New("mongo: uri is required")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return client, nil
}

func isValidationFailure(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeDocumentValidationFailed)
}

func isNamespaceExists(err error) bool {
	var se mongo.ServerError
	return errors.As(err, &se) && se.HasErrorCode(codeNamespaceExists)
}
