package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"movielobby/movie"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher sends movie events to <prefix>.<event type>, e.g. lobby.movie.created.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.SugaredLogger
}

func NewPublisher(conn *nats.Conn, prefix string, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.Named("publisher"),
	}
}

func (p *Publisher) Subject(typ movie.EventType) string {
	if p.prefix == "" {
		return string(typ)
	}
	return p.prefix + "." + string(typ)
}

func (p *Publisher) Publish(_ context.Context, e movie.Event) error {
	subject := p.Subject(e.Type)

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("nats: marshal event: %w", err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Errorw("failed to publish event",
			"error", err,
			"subject", subject,
			"movie_id", e.MovieID,
		)
		return fmt.Errorf("nats: publish %s: %w", subject, err)
	}

	p.logger.Debugw("event published", "subject", subject, "movie_id", e.MovieID)
	return nil
}
