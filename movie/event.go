package movie

import (
	"context"
	"time"
)

type EventType string

const (
	EventCreated EventType = "movie.created"
	EventUpdated EventType = "movie.updated"
	EventDeleted EventType = "movie.deleted"
)

// Event describes a change to the catalog. Movie is nil for deletions.
type Event struct {
	Type       EventType `json:"type"`
	MovieID    string    `json:"movieId"`
	Movie      *Movie    `json:"movie,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEvent(typ EventType, m Movie) Event {
	e := Event{
		Type:       typ,
		MovieID:    m.ID,
		OccurredAt: time.Now().UTC(),
	}
	if typ != EventDeleted {
		e.Movie = &m
	}
	return e
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
