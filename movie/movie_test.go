package movie_test

import (
	"strings"
	"testing"

	"movielobby/movie"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{role: "admin", expected: true},
		{role: "Admin", expected: false},
		{role: "ADMIN", expected: false},
		{role: " admin", expected: false},
		{role: "user", expected: false},
		{role: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			assert.Equal(t, tt.expected, movie.IsAdmin(tt.role))
		})
	}
}

func TestHasRequiredCreateFields(t *testing.T) {
	assert.True(t, movie.HasRequiredCreateFields("New Movie", "Action"))
	assert.False(t, movie.HasRequiredCreateFields("", "Action"))
	assert.False(t, movie.HasRequiredCreateFields("New Movie", ""))
	assert.False(t, movie.HasRequiredCreateFields("   ", "Action"))
}

func TestIsValidID(t *testing.T) {
	assert.True(t, movie.IsValidID("65a1f0c2e4b0a1b2c3d4e5f6"))
	assert.True(t, movie.IsValidID(movie.NewID()))
	assert.False(t, movie.IsValidID(""))
	assert.False(t, movie.IsValidID("123"))
	assert.False(t, movie.IsValidID("zza1f0c2e4b0a1b2c3d4e5f6"))
	assert.False(t, movie.IsValidID("65a1f0c2e4b0a1b2c3d4e5f6aa"))
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", movie.NormalizeID("65A1F0C2E4B0A1B2C3D4E5F6"))
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f6", movie.NormalizeID("65a1f0c2e4b0a1b2c3d4e5f6"))
}

func TestMovie_Validate(t *testing.T) {
	valid := movie.Movie{Title: "Cat vs Dog", Genre: "Horror", Rating: 5}

	tests := []struct {
		name     string
		mutate   func(m *movie.Movie)
		expected error
	}{
		{name: "valid", mutate: func(*movie.Movie) {}, expected: nil},
		{name: "rating zero", mutate: func(m *movie.Movie) { m.Rating = 0 }, expected: nil},
		{name: "empty title", mutate: func(m *movie.Movie) { m.Title = "" }, expected: movie.ErrTitleRequired},
		{name: "blank genre", mutate: func(m *movie.Movie) { m.Genre = "  " }, expected: movie.ErrGenreRequired},
		{name: "negative rating", mutate: func(m *movie.Movie) { m.Rating = -0.5 }, expected: movie.ErrRatingTooLow},
		{name: "rating above five", mutate: func(m *movie.Movie) { m.Rating = 5.1 }, expected: movie.ErrRatingTooHigh},
		{name: "rating ten", mutate: func(m *movie.Movie) { m.Rating = 10 }, expected: movie.ErrRatingTooHigh},
		{name: "link at limit", mutate: func(m *movie.Movie) { m.StreamingLink = strings.Repeat("a", 4000) }, expected: nil},
		{name: "link too long", mutate: func(m *movie.Movie) { m.StreamingLink = strings.Repeat("a", 4001) }, expected: movie.ErrStreamingLinkTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			assert.Equal(t, tt.expected, m.Validate())
		})
	}
}

func TestFields(t *testing.T) {
	t.Run("validate checks only provided fields", func(t *testing.T) {
		assert.NoError(t, movie.Fields{}.Validate())
		assert.NoError(t, movie.Fields{Rating: ptr(3.5)}.Validate())
		assert.Equal(t, movie.ErrTitleRequired, movie.Fields{Title: ptr("")}.Validate())
		assert.Equal(t, movie.ErrRatingTooHigh, movie.Fields{Rating: ptr(6.0)}.Validate())
		assert.Equal(t, movie.ErrStreamingLinkTooLong, movie.Fields{StreamingLink: ptr(strings.Repeat("x", 4001))}.Validate())
	})

	t.Run("normalize trims title", func(t *testing.T) {
		f := movie.Fields{Title: ptr("  Space Adventure ")}.Normalize()
		assert.Equal(t, "Space Adventure", *f.Title)
	})

	t.Run("apply copies set fields only", func(t *testing.T) {
		m := movie.Movie{ID: "id", Title: "Old", Genre: "Drama", Rating: 3, StreamingLink: "old.com"}

		got := movie.Fields{Title: ptr("New"), Rating: ptr(4.0)}.Apply(m)

		assert.Equal(t, movie.Movie{ID: "id", Title: "New", Genre: "Drama", Rating: 4, StreamingLink: "old.com"}, got)
	})
}

func TestNewEvent(t *testing.T) {
	m := movie.Movie{ID: "65a1f0c2e4b0a1b2c3d4e5f6", Title: "New Movie"}

	created := movie.NewEvent(movie.EventCreated, m)
	assert.Equal(t, movie.EventCreated, created.Type)
	assert.Equal(t, m.ID, created.MovieID)
	assert.Equal(t, &m, created.Movie)
	assert.False(t, created.OccurredAt.IsZero())

	deleted := movie.NewEvent(movie.EventDeleted, movie.Movie{ID: m.ID})
	assert.Nil(t, deleted.Movie)
	assert.Equal(t, m.ID, deleted.MovieID)
}
