package movie

import (
	"strings"
	"time"
	"unicode/utf8"

	"movielobby/errs"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	AdminRole = "admin"

	MinRating           = 0
	MaxRating           = 5
	MaxStreamingLinkLen = 4000
)

var (
	ErrOnlyAdmins            = errs.Errorf(errs.EUNAUTHORIZED, "Only Admin can create")
	ErrMissingRequiredFields = errs.Errorf(errs.EINVALID, "Missing required fields")
	ErrInvalidID             = errs.Errorf(errs.EINVALID, "Invalid ID format")
	ErrNotFound              = errs.Errorf(errs.ENOTFOUND, "No movie found with that ID")

	ErrTitleRequired        = errs.Errorf(errs.EINVALID, "A movie must have a title")
	ErrGenreRequired        = errs.Errorf(errs.EINVALID, "A movie must have a genre")
	ErrRatingTooLow         = errs.Errorf(errs.EINVALID, "Rating must be above 0")
	ErrRatingTooHigh        = errs.Errorf(errs.EINVALID, "Rating must be below or equal to 5")
	ErrStreamingLinkTooLong = errs.Errorf(errs.EINVALID, "Streaming Link max length is 4000")
)

type Movie struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Genre         string    `json:"genre"`
	Rating        float64   `json:"rating"`
	StreamingLink string    `json:"streamingLink"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the invariants every persisted movie must hold.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(m.Genre) == "" {
		return ErrGenreRequired
	}
	if err := validateRating(m.Rating); err != nil {
		return err
	}
	return validateStreamingLink(m.StreamingLink)
}

// Fields is a partial movie as submitted by a client. Nil means "not provided".
type Fields struct {
	Title         *string
	Genre         *string
	Rating        *float64
	StreamingLink *string
}

// Normalize returns a copy with the title trimmed.
func (f Fields) Normalize() Fields {
	if f.Title != nil {
		title := strings.TrimSpace(*f.Title)
		f.Title = &title
	}
	return f
}

// Validate checks only the provided fields.
func (f Fields) Validate() error {
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return ErrTitleRequired
	}
	if f.Genre != nil && strings.TrimSpace(*f.Genre) == "" {
		return ErrGenreRequired
	}
	if f.Rating != nil {
		if err := validateRating(*f.Rating); err != nil {
			return err
		}
	}
	if f.StreamingLink != nil {
		return validateStreamingLink(*f.StreamingLink)
	}
	return nil
}

// Apply copies the provided fields onto m.
func (f Fields) Apply(m Movie) Movie {
	if f.Title != nil {
		m.Title = *f.Title
	}
	if f.Genre != nil {
		m.Genre = *f.Genre
	}
	if f.Rating != nil {
		m.Rating = *f.Rating
	}
	if f.StreamingLink != nil {
		m.StreamingLink = *f.StreamingLink
	}
	return m
}

// IsAdmin reports whether the role header grants write access.
func IsAdmin(role string) bool {
	return role == AdminRole
}

func HasRequiredCreateFields(title, genre string) bool {
	return strings.TrimSpace(title) != "" && strings.TrimSpace(genre) != ""
}

// IsValidID reports whether id is a 24 character hex ObjectID.
func IsValidID(id string) bool {
	_, err := bson.ObjectIDFromHex(id)
	return err == nil
}

// NormalizeID returns the canonical lowercase form of a valid id. Stores
// compare ids as plain strings.
func NormalizeID(id string) string {
	return strings.ToLower(id)
}

// NewID returns a fresh identifier for stores that don't allocate one.
func NewID() string {
	return bson.NewObjectID().Hex()
}

func validateRating(r float64) error {
	if r < MinRating {
		return ErrRatingTooLow
	}
	if r > MaxRating {
		return ErrRatingTooHigh
	}
	return nil
}

func validateStreamingLink(link string) error {
	if utf8.RuneCountInString(link) > MaxStreamingLinkLen {
		return ErrStreamingLinkTooLong
	}
	return nil
}
