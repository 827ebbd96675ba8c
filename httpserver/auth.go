package httpserver

import (
	"net/http"

	"movielobby/movie"

	"github.com/labstack/echo/v4"
)

// RoleHeader carries the caller's role on write requests.
const RoleHeader = "role"

type Authorizer interface {
	Authorize(r *http.Request) bool
}

type AuthorizerFunc func(r *http.Request) bool

func (f AuthorizerFunc) Authorize(r *http.Request) bool { return f(r) }

// RoleHeaderAuthorizer admits requests whose role header is exactly "admin".
type RoleHeaderAuthorizer struct {
	// Header overrides RoleHeader when set.
	Header string
}

func (a RoleHeaderAuthorizer) Authorize(r *http.Request) bool {
	header := a.Header
	if header == "" {
		header = RoleHeader
	}
	return movie.IsAdmin(r.Header.Get(header))
}

// requireAdmin runs before binding and id checks.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Authorizer.Authorize(c.Request()) {
			return movie.ErrOnlyAdmins
		}
		return next(c)
	}
}
