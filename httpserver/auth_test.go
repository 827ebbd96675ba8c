package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"movielobby/httpserver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRoleHeaderAuthorizer(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		role     string
		expected bool
	}{
		{name: "admin", role: "admin", expected: true},
		{name: "missing", role: "", expected: false},
		{name: "other role", role: "user", expected: false},
		{name: "different case", role: "ADMIN", expected: false},
		{name: "padded", role: " admin", expected: false},
		{name: "custom header", header: "X-Role", role: "admin", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.header
			if header == "" {
				header = httpserver.RoleHeader
			}
			req := httptest.NewRequest(http.MethodPost, "/movies", nil)
			if tt.role != "" {
				req.Header.Set(header, tt.role)
			}

			got := httpserver.RoleHeaderAuthorizer{Header: tt.header}.Authorize(req)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWithAuthorizer(t *testing.T) {
	svc := new(MockMovieService)
	svc.On("Delete", mock.Anything, validID).Return(nil)
	allowAll := httpserver.AuthorizerFunc(func(*http.Request) bool { return true })
	server := MustCreateServer(t, svc, httpserver.WithAuthorizer(allowAll))

	rec := serve(server, newMovieRequest(t, http.MethodDelete, "/movies/"+validID, nil, false))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
