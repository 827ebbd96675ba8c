package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"movielobby/httpserver"
	"movielobby/movie"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validID = "65a1f0c2e4b0a1b2c3d4e5f6"

func ptr[T any](v T) *T { return &v }

type MockMovieService struct {
	mock.Mock
}

func (m *MockMovieService) List(ctx context.Context, query string) ([]movie.Movie, error) {
	args := m.Called(ctx, query)
	movies, _ := args.Get(0).([]movie.Movie)
	return movies, args.Error(1)
}

func (m *MockMovieService) Create(ctx context.Context, f movie.Fields) (movie.Movie, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) Update(ctx context.Context, id string, f movie.Fields) (movie.Movie, error) {
	args := m.Called(ctx, id, f)
	return args.Get(0).(movie.Movie), args.Error(1)
}

func (m *MockMovieService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Results *int            `json:"results"`
	Data    json.RawMessage `json:"data"`
}

func MustCreateServer(t testing.TB, svc movie.Service, options ...httpserver.Options) *httpserver.Server {
	t.Helper()
	options = append([]httpserver.Options{httpserver.WithMovieService(svc)}, options...)
	server, err := httpserver.New(options...)
	require.NoError(t, err)
	return server
}

func newMovieRequest(t testing.TB, method, path string, body interface{}, admin bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(httpserver.RoleHeader, movie.AdminRole)
	}
	return req
}

func serve(server *httpserver.Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decodeAPIResponse(t testing.TB, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeMovie(t testing.TB, resp apiResponse) movie.Movie {
	t.Helper()
	var m movie.Movie
	require.NoError(t, json.Unmarshal(resp.Data, &m))
	return m
}

func decodeMovies(t testing.TB, resp apiResponse) []movie.Movie {
	t.Helper()
	var movies []movie.Movie
	require.NoError(t, json.Unmarshal(resp.Data, &movies))
	return movies
}
