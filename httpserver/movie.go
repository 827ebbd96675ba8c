package httpserver

import (
	"net/http"

	"movielobby/errs"
	"movielobby/movie"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("", s.handleListMovies)
	g.POST("", s.handleCreateMovie, s.requireAdmin)
	g.PUT("/:id", s.handleUpdateMovie, s.requireAdmin)
	g.DELETE("/:id", s.handleDeleteMovie, s.requireAdmin)
}

func (s *Server) movieService() (movie.Service, error) {
	if s.MovieService == nil {
		return nil, errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return s.MovieService, nil
}

func (s *Server) handleListMovies(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	movies, err := svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	if movies == nil {
		movies = []movie.Movie{}
	}

	return writeList(c, http.StatusOK, movies, len(movies))
}

func (s *Server) handleCreateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	var req MovieRequest
	if err := s.bindMovieRequest(c, &req); err != nil {
		return err
	}
	if req.Title == nil || req.Genre == nil || !movie.HasRequiredCreateFields(*req.Title, *req.Genre) {
		return movie.ErrMissingRequiredFields
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := svc.Create(c.Request().Context(), req.ToFields())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusCreated, created)
}

func (s *Server) handleUpdateMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id := c.Param("id")
	if !movie.IsValidID(id) {
		return movie.ErrInvalidID
	}

	var req MovieRequest
	if err := s.bindMovieRequest(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updated, err := svc.Update(c.Request().Context(), id, req.ToFields())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, updated)
}

func (s *Server) handleDeleteMovie(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	id := c.Param("id")
	if !movie.IsValidID(id) {
		return movie.ErrInvalidID
	}

	if err := svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
