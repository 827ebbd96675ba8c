package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/", s.handleRoot)
	s.Router.GET("/healthcheck", s.healthCheck)
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.String(http.StatusOK, "hello world")
}

func (s *Server) healthCheck(c echo.Context) error {
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "OK",
	})
}
