package httpserver

import (
	"errors"
	"fmt"

	"movielobby/movie"
	"movielobby/pkg/config"

	"go.uber.org/zap"
)

type Options func(s *Server) error

// WithConfig also derives the listen address from cfg.Port.
func WithConfig(cfg *config.Config) Options {
	return func(s *Server) error {
		if cfg == nil {
			return errors.New("httpserver: nil config")
		}
		s.Config = cfg
		if cfg.Port > 0 {
			s.Addr = fmt.Sprintf(":%d", cfg.Port)
		}
		return nil
	}
}

func WithLogger(l *zap.SugaredLogger) Options {
	return func(s *Server) error {
		s.Logger = l
		return nil
	}
}

func WithMovieService(svc movie.Service) Options {
	return func(s *Server) error {
		s.MovieService = svc
		return nil
	}
}

func WithAuthorizer(a Authorizer) Options {
	return func(s *Server) error {
		if a == nil {
			return errors.New("httpserver: nil authorizer")
		}
		s.Authorizer = a
		return nil
	}
}
