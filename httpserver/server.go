package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"movielobby/errs"
	"movielobby/movie"
	"movielobby/pkg/config"
	"movielobby/pkg/logger"
	"movielobby/pkg/sentry"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const defaultAddr = ":3000"

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	Config *config.Config
	Logger *zap.SugaredLogger

	MovieService movie.Service

	// Authorizer gates the write routes
	Authorizer Authorizer
}

func New(options ...Options) (*Server, error) {
	s := Server{
		Router:     echo.New(),
		Addr:       defaultAddr,
		Config:     config.Empty,
		Logger:     logger.NOOPLogger,
		Authorizer: RoleHeaderAuthorizer{},
	}

	for _, fn := range options {
		if err := fn(&s); err != nil {
			return nil, err
		}
	}

	s.Router.HideBanner = true
	s.Router.HidePort = true
	s.Router.Validator = NewValidator()
	s.Router.HTTPErrorHandler = s.handleHTTPError

	s.RegisterGlobalMiddlewares()
	s.RegisterHealthRoutes()
	s.RegisterMovieRoutes(s.Router.Group("/movies"))

	return &s, nil
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.Logger.Infow("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	// CORS
	if origins := s.Config.Origins(); len(origins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
		}))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// handleHTTPError renders every failure as {status:"error", message}.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := resolveError(err, c)
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil && code < http.StatusInternalServerError {
		s.Logger.Infow(err.Error(), zap.String("request_id", s.requestID(c)))
	}
	if code >= http.StatusInternalServerError {
		s.Logger.Errorw(err.Error(), zap.String("request_id", s.requestID(c)))
		sentry.WithContext(c).Error(err)
	}

	if err := c.JSON(code, ErrorResponse{Status: statusError, Message: message}); err != nil {
		s.Logger.Errorw("write error response", zap.Error(err))
	}
}

func resolveError(err error, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch {
		case he.Code == http.StatusNotFound, he.Code == http.StatusMethodNotAllowed:
			return http.StatusNotFound, fmt.Sprintf("Can't find %s on this server!", requestURI(c.Request()))
		case he.Code >= http.StatusInternalServerError:
			return he.Code, internalErrorMessage
		case he.Internal != nil && he.Code == http.StatusBadRequest:
			return he.Code, invalidBodyMessage
		case he.Internal != nil:
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	// Map application error codes to HTTP status codes
	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, errs.ErrorMessage(err)
	case errs.ENOTFOUND:
		return http.StatusNotFound, errs.ErrorMessage(err)
	case errs.ECONFLICT:
		return http.StatusConflict, errs.ErrorMessage(err)
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized, errs.ErrorMessage(err)
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, errs.ErrorMessage(err)
	}
	return http.StatusInternalServerError, internalErrorMessage
}

func requestURI(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

func (s *Server) requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
