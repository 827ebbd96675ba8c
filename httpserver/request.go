package httpserver

import (
	"strings"

	"movielobby/errs"
	"movielobby/movie"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const invalidBodyMessage = "Invalid request body"

// MovieRequest is the body of POST and PUT /movies. Absent keys stay nil.
type MovieRequest struct {
	Title         *string  `json:"title"`
	Genre         *string  `json:"genre"`
	Rating        *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	StreamingLink *string  `json:"streamingLink" validate:"omitempty,max=4000"`
}

func (r MovieRequest) ToFields() movie.Fields {
	return movie.Fields{
		Title:         r.Title,
		Genre:         r.Genre,
		Rating:        r.Rating,
		StreamingLink: r.StreamingLink,
	}
}

// bindMovieRequest decodes JSON bodies only. Any other content type leaves
// req empty so the usual field checks answer the request.
func (s *Server) bindMovieRequest(c echo.Context, req *MovieRequest) error {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(strings.ToLower(ctype), echo.MIMEApplicationJSON) {
		return nil
	}

	if err := c.Bind(req); err != nil {
		s.Logger.Infow("decode movie request", zap.Error(err), zap.String("request_id", s.requestID(c)))
		return errs.Errorf(errs.EINVALID, invalidBodyMessage)
	}
	return nil
}
