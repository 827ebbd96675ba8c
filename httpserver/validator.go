package httpserver

import (
	"errors"
	"reflect"
	"strings"

	"movielobby/errs"
	"movielobby/movie"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &CustomValidator{validate: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError reports the first failing rule with the same message the
// movie package uses, so handler and usecase checks read alike.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Errorf(errs.EINVALID, "validation error")
	}

	fe := verrs[0]
	switch fe.Field() + "." + fe.Tag() {
	case "rating.gte":
		return movie.ErrRatingTooLow
	case "rating.lte":
		return movie.ErrRatingTooHigh
	case "streamingLink.max":
		return movie.ErrStreamingLinkTooLong
	}
	return errs.Errorf(errs.EINVALID, "%s failed on %s", fe.Field(), fe.Tag())
}
