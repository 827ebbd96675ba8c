package httpserver

import (
	"github.com/labstack/echo/v4"
)

const (
	statusSuccess        = "success"
	statusError          = "error"
	internalErrorMessage = "Internal server error"
)

type SuccessResponse struct {
	Status  string      `json:"status"`
	Results *int        `json:"results,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeSuccess(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, SuccessResponse{
		Status: statusSuccess,
		Data:   data,
	})
}

func writeList(c echo.Context, status int, data interface{}, results int) error {
	return c.JSON(status, SuccessResponse{
		Status:  statusSuccess,
		Results: &results,
		Data:    data,
	})
}
