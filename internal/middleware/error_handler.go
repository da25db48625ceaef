package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tickethub/ticket-booking/internal/dto"
	"go.uber.org/zap"
)

// ErrorHandler renders every error as {"message": ...}. Errors that were
// not mapped by a handler are internal faults: they are logged in full
// and surfaced as a generic message so storage and broker details never
// reach clients.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "service temporarily unavailable"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
			msg = "service temporarily unavailable"
		}

		_ = c.JSON(code, dto.ErrorResponse{Message: msg})
	}
}
