package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/Innkaufhaus/kundenbestellung-v6/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// ErrorResponse maps an error to a structured JSON payload. HttpError wins,
// then validation errors, then the sentinel taxonomy; anything else is a 500.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed rule '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "validation failed: " + strings.Join(msgs, "; "),
		})
	}

	code := http.StatusInternalServerError
	message := "internal server error"
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = http.StatusNotFound, "record not found"
	case errors.Is(err, apperrors.ErrConflict):
		code, message = http.StatusConflict, "uniqueness violation"
	case errors.Is(err, apperrors.ErrBadRequest):
		code, message = http.StatusBadRequest, "invalid request"
	case errors.Is(err, apperrors.ErrDelivery):
		code, message = http.StatusInternalServerError, "mail delivery failed"
	default:
		logger.Error("unexpected error", zap.Error(err))
	}

	return c.JSON(code, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}
