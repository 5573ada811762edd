package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/validation"
)

const (
	labelNotFound   = "Resource not found"
	labelDatabase   = "Database exception"
	labelValidation = "Validation exception"
)

type StandardError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

type ValidationError struct {
	StandardError
	Errors []validation.FieldMessage `json:"errors"`
}

// labeled carries the envelope "error" label through echo.HTTPError.Message.
type labeled struct {
	Label   string
	Message string
}

func (l labeled) String() string { return l.Message }

func apiError(code int, label, message string) *echo.HTTPError {
	return echo.NewHTTPError(code, labeled{Label: label, Message: message})
}

func notFound(message string) *echo.HTTPError {
	return apiError(http.StatusNotFound, labelNotFound, message)
}

// ErrorHandler renders every error as a StandardError (or ValidationError) body.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	base := StandardError{
		Timestamp: time.Now().UTC(),
		Path:      c.Request().URL.Path,
	}

	var ve *validation.Errors
	if errors.As(err, &ve) {
		base.Status = http.StatusUnprocessableEntity
		base.Error = labelValidation
		base.Message = "Invalid data"
		respond(c, base.Status, ValidationError{StandardError: base, Errors: ve.Fields})
		return
	}

	he := &echo.HTTPError{}
	if !errors.As(err, &he) {
		he = echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}

	base.Status = he.Code
	switch m := he.Message.(type) {
	case labeled:
		base.Error, base.Message = m.Label, m.Message
	case string:
		base.Error, base.Message = http.StatusText(he.Code), m
	default:
		base.Error, base.Message = http.StatusText(he.Code), fmt.Sprint(m)
	}
	if he.Code == http.StatusUnprocessableEntity {
		respond(c, he.Code, ValidationError{StandardError: base, Errors: []validation.FieldMessage{}})
		return
	}
	respond(c, he.Code, base)
}

func respond(c echo.Context, code int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// serviceError maps a service failure to its HTTP status and logs it once.
func serviceError(l *slog.Logger, event string, err error) error {
	var ve *validation.Errors
	switch {
	case errors.As(err, &ve):
		l.Warn(event, "status", 422, "reason", "validation", "error", err)
		return ve
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 422, "reason", "validation", "error", err)
		return apiError(http.StatusUnprocessableEntity, labelValidation, err.Error()).SetInternal(err)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "not found", "error", err)
		return notFound("Entity not found").SetInternal(err)
	case errors.Is(err, service.ErrDatabase):
		l.Warn(event, "status", 400, "reason", "integrity violation", "error", err)
		return apiError(http.StatusBadRequest, labelDatabase, "Integrity violation").SetInternal(err)
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer").SetInternal(err)
	}
	return id, nil
}

func bindError(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
}
