package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"resume-builder/internal/domain"
	"resume-builder/internal/model"

	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details []string          `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// pdfError marks a failure on a PDF route so the 500 body names the step.
type pdfError struct{ err error }

func (e *pdfError) Error() string { return e.err.Error() }
func (e *pdfError) Unwrap() error { return e.err }

func pdfFailure(err error) error {
	if err == nil {
		return nil
	}
	return &pdfError{err: err}
}

// NewErrorHandler maps handler errors to a status and a JSON body. Causes of
// 5xx responses are logged and never sent to the client.
func NewErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		return c.Status(status).JSON(body)
	}
}

func classify(err error) (int, errorResponse) {
	var (
		ve *domain.ValidationError
		se *model.SchemaError
		fe *fiber.Error
		pe *pdfError
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest, errorResponse{
			Error:   "Validation failed",
			Code:    "VALIDATION_FAILED",
			Details: ve.Messages,
			Fields:  ve.Fields,
		}
	case errors.As(err, &se):
		return fiber.StatusBadRequest, errorResponse{
			Error:   "Invalid resume document",
			Code:    "INVALID_DOCUMENT",
			Details: se.Problems,
		}
	case errors.Is(err, domain.ErrHTMLRequired):
		return fiber.StatusBadRequest, errorResponse{Error: "HTML content is required", Code: "HTML_REQUIRED"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, errorResponse{Error: "Resume not found", Code: "NOT_FOUND"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, errorResponse{Error: "Not authorized to access this resume", Code: "FORBIDDEN"}
	case errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError:
		return fe.Code, errorResponse{Error: fe.Message, Code: statusCode(fe.Code)}
	case errors.As(err, &pe):
		return fiber.StatusInternalServerError, errorResponse{Error: "Failed to generate PDF", Code: "PDF_FAILED"}
	default:
		return fiber.StatusInternalServerError, errorResponse{Error: "Internal server error", Code: "INTERNAL"}
	}
}

// statusCode turns 404 into "NOT_FOUND" and so on.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
