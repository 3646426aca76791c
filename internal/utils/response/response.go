// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may return any JSON shape (a student, a list, relayed
// workout JSON…). Error responses always look like:
//
//	{ "message": "no student registered with this taxpayer id" }
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/gym-api/internal/apperr"
	"github.com/aanand-mishra/gym-api/internal/lib/sl"
	"github.com/aanand-mishra/gym-api/internal/observability"
)

// Response is the error envelope.
type Response struct {
	Message string `json:"message"`
}

// WriteJSON writes data as JSON with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// Message builds an error envelope.
func Message(msg string) Response {
	return Response{Message: msg}
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindDependency:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status of its kind. Internal errors are logged
// at error level and reported; their detail never reaches the client.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	kind := apperr.KindOf(err)

	msg := "an unexpected error occurred"
	var appErr *apperr.Error
	if errors.As(err, &appErr) && kind != apperr.KindInternal {
		msg = appErr.Message
	}

	switch kind {
	case apperr.KindInternal, apperr.KindConfig:
		log.Error("request failed", slog.String("kind", kind.String()), sl.Err(err))
		observability.CaptureErr(err)
	default:
		log.Info("request rejected", slog.String("kind", kind.String()), sl.Err(err))
	}

	WriteJSON(w, r, StatusFor(kind), Message(msg))
}

// BadRequest writes a 400 for a request that could not be decoded.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	WriteJSON(w, r, http.StatusBadRequest, Message(msg))
}

// ValidationError converts validator.FieldError values into one readable
// message, e.g. "field cpf is required, field nivel is invalid".
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "student_level":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of beginner, intermediate, advanced", e.Field()))
		case "muscle_group":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be one of peito, costas, biceps, triceps, trapezio, ombro, perna", e.Field()))
		case "gt":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be greater than %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{Message: strings.Join(errMessages, ", ")}
}
