// Package request holds the decoding and validation steps shared by all
// handlers. Each helper writes the 400 response itself and reports whether
// the handler may continue.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/gym-api/internal/types"
	"github.com/aanand-mishra/gym-api/internal/utils/response"
)

// maxBodySize caps request bodies; every payload here is a handful of fields.
const maxBodySize = 1 << 20

var validate = types.NewValidator()

// Logger returns log tagged with the handler's op and the chi request id.
func Logger(log *slog.Logger, r *http.Request, op string) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// DecodeJSON decodes the body into v and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
	if errors.Is(err, io.EOF) {
		response.BadRequest(w, r, "request body is empty")
		return false
	}
	if err != nil {
		response.BadRequest(w, r, fmt.Sprintf("invalid request body: %s", err.Error()))
		return false
	}
	return Validate(w, r, v)
}

// Validate checks v's validate tags.
func Validate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.WriteJSON(w, r, http.StatusBadRequest, response.ValidationError(verrs))
			return false
		}
		response.BadRequest(w, r, err.Error())
		return false
	}
	return true
}

// TaxpayerID reads a required positive integer query parameter.
func TaxpayerID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		response.BadRequest(w, r, fmt.Sprintf("query parameter %s is required", name))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, r, fmt.Sprintf("invalid %s: must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// OptionalTaxpayerID reads an optional query parameter; 0 means absent.
func OptionalTaxpayerID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return 0, true
	}
	return TaxpayerID(w, r, name)
}

// Query reads a required string query parameter.
func Query(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		response.BadRequest(w, r, fmt.Sprintf("query parameter %s is required", name))
		return "", false
	}
	return v, true
}
