package response

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aanand-mishra/gym-api/internal/apperr"
)

func TestError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "conflict",
			err:        apperr.Conflict("taxpayer id already registered"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"message":"taxpayer id already registered"}`,
		},
		{
			name:       "not found",
			err:        apperr.NotFound("no students registered"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"no students registered"}`,
		},
		{
			name:       "validation",
			err:        apperr.Validation("qtd_meses must be a positive integer"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `{"message":"qtd_meses must be a positive integer"}`,
		},
		{
			name:       "dependency",
			err:        apperr.Dependency("workout service request failed", errors.New("refused")),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"workout service request failed"}`,
		},
		{
			name:       "config",
			err:        apperr.Config("gyms dataset not found", errors.New("no such file")),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"gyms dataset not found"}`,
		},
		{
			name:       "internal detail is hidden",
			err:        errors.New("sqlite: disk I/O error"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"an unexpected error occurred"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			Error(w, r, log, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
