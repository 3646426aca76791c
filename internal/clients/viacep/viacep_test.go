package viacep

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/gym-api/internal/apperr"
)

func TestRegion(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		status   int
		want     string
		wantKind apperr.Kind
		wantErr  bool
	}{
		{
			name:   "resolves uf",
			body:   `{"cep":"49010-450","logradouro":"Rua Itabaiana","localidade":"Aracaju","uf":"se"}`,
			status: http.StatusOK,
			want:   "SE",
		},
		{
			name:     "unknown cep",
			body:     `{"erro": true}`,
			status:   http.StatusOK,
			wantErr:  true,
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "unknown cep, legacy string flag",
			body:     `{"erro": "true"}`,
			status:   http.StatusOK,
			wantErr:  true,
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "missing uf",
			body:     `{"cep":"49010-450"}`,
			status:   http.StatusOK,
			wantErr:  true,
			wantKind: apperr.KindDependency,
		},
		{
			name:     "bad request",
			body:     `<h1>Bad Request</h1>`,
			status:   http.StatusBadRequest,
			wantErr:  true,
			wantKind: apperr.KindDependency,
		},
		{
			name:     "unparseable body",
			body:     `{"uf":`,
			status:   http.StatusOK,
			wantErr:  true,
			wantKind: apperr.KindDependency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/ws/49010450/json/", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			got, err := New(srv.URL, time.Second).Region(context.Background(), "49010450")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
