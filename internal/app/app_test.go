package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/gym-api/internal/config"
)

const gymsFixture = `{"academias":[
	{"UF":"SE","nome":"Unidade Centro","cidade":"Aracaju"},
	{"UF":"SP","nome":"Unidade Paulista","cidade":"Sao Paulo"}
]}`

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()

	workouts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/meutreino/iniciante/peito":
			_, _ = w.Write([]byte(`{"treino":["Supino Reto"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(workouts.Close)

	postal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ws/49000000/json/":
			_, _ = w.Write([]byte(`{"cep":"49000-000","uf":"se"}`))
		default:
			_, _ = w.Write([]byte(`{"erro":true}`))
		}
	}))
	t.Cleanup(postal.Close)

	gyms := filepath.Join(dir, "academias.json")
	require.NoError(t, os.WriteFile(gyms, []byte(gymsFixture), 0o600))

	cfg := &config.Config{
		Env:            "dev",
		StoragePath:    filepath.Join(dir, "storage", "gym.db"),
		GymsDataset:    gyms,
		HTTPServer:     config.HTTPServer{Addr: "localhost:0", Timeout: 5 * time.Second, IdleTimeout: time.Minute},
		WorkoutService: config.Upstream{BaseURL: workouts.URL, Timeout: 2 * time.Second},
		PostalService:  config.Upstream{BaseURL: postal.URL, Timeout: 2 * time.Second},
	}

	a, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return a.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, r))
	return rr
}

func TestStudentLifecycle(t *testing.T) {
	h := newTestApp(t)

	rr := do(t, h, http.MethodGet, "/get_alunos", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPost, "/add_aluno", `{"cpf":111,"nome":"Neil Peart","nivel":"iniciante"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotZero(t, created["matricula"])
	assert.Equal(t, "beginner", created["nivel"])

	rr = do(t, h, http.MethodPost, "/add_aluno", `{"cpf":111,"nome":"Someone Else","nivel":"advanced"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, h, http.MethodGet, "/get_aluno?cpf=111", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"nome":"Neil Peart"`)

	rr = do(t, h, http.MethodPut, "/update_aluno", `{"cpf":111,"nome":"N. Peart","nivel":"avancado","telefone":"79 999999999"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"nivel":"advanced"`)

	rr = do(t, h, http.MethodPut, "/contrata_plano", `{"cpf":111,"qtd_meses":2}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(t, h, http.MethodPut, "/contrata_plano", `{"cpf":111,"qtd_meses":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPut, "/contrata_plano", `{"cpf":111,"qtd_meses":3600}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodGet, "/get_alunos", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list map[string][]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list["alunos"], 1)

	rr = do(t, h, http.MethodDelete, "/del_aluno?cpf=111", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"student removed","nome":"N. Peart","cpf":111}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/get_aluno?cpf=111", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWorkoutPlan(t *testing.T) {
	h := newTestApp(t)

	rr := do(t, h, http.MethodGet, "/monta_treino?cpf=222&grupo=peito", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodPost, "/add_aluno", `{"cpf":222,"nome":"Geddy Lee","nivel":"beginner"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, http.MethodGet, "/monta_treino?cpf=222&grupo=peito", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"treino":["Supino Reto"]}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/listatreinos", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGymLocator(t *testing.T) {
	h := newTestApp(t)

	rr := do(t, h, http.MethodGet, "/consulta_academias?cep=49000-000", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `[{"UF":"SE","nome":"Unidade Centro","cidade":"Aracaju"}]`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/consulta_academias?cep=01310-100", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/consulta_academias?cep=123", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	h := newTestApp(t)

	rr := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	rr = do(t, h, http.MethodGet, "/", "")
	assert.JSONEq(t, `{"message":"gym-api `+Version+`"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "gymapi_http_requests_total")
}
