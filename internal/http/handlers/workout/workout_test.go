package workout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aanand-mishra/gym-api/internal/apperr"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) FetchPlan(ctx context.Context, taxpayerID int64, group string) (json.RawMessage, error) {
	args := m.Called(ctx, taxpayerID, group)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *ServiceMock) ListWorkouts(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *ServiceMock) AddExercise(ctx context.Context, group, exercise string) (json.RawMessage, error) {
	args := m.Called(ctx, group, exercise)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func (m *ServiceMock) DeleteWorkout(ctx context.Context, id string) (json.RawMessage, error) {
	args := m.Called(ctx, id)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestFetchPlan(t *testing.T) {
	plan := json.RawMessage(`{"treino":[{"exercicio":"Supino Reto"}]}`)

	tests := []struct {
		name           string
		target         string
		callsService   bool
		mockErr        error
		wantStatusCode int
		wantBody       string
	}{
		{
			name:           "relays plan",
			target:         "/monta_treino?cpf=111&grupo=peito",
			callsService:   true,
			wantStatusCode: http.StatusOK,
			wantBody:       string(plan),
		},
		{name: "missing group", target: "/monta_treino?cpf=111", wantStatusCode: http.StatusBadRequest},
		{name: "unknown group", target: "/monta_treino?cpf=111&grupo=pescoco", wantStatusCode: http.StatusBadRequest},
		{name: "missing cpf", target: "/monta_treino?grupo=peito", wantStatusCode: http.StatusBadRequest},
		{
			name:           "unknown student",
			target:         "/monta_treino?cpf=111&grupo=peito",
			callsService:   true,
			mockErr:        apperr.NotFound("no student registered with this taxpayer id"),
			wantStatusCode: http.StatusNotFound,
		},
		{
			name:           "upstream down",
			target:         "/monta_treino?cpf=111&grupo=peito",
			callsService:   true,
			mockErr:        apperr.Dependency("workout service unavailable", errors.New("connection refused")),
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.callsService {
				svc.On("FetchPlan", mock.Anything, int64(111), "peito").Return(plan, tt.mockErr).Once()
			}

			rr := httptest.NewRecorder()
			FetchPlan(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestListWorkouts(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListWorkouts", mock.Anything).Return(json.RawMessage(`[{"id":1}]`), nil).Once()

	rr := httptest.NewRecorder()
	ListWorkouts(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/listatreinos", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1}]`, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestDeleteWorkout_RelaysPayloadAsJSON(t *testing.T) {
	payload := json.RawMessage(`{"grupo_muscular":"peito","exercicios":["Supino Reto","Crucifixo"],"series":4}`)
	svc := new(ServiceMock)
	svc.On("DeleteWorkout", mock.Anything, "7").Return(payload, nil).Once()

	rr := httptest.NewRecorder()
	DeleteWorkout(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/deleta_treino?id=7", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, string(payload), rr.Body.String())
}

func TestAddExercise(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("AddExercise", mock.Anything, "peito", "Supino Reto").Return(json.RawMessage(`{"ok":true}`), nil).Once()

		body := bytes.NewBufferString(`{"grupo":"peito","exercicio":"Supino Reto"}`)
		rr := httptest.NewRecorder()
		AddExercise(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/add_treino", body))

		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing exercise", func(t *testing.T) {
		svc := new(ServiceMock)

		body := bytes.NewBufferString(`{"grupo":"peito"}`)
		rr := httptest.NewRecorder()
		AddExercise(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/add_treino", body))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"message":"field exercicio is required"}`, rr.Body.String())
		svc.AssertNotCalled(t, "AddExercise", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteWorkout(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("DeleteWorkout", mock.Anything, "42").Return(json.RawMessage(`{"deleted":42}`), nil).Once()

		rr := httptest.NewRecorder()
		DeleteWorkout(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/deleta_treino?id=42", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"deleted":42}`, rr.Body.String())
	})

	t.Run("missing id", func(t *testing.T) {
		svc := new(ServiceMock)

		rr := httptest.NewRecorder()
		DeleteWorkout(newNoopLogger(), svc).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/deleta_treino", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "DeleteWorkout", mock.Anything, mock.Anything)
	})
}
