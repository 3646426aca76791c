// Package workout contains the handlers that relay workout requests to the
// external workout service. Successful upstream payloads are passed through
// untouched.
package workout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/gym-api/internal/types"
	"github.com/aanand-mishra/gym-api/internal/utils/request"
	"github.com/aanand-mishra/gym-api/internal/utils/response"
)

// Service is the workout service as seen by the handlers.
type Service interface {
	FetchPlan(ctx context.Context, taxpayerID int64, group string) (json.RawMessage, error)
	ListWorkouts(ctx context.Context) (json.RawMessage, error)
	AddExercise(ctx context.Context, group, exercise string) (json.RawMessage, error)
	DeleteWorkout(ctx context.Context, id string) (json.RawMessage, error)
}

// FetchPlan handles GET /monta_treino?cpf=&grupo=
func FetchPlan(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.workout.FetchPlan")

		cpf, ok := request.TaxpayerID(w, r, "cpf")
		if !ok {
			return
		}
		group, ok := request.Query(w, r, "grupo")
		if !ok {
			return
		}

		q := types.WorkoutPlanQuery{TaxpayerID: cpf, Group: group}
		if !request.Validate(w, r, q) {
			return
		}

		plan, err := svc.FetchPlan(r.Context(), q.TaxpayerID, q.Group)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, plan)
	}
}

// ListWorkouts handles GET /listatreinos
func ListWorkouts(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.workout.ListWorkouts")

		workouts, err := svc.ListWorkouts(r.Context())
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, workouts)
	}
}

// AddExercise handles POST /add_treino
//
// Request body:
//
//	{ "grupo": "peito", "exercicio": "Supino Reto" }
func AddExercise(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.workout.AddExercise")

		var req types.AddExerciseRequest
		if !request.DecodeJSON(w, r, &req) {
			return
		}

		created, err := svc.AddExercise(r.Context(), req.Group, req.Exercise)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		log.Info("exercise added", slog.String("group", req.Group))
		response.WriteJSON(w, r, http.StatusOK, created)
	}
}

// DeleteWorkout handles DELETE /deleta_treino?id=
func DeleteWorkout(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.workout.DeleteWorkout")

		id, ok := request.Query(w, r, "id")
		if !ok {
			return
		}

		deleted, err := svc.DeleteWorkout(r.Context(), id)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, deleted)
	}
}
