// Package student contains all HTTP handlers related to the student resource.
//
// HANDLER PATTERN USED HERE: CLOSURE / FACTORY
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once, at route
// registration, and returns the http.HandlerFunc the router calls on every
// request:
//
//	r.Post("/add_aluno", student.New(log, students))
//
// Handlers only decode, validate shapes and render. Business rules and the
// mapping of failures to error kinds live in the student service.
package student

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/gym-api/internal/services/student"
	"github.com/aanand-mishra/gym-api/internal/types"
	"github.com/aanand-mishra/gym-api/internal/utils/request"
	"github.com/aanand-mishra/gym-api/internal/utils/response"
)

// Service is the student service as seen by the handlers.
type Service interface {
	Register(ctx context.Context, in student.RegisterInput) (types.Student, error)
	ListAll(ctx context.Context) ([]types.Student, error)
	GetByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error)
	Delete(ctx context.Context, taxpayerID int64) (types.Student, error)
	Update(ctx context.Context, in student.UpdateInput) (types.Student, error)
	RenewPlan(ctx context.Context, taxpayerID int64, months int) (types.Student, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /add_aluno
//
// Request body:
//
//	{ "cpf": 12345678900, "nome": "Neil Peart", "nivel": "intermediate", "telefone": "79 999999999" }
//
// Responses: 201 with the created student, 400 malformed body, 409 duplicate
// cpf, 422 invalid field values.
// ─────────────────────────────────────────────────────────────────────────────
func New(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.student.New")

		var req types.StudentRequest
		if !request.DecodeJSON(w, r, &req) {
			return
		}

		created, err := svc.Register(r.Context(), student.RegisterInput{
			TaxpayerID: req.TaxpayerID,
			Name:       req.Name,
			Level:      req.Level,
			Phone:      req.Phone,
		})
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		log.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, r, http.StatusCreated, created)
	}
}

// GetList handles GET /get_alunos. With no students registered it answers
// 404 rather than an empty list.
func GetList(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.student.GetList")

		students, err := svc.ListAll(r.Context())
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, types.StudentList{Students: students})
	}
}

// GetByTaxpayerID handles GET /get_aluno?cpf=
func GetByTaxpayerID(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.student.GetByTaxpayerID")

		cpf, ok := request.TaxpayerID(w, r, "cpf")
		if !ok {
			return
		}

		found, err := svc.GetByTaxpayerID(r.Context(), cpf)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, found)
	}
}

// Delete handles DELETE /del_aluno?cpf=
//
// Success response (200 OK):
//
//	{ "message": "student removed", "nome": "Neil Peart", "cpf": 12345678900 }
func Delete(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.student.Delete")

		cpf, ok := request.TaxpayerID(w, r, "cpf")
		if !ok {
			return
		}

		deleted, err := svc.Delete(r.Context(), cpf)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, types.DeletedStudent{
			Message:    "student removed",
			Name:       deleted.Name,
			TaxpayerID: deleted.TaxpayerID,
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /update_aluno
//
// The body has the same shape as New. The cpf in the body selects the
// student and is never rewritten; an optional ?cpf= must name the same
// student or the request is rejected with 422.
// ─────────────────────────────────────────────────────────────────────────────
func Update(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.student.Update")

		key, ok := request.OptionalTaxpayerID(w, r, "cpf")
		if !ok {
			return
		}

		var req types.StudentRequest
		if !request.DecodeJSON(w, r, &req) {
			return
		}

		updated, err := svc.Update(r.Context(), student.UpdateInput{
			Key:        key,
			TaxpayerID: req.TaxpayerID,
			Name:       req.Name,
			Level:      req.Level,
			Phone:      req.Phone,
		})
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, updated)
	}
}

// RenewPlan handles PUT /contrata_plano
//
// Request body:
//
//	{ "cpf": 12345678900, "qtd_meses": 3 }
func RenewPlan(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := request.Logger(log, r, "handlers.student.RenewPlan")

		var req types.RenewPlanRequest
		if !request.DecodeJSON(w, r, &req) {
			return
		}

		updated, err := svc.RenewPlan(r.Context(), req.TaxpayerID, req.Months)
		if err != nil {
			response.Error(w, r, log, err)
			return
		}

		response.WriteJSON(w, r, http.StatusOK, updated)
	}
}
