// Package workout relays workout requests to the external workout service.
package workout

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/gym-api/internal/apperr"
	"github.com/aanand-mishra/gym-api/internal/lib/sl"
	"github.com/aanand-mishra/gym-api/internal/types"
)

// Client is the external workout service.
type Client interface {
	FetchPlan(ctx context.Context, level types.Level, group string) (json.RawMessage, error)
	ListWorkouts(ctx context.Context) (json.RawMessage, error)
	AddExercise(ctx context.Context, ex types.Exercise) (json.RawMessage, error)
	DeleteWorkout(ctx context.Context, id string) (json.RawMessage, error)
}

// StudentFinder resolves a student's level for FetchPlan.
type StudentFinder interface {
	GetByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error)
}

// Service relays workout operations, resolving the student's level first
// where the workout service needs it.
type Service struct {
	students StudentFinder
	client   Client
	log      *slog.Logger
}

// New creates a Service.
func New(students StudentFinder, client Client, log *slog.Logger) *Service {
	return &Service{students: students, client: client, log: log}
}

// FetchPlan asks the workout service for a plan matching the student's
// level and the requested muscle group.
func (s *Service) FetchPlan(ctx context.Context, taxpayerID int64, group string) (json.RawMessage, error) {
	student, err := s.students.GetByTaxpayerID(ctx, taxpayerID)
	if err != nil {
		return nil, err
	}

	plan, err := s.client.FetchPlan(ctx, student.Level, group)
	if err != nil {
		s.log.Warn("workout plan request failed",
			slog.Int64("cpf", taxpayerID), slog.String("group", group), sl.Err(err))
		return nil, err
	}
	return plan, nil
}

// ListWorkouts returns every workout known to the workout service.
func (s *Service) ListWorkouts(ctx context.Context) (json.RawMessage, error) {
	return s.client.ListWorkouts(ctx)
}

// AddExercise registers an exercise for a muscle group.
func (s *Service) AddExercise(ctx context.Context, group, exercise string) (json.RawMessage, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil, apperr.Validation("exercicio is required")
	}
	return s.client.AddExercise(ctx, types.Exercise{MuscleGroup: group, Name: exercise})
}

// DeleteWorkout removes the workout with the given id.
func (s *Service) DeleteWorkout(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("id is required")
	}
	return s.client.DeleteWorkout(ctx, id)
}
