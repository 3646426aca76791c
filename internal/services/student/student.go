// Package student implements the student lifecycle: registration, lookup,
// update, removal and plan renewal.
//
// Storage errors are translated into apperr kinds here, so handlers never
// look at storage sentinels.
package student

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aanand-mishra/gym-api/internal/apperr"
	"github.com/aanand-mishra/gym-api/internal/lib/plan"
	"github.com/aanand-mishra/gym-api/internal/storage"
	"github.com/aanand-mishra/gym-api/internal/types"
)

// Repository is the part of storage.Storage the service needs.
type Repository interface {
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)
	GetStudentByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error)
	GetStudents(ctx context.Context) ([]types.Student, error)
	UpdateStudent(ctx context.Context, student types.Student) (types.Student, error)
	RenewPlan(ctx context.Context, taxpayerID int64, next func(current time.Time) (time.Time, error)) (types.Student, error)
	DeleteStudentByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error)
}

// Service implements the student operations.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service.
func New(repo Repository, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput holds the fields of a new student.
type RegisterInput struct {
	TaxpayerID int64
	Name       string
	Level      string
	Phone      *string
}

// Register creates a student whose plan validity starts now.
func (s *Service) Register(ctx context.Context, in RegisterInput) (types.Student, error) {
	level, err := checkFields(in.TaxpayerID, in.Name, in.Level)
	if err != nil {
		return types.Student{}, err
	}

	created, err := s.repo.CreateStudent(ctx, types.Student{
		TaxpayerID:   in.TaxpayerID,
		Name:         strings.TrimSpace(in.Name),
		Level:        level,
		Phone:        in.Phone,
		PlanValidity: s.now(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrStudentExists) {
			return types.Student{}, apperr.Wrap(apperr.KindConflict, "taxpayer id already registered", err)
		}
		return types.Student{}, apperr.Wrap(apperr.KindInternal, "could not register student", err)
	}

	s.log.Info("student registered", slog.Int64("id", created.ID), slog.Int64("cpf", created.TaxpayerID))
	return created, nil
}

// ListAll returns every student. An empty store is reported as NotFound.
func (s *Service) ListAll(ctx context.Context) ([]types.Student, error) {
	students, err := s.repo.GetStudents(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "could not list students", err)
	}
	if len(students) == 0 {
		return nil, apperr.NotFound("no students registered")
	}
	return students, nil
}

// GetByTaxpayerID returns one student.
func (s *Service) GetByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error) {
	student, err := s.repo.GetStudentByTaxpayerID(ctx, taxpayerID)
	if err != nil {
		return types.Student{}, lookupError(err)
	}
	return student, nil
}

// Delete removes a student and returns the removed record.
func (s *Service) Delete(ctx context.Context, taxpayerID int64) (types.Student, error) {
	deleted, err := s.repo.DeleteStudentByTaxpayerID(ctx, taxpayerID)
	if err != nil {
		return types.Student{}, lookupError(err)
	}

	s.log.Info("student deleted", slog.Int64("cpf", taxpayerID))
	return deleted, nil
}

// UpdateInput holds the fields an update may change.
//
// Key is the identity the caller addressed; TaxpayerID is the value sent in
// the payload. Taxpayer ids are immutable, so when both are set they must
// match. A zero Key means the payload value is the identity.
type UpdateInput struct {
	Key        int64
	TaxpayerID int64
	Name       string
	Level      string
	Phone      *string
}

// Update overwrites name, level and phone of an existing student.
func (s *Service) Update(ctx context.Context, in UpdateInput) (types.Student, error) {
	if in.Key != 0 && in.TaxpayerID != 0 && in.Key != in.TaxpayerID {
		return types.Student{}, apperr.Validation(
			fmt.Sprintf("taxpayer id cannot be changed: addressed %d, payload has %d", in.Key, in.TaxpayerID))
	}
	key := in.TaxpayerID
	if key == 0 {
		key = in.Key
	}

	level, err := checkFields(key, in.Name, in.Level)
	if err != nil {
		return types.Student{}, err
	}

	updated, err := s.repo.UpdateStudent(ctx, types.Student{
		TaxpayerID: key,
		Name:       strings.TrimSpace(in.Name),
		Level:      level,
		Phone:      in.Phone,
	})
	if err != nil {
		return types.Student{}, lookupError(err)
	}

	s.log.Info("student updated", slog.Int64("cpf", key))
	return updated, nil
}

// RenewPlan adds months to a student's plan. See plan.NewValidity for how
// expired and active plans differ. The store applies the read and the write
// atomically, so concurrent renewals all count.
func (s *Service) RenewPlan(ctx context.Context, taxpayerID int64, months int) (types.Student, error) {
	if months <= 0 || months > plan.MaxMonths {
		return types.Student{}, apperr.Wrap(apperr.KindValidation,
			fmt.Sprintf("qtd_meses must be between 1 and %d", plan.MaxMonths), plan.ErrInvalidMonths)
	}

	updated, err := s.repo.RenewPlan(ctx, taxpayerID, func(current time.Time) (time.Time, error) {
		return plan.NewValidity(current, months, s.now())
	})
	if err != nil {
		if errors.Is(err, plan.ErrInvalidMonths) {
			return types.Student{}, apperr.Wrap(apperr.KindValidation,
				fmt.Sprintf("qtd_meses must be between 1 and %d", plan.MaxMonths), err)
		}
		return types.Student{}, lookupError(err)
	}

	s.log.Info("plan renewed",
		slog.Int64("cpf", taxpayerID),
		slog.Int("months", months),
		slog.Time("validity", updated.PlanValidity),
	)
	return updated, nil
}

func checkFields(taxpayerID int64, name, rawLevel string) (types.Level, error) {
	if taxpayerID <= 0 {
		return "", apperr.Validation("cpf must be a positive integer")
	}
	if strings.TrimSpace(name) == "" {
		return "", apperr.Validation("nome is required")
	}
	level, err := types.ParseLevel(rawLevel)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "nivel must be one of beginner, intermediate, advanced", err)
	}
	return level, nil
}

// lookupError maps the storage errors of a by-taxpayer-id operation.
func lookupError(err error) error {
	switch {
	case errors.Is(err, storage.ErrStudentNotFound):
		return apperr.Wrap(apperr.KindNotFound, "no student registered with this taxpayer id", err)
	case errors.Is(err, storage.ErrStudentAmbiguous):
		return apperr.Wrap(apperr.KindConflict, "more than one student registered with this taxpayer id", err)
	default:
		return apperr.Wrap(apperr.KindInternal, "student storage failure", err)
	}
}
