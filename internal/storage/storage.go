// Package storage defines the Storage interface, the contract that any
// database backend must satisfy to work with this application.
//
// Services depend only on this interface, so tests can pass an in-memory
// fake and the SQLite backend can be swapped without touching them.
//
// Implementations report the failures below with errors.Is-compatible
// wrapping; everything else is an infrastructure error.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aanand-mishra/gym-api/internal/types"
)

var (
	// ErrStudentExists: a student with the same taxpayer id is already stored.
	ErrStudentExists = errors.New("student already exists")
	// ErrStudentNotFound: no student matches the taxpayer id.
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentAmbiguous: more than one row matched a taxpayer id. The
	// unique index makes this unreachable, but readers still check for it.
	ErrStudentAmbiguous = errors.New("more than one student with the same taxpayer id")
)

// Storage is the database contract.
type Storage interface {
	// CreateStudent inserts a new student and returns it with the ID the
	// store assigned.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// GetStudentByTaxpayerID fetches one student by natural key.
	GetStudentByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error)

	// GetStudents returns every student. Returns an empty slice (not nil)
	// if there are none.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudent overwrites name, level and phone of the student matched
	// by student.TaxpayerID and returns the stored record.
	UpdateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// RenewPlan reads the student's plan validity, passes it to next and
	// stores the result, all in one transaction, so concurrent renewals of
	// the same student are applied one after the other. An error from next
	// aborts the renewal and is returned wrapped.
	RenewPlan(ctx context.Context, taxpayerID int64, next func(current time.Time) (time.Time, error)) (types.Student, error)

	// DeleteStudentByTaxpayerID removes a student and returns what was removed.
	DeleteStudentByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error)

	// Ping checks the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection pool.
	Close() error
}
