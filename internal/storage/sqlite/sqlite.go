// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// CONNECTION DISCIPLINE
// ─────────────────────
// Every method checks a dedicated *sql.Conn out of the pool and returns it
// with defer, so the connection is released on every exit path: success,
// an expected failure such as "not found", or an unexpected driver error.
//
// The schema is owned by the versioned migrations embedded below and applied
// by golang-migrate when the store is opened.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/gym-api/internal/config"
	"github.com/aanand-mishra/gym-api/internal/storage"
	"github.com/aanand-mishra/gym-api/internal/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const studentColumns = "id, taxpayer_id, name, level, phone, plan_validity"

// SQLite is the concrete implementation of storage.Storage.
// A single *sql.DB is a connection pool and is safe for concurrent use.
type SQLite struct {
	db *sql.DB
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at cfg.StoragePath, creating the parent
// directory if needed, and brings the schema up to date.
func New(cfg *config.Config) (*SQLite, error) {
	const op = "sqlite.New"

	if dir := filepath.Dir(cfg.StoragePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: create storage dir: %w", op, err)
		}
	}

	// _busy_timeout makes concurrent writers wait for the file lock instead
	// of failing immediately with SQLITE_BUSY. _txlock=immediate takes the
	// write lock at BEGIN, so read-then-write transactions never race.
	db, err := sql.Open("sqlite3", cfg.StoragePath+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("%s: open db: %w", op, err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SQLite{db: db}, nil
}

// migrateUp applies pending migrations. The migrate instance is not closed:
// closing it would close db, which the store keeps using.
func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// withConn runs fn on a connection that is returned to the pool when fn
// returns, whatever the outcome.
func (s *SQLite) withConn(ctx context.Context, op string, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%s: acquire connection: %w", op, err)
	}
	defer conn.Close()

	return fn(conn)
}

// CreateStudent inserts a new row and returns the stored student.
// A duplicate taxpayer id is reported as storage.ErrStudentExists.
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	const op = "sqlite.CreateStudent"

	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		stmt, err := conn.PrepareContext(ctx,
			"INSERT INTO students (taxpayer_id, name, level, phone, plan_validity) VALUES (?, ?, ?, ?, ?)",
		)
		if err != nil {
			return fmt.Errorf("%s: prepare: %w", op, err)
		}
		defer stmt.Close()

		result, err := stmt.ExecContext(ctx,
			student.TaxpayerID,
			student.Name,
			string(student.Level),
			nullString(student.Phone),
			student.PlanValidity.UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: taxpayer id %d: %w", op, student.TaxpayerID, storage.ErrStudentExists)
			}
			return fmt.Errorf("%s: exec: %w", op, err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("%s: last insert id: %w", op, err)
		}
		student.ID = id
		return nil
	})
	if err != nil {
		return types.Student{}, err
	}

	student.PlanValidity = student.PlanValidity.UTC()
	return student, nil
}

// GetStudentByTaxpayerID fetches the student with the given natural key.
//
// The query asks for up to two rows so that a broken uniqueness guarantee
// surfaces as storage.ErrStudentAmbiguous instead of silently picking one.
func (s *SQLite) GetStudentByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error) {
	const op = "sqlite.GetStudentByTaxpayerID"

	var student types.Student
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		var err error
		student, err = getByTaxpayerID(ctx, conn, op, taxpayerID)
		return err
	})
	return student, err
}

// queryer is satisfied by *sql.Conn and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func getByTaxpayerID(ctx context.Context, q queryer, op string, taxpayerID int64) (types.Student, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students WHERE taxpayer_id = ? LIMIT 2",
		taxpayerID,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	var found []types.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return types.Student{}, fmt.Errorf("%s: scan: %w", op, err)
		}
		found = append(found, student)
	}
	if err := rows.Err(); err != nil {
		return types.Student{}, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	switch len(found) {
	case 0:
		return types.Student{}, fmt.Errorf("%s: taxpayer id %d: %w", op, taxpayerID, storage.ErrStudentNotFound)
	case 1:
		return found[0], nil
	default:
		return types.Student{}, fmt.Errorf("%s: taxpayer id %d: %w", op, taxpayerID, storage.ErrStudentAmbiguous)
	}
}

// GetStudents returns all student rows ordered by registration id.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	const op = "sqlite.GetStudents"

	students := make([]types.Student, 0)
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, "SELECT "+studentColumns+" FROM students ORDER BY id")
		if err != nil {
			return fmt.Errorf("%s: query: %w", op, err)
		}
		defer rows.Close()

		for rows.Next() {
			student, err := scanStudent(rows)
			if err != nil {
				return fmt.Errorf("%s: scan row: %w", op, err)
			}
			students = append(students, student)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%s: rows iteration: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return students, nil
}

// UpdateStudent overwrites name, level and phone. The taxpayer id is the
// lookup key and is never written.
func (s *SQLite) UpdateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	const op = "sqlite.UpdateStudent"

	return s.updateAndReload(ctx, op, student.TaxpayerID,
		"UPDATE students SET name = ?, level = ?, phone = ? WHERE taxpayer_id = ?",
		student.Name, string(student.Level), nullString(student.Phone), student.TaxpayerID,
	)
}

// RenewPlan computes and stores a new plan validity inside a transaction.
// Transactions start with BEGIN IMMEDIATE (see New), so a second renewal of
// the same student waits for the first to commit and then reads its result.
func (s *SQLite) RenewPlan(ctx context.Context, taxpayerID int64, next func(current time.Time) (time.Time, error)) (types.Student, error) {
	const op = "sqlite.RenewPlan"

	var student types.Student
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%s: begin: %w", op, err)
		}
		defer func() { _ = tx.Rollback() }()

		current, err := getByTaxpayerID(ctx, tx, op, taxpayerID)
		if err != nil {
			return err
		}

		validity, err := next(current.PlanValidity)
		if err != nil {
			return fmt.Errorf("%s: taxpayer id %d: %w", op, taxpayerID, err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE students SET plan_validity = ? WHERE taxpayer_id = ?",
			validity.UTC(), taxpayerID,
		); err != nil {
			return fmt.Errorf("%s: exec: %w", op, err)
		}

		student, err = getByTaxpayerID(ctx, tx, op, taxpayerID)
		if err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%s: commit: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return types.Student{}, err
	}
	return student, nil
}

// updateAndReload runs a single-row UPDATE and re-reads the row on the same
// connection so the caller gets exactly what is stored.
func (s *SQLite) updateAndReload(ctx context.Context, op string, taxpayerID int64, query string, args ...any) (types.Student, error) {
	var student types.Student
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%s: exec: %w", op, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s: rows affected: %w", op, err)
		}
		if n == 0 {
			return fmt.Errorf("%s: taxpayer id %d: %w", op, taxpayerID, storage.ErrStudentNotFound)
		}

		student, err = getByTaxpayerID(ctx, conn, op, taxpayerID)
		return err
	})
	return student, err
}

// DeleteStudentByTaxpayerID removes a student inside a transaction so the
// returned record is exactly the row that was deleted.
func (s *SQLite) DeleteStudentByTaxpayerID(ctx context.Context, taxpayerID int64) (types.Student, error) {
	const op = "sqlite.DeleteStudentByTaxpayerID"

	var student types.Student
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%s: begin: %w", op, err)
		}
		// Rollback after Commit is a no-op.
		defer func() { _ = tx.Rollback() }()

		student, err = getByTaxpayerID(ctx, tx, op, taxpayerID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM students WHERE taxpayer_id = ?", taxpayerID); err != nil {
			return fmt.Errorf("%s: exec: %w", op, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%s: commit: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return types.Student{}, err
	}
	return student, nil
}

// Ping checks that the database file is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the pool. Connections checked out by in-flight requests are
// closed as they are returned.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func scanStudent(rows *sql.Rows) (types.Student, error) {
	var (
		student types.Student
		level   string
		phone   sql.NullString
	)

	if err := rows.Scan(
		&student.ID,
		&student.TaxpayerID,
		&student.Name,
		&level,
		&phone,
		&student.PlanValidity,
	); err != nil {
		return types.Student{}, err
	}

	student.Level = types.Level(level)
	if phone.Valid {
		student.Phone = &phone.String
	}
	student.PlanValidity = student.PlanValidity.UTC()
	return student, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
