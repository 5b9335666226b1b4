package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// roleTable maps each role to the table and id column that back it.
var roleTable = map[UserType]struct {
	table string
	idCol string
}{
	UserTypeStudent: {table: "students", idCol: "student_id"},
	UserTypeTeacher: {table: "teachers", idCol: "teacher_id"},
	UserTypeAdmin:   {table: "admins", idCol: "admin_id"},
	UserTypeParent:  {table: "parents", idCol: "parent_id"},
}

// DB implements Directory against the platform's relational user tables.
type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

// NewDB creates a Directory backed by postgres.
func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("directory.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	return err
}

func (s *DB) Resolve(ctx context.Context, userType UserType, userID int64) (_ *UserRef, err error) {
	ctx, span := s.startSpan(ctx, "Resolve")
	defer func() { s.endSpan(span, err) }()

	rt, ok := roleTable[userType]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	// rt.table/rt.idCol come from the closed roleTable map, never from input.
	query := fmt.Sprintf(`
		SELECT %s, email, COALESCE(first_name || ' ' || last_name, email), COALESCE(phone, '')
		FROM %s
		WHERE %s = $1`, rt.idCol, rt.table, rt.idCol)

	ref := UserRef{Type: userType}
	err = s.conn.QueryRow(ctx, query, userID).Scan(&ref.ID, &ref.Email, &ref.Name, &ref.Phone)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &ref, nil
}

func (s *DB) ResolveByEmail(ctx context.Context, userType UserType, email string) (_ *UserRef, err error) {
	ctx, span := s.startSpan(ctx, "ResolveByEmail")
	defer func() { s.endSpan(span, err) }()

	rt, ok := roleTable[userType]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	query := fmt.Sprintf(`
		SELECT %s, email, COALESCE(first_name || ' ' || last_name, email), COALESCE(phone, '')
		FROM %s
		WHERE lower(email) = lower($1)`, rt.idCol, rt.table)

	ref := UserRef{Type: userType}
	err = s.conn.QueryRow(ctx, query, email).Scan(&ref.ID, &ref.Email, &ref.Name, &ref.Phone)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &ref, nil
}

func (s *DB) FindByEmail(ctx context.Context, email string) (_ *UserRef, err error) {
	ctx, span := s.startSpan(ctx, "FindByEmail")
	defer func() { s.endSpan(span, err) }()

	// roles are probed in a fixed order so a shared address resolves stably
	for _, userType := range []UserType{UserTypeStudent, UserTypeTeacher, UserTypeAdmin, UserTypeParent} {
		ref, err := s.ResolveByEmail(ctx, userType, email)
		if errors.Is(err, goerror.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return ref, nil
	}

	return nil, goerror.ErrNotFound
}

func (s *DB) ListCourseStudents(ctx context.Context, courseID int64) (_ []UserRef, err error) {
	ctx, span := s.startSpan(ctx, "ListCourseStudents")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT s.student_id, s.email, COALESCE(s.first_name || ' ' || s.last_name, s.email), COALESCE(s.phone, '')
		FROM enrollments e
		JOIN students s ON s.student_id = e.student_id
		WHERE e.course_id = $1 AND e.status = 'active'`, courseID)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	return s.collect(rows, UserTypeStudent)
}

func (s *DB) ListActive(ctx context.Context, userType UserType) (_ []UserRef, err error) {
	ctx, span := s.startSpan(ctx, "ListActive")
	defer func() { s.endSpan(span, err) }()

	rt, ok := roleTable[userType]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	query := fmt.Sprintf(`
		SELECT %s, email, COALESCE(first_name || ' ' || last_name, email), COALESCE(phone, '')
		FROM %s
		WHERE is_active = true`, rt.idCol, rt.table)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	return s.collect(rows, userType)
}

func (s *DB) collect(rows pgx.Rows, userType UserType) ([]UserRef, error) {
	refs := make([]UserRef, 0, 16)
	for rows.Next() {
		ref := UserRef{Type: userType}
		if err := rows.Scan(&ref.ID, &ref.Email, &ref.Name, &ref.Phone); err != nil {
			return nil, s.mapError(err)
		}
		refs = append(refs, ref)
	}

	return refs, s.mapError(rows.Err())
}
