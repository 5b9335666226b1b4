package db

import (
	"context"
	"time"

	"github.com/collegeprep/notifier/internal/mailer/entity"
)

// CreateReport always inserts a fresh pending row, even when the same period
// was generated before; re-runs are kept visible in the history.
func (s *DB) CreateReport(ctx context.Context, r entity.MonthlyReport) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CreateReport")
	defer func() { s.endSpan(span, err) }()

	var id int64
	err = s.conn.QueryRow(ctx, `
		INSERT INTO monthly_reports (user_id, user_type, recipient_email, report_type, period_year, period_month, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING report_id`,
		r.UserID, r.UserType, r.RecipientEmail, r.ReportType.String(), r.PeriodYear, r.PeriodMonth,
	).Scan(&id)
	if err != nil {
		return 0, s.mapError(err)
	}

	return id, nil
}

// MarkReportGenerated records the computed stats and the archive location;
// the row stays short of sent until email delivery succeeds.
func (s *DB) MarkReportGenerated(ctx context.Context, reportID int64, storageKey string, stats entity.ReportStats) (err error) {
	ctx, span := s.startSpan(ctx, "MarkReportGenerated")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE monthly_reports
		SET status = 'generated', storage_key = $2, generated_at = now(),
			total_classes = $3, classes_attended = $4, attendance_percentage = $5,
			assignments_completed = $6, average_grade = $7, outstanding_assignments = $8,
			students_count = $9, assignments_graded = $10, pending_assignments = $11,
			total_students = $12, total_teachers = $13, total_courses = $14,
			total_enrollments = $15, total_revenue = $16
		WHERE report_id = $1 AND status = 'pending'`,
		reportID, storageKey,
		stats.TotalClasses, stats.ClassesAttended, stats.AttendancePercentage,
		stats.AssignmentsCompleted, stats.AverageGrade, stats.OutstandingAssignments,
		stats.StudentsCount, stats.AssignmentsGraded, stats.PendingAssignments,
		stats.TotalStudents, stats.TotalTeachers, stats.TotalCourses,
		stats.TotalEnrollments, stats.TotalRevenue)

	return s.mapError(err)
}

// MarkReportSent is the terminal transition for a delivered report.
func (s *DB) MarkReportSent(ctx context.Context, reportID int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkReportSent")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE monthly_reports
		SET status = 'sent', sent_at = now()
		WHERE report_id = $1 AND status = 'generated'`, reportID)

	return s.mapError(err)
}

// FailReport is the terminal transition for any failure, whether the stats,
// the archive write or the report email broke.
func (s *DB) FailReport(ctx context.Context, reportID int64, errorMessage string) (err error) {
	ctx, span := s.startSpan(ctx, "FailReport")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		UPDATE monthly_reports
		SET status = 'failed', error_message = $2
		WHERE report_id = $1 AND status IN ('pending', 'generated')`, reportID, errorMessage)

	return s.mapError(err)
}

// StudentMonthlyStats gathers the per-student figures for one period.
func (s *DB) StudentMonthlyStats(ctx context.Context, studentID int64, from, to time.Time) (_ *entity.StudentMonthlyStats, err error) {
	ctx, span := s.startSpan(ctx, "StudentMonthlyStats")
	defer func() { s.endSpan(span, err) }()

	stats := &entity.StudentMonthlyStats{}
	err = s.conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(DISTINCT course_id) FROM attendance
				WHERE student_id = $1 AND date >= $2 AND date < $3),
			(SELECT COUNT(*) FROM attendance
				WHERE student_id = $1 AND status = 'present' AND date >= $2 AND date < $3),
			(SELECT COUNT(*) FROM submissions
				WHERE student_id = $1 AND graded_at >= $2 AND graded_at < $3),
			(SELECT COALESCE(AVG(grade), 0) FROM submissions
				WHERE student_id = $1 AND graded_at >= $2 AND graded_at < $3),
			(SELECT COUNT(*) FROM assignments a
				JOIN enrollments e ON e.course_id = a.course_id
				WHERE e.student_id = $1 AND e.status = 'active'
					AND a.due_date >= $3
					AND NOT EXISTS (
						SELECT 1 FROM submissions sub
						WHERE sub.assignment_id = a.assignment_id AND sub.student_id = $1))`,
		studentID, from, to,
	).Scan(&stats.TotalClasses, &stats.ClassesAttended, &stats.AssignmentsCompleted,
		&stats.AverageGrade, &stats.OutstandingAssignments)
	if err != nil {
		return nil, s.mapError(err)
	}

	// grades and attendance aggregate in separate laterals so neither side
	// weights the other's average
	rows, err := s.conn.Query(ctx, `
		SELECT c.course_id, c.name,
			COALESCE(g.avg_grade, 0),
			COALESCE(a.attendance_rate, 0)
		FROM enrollments e
		JOIN courses c ON c.course_id = e.course_id
		LEFT JOIN LATERAL (
			SELECT AVG(sub.grade) AS avg_grade
			FROM submissions sub
			JOIN assignments asg ON asg.assignment_id = sub.assignment_id
			WHERE sub.student_id = e.student_id AND asg.course_id = c.course_id
				AND sub.graded_at >= $2 AND sub.graded_at < $3
		) g ON TRUE
		LEFT JOIN LATERAL (
			SELECT 100.0 * COUNT(*) FILTER (WHERE att.status = 'present') / NULLIF(COUNT(*), 0) AS attendance_rate
			FROM attendance att
			WHERE att.student_id = e.student_id AND att.course_id = c.course_id
				AND att.date >= $2 AND att.date < $3
		) a ON TRUE
		WHERE e.student_id = $1 AND e.status = 'active'
		ORDER BY c.name`,
		studentID, from, to)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs entity.CourseStats
		if scanErr := rows.Scan(&cs.CourseID, &cs.CourseName, &cs.AverageGrade, &cs.AttendanceRate); scanErr != nil {
			return nil, s.mapError(scanErr)
		}
		stats.Courses = append(stats.Courses, cs)
	}

	return stats, s.mapError(rows.Err())
}

// TeacherMonthlyStats gathers the per-teacher figures for one period.
func (s *DB) TeacherMonthlyStats(ctx context.Context, teacherID int64, from, to time.Time) (_ *entity.TeacherMonthlyStats, err error) {
	ctx, span := s.startSpan(ctx, "TeacherMonthlyStats")
	defer func() { s.endSpan(span, err) }()

	stats := &entity.TeacherMonthlyStats{}
	err = s.conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM courses WHERE teacher_id = $1 AND is_active = TRUE),
			(SELECT COUNT(DISTINCT e.student_id) FROM enrollments e
				JOIN courses c ON c.course_id = e.course_id
				WHERE c.teacher_id = $1 AND e.status = 'active'),
			(SELECT COUNT(*) FROM assignments a
				JOIN courses c ON c.course_id = a.course_id
				WHERE c.teacher_id = $1 AND a.created_at >= $2 AND a.created_at < $3),
			(SELECT COUNT(*) FROM submissions sub
				JOIN assignments a ON a.assignment_id = sub.assignment_id
				JOIN courses c ON c.course_id = a.course_id
				WHERE c.teacher_id = $1 AND sub.graded_at >= $2 AND sub.graded_at < $3),
			(SELECT COUNT(*) FROM submissions sub
				JOIN assignments a ON a.assignment_id = sub.assignment_id
				JOIN courses c ON c.course_id = a.course_id
				WHERE c.teacher_id = $1 AND sub.graded_at IS NULL),
			(SELECT COALESCE(AVG(sub.grade), 0) FROM submissions sub
				JOIN assignments a ON a.assignment_id = sub.assignment_id
				JOIN courses c ON c.course_id = a.course_id
				WHERE c.teacher_id = $1 AND sub.graded_at >= $2 AND sub.graded_at < $3)`,
		teacherID, from, to,
	).Scan(&stats.CoursesTaught, &stats.StudentsCount, &stats.AssignmentsPosted,
		&stats.AssignmentsGraded, &stats.PendingAssignments, &stats.AverageGradeGiven)
	if err != nil {
		return nil, s.mapError(err)
	}

	return stats, nil
}

// AdminMonthlyStats gathers the platform-wide figures for one period.
func (s *DB) AdminMonthlyStats(ctx context.Context, from, to time.Time) (_ *entity.AdminMonthlyStats, err error) {
	ctx, span := s.startSpan(ctx, "AdminMonthlyStats")
	defer func() { s.endSpan(span, err) }()

	stats := &entity.AdminMonthlyStats{}
	err = s.conn.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM students WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM teachers WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM courses WHERE is_active = TRUE),
			(SELECT COUNT(*) FROM enrollments WHERE status = 'active'),
			(SELECT COUNT(*) FROM enrollments WHERE created_at >= $1 AND created_at < $2),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'completed' AND paid_at >= $1 AND paid_at < $2),
			(SELECT COUNT(*) FROM email_logs WHERE status = 'sent' AND created_at >= $1 AND created_at < $2),
			(SELECT COUNT(*) FROM email_logs WHERE status = 'failed' AND created_at >= $1 AND created_at < $2)`,
		from, to,
	).Scan(&stats.TotalStudents, &stats.TotalTeachers, &stats.TotalCourses, &stats.TotalEnrollments,
		&stats.NewEnrollments, &stats.TotalRevenue, &stats.EmailsSent, &stats.EmailsFailed)
	if err != nil {
		return nil, s.mapError(err)
	}

	return stats, nil
}
