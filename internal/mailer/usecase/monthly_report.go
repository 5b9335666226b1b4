package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/idempotency"
	"github.com/samber/lo"
)

type TriggerReportsInput struct {
	Year  int32  `validate:"required,gte=2020,lte=2100"`
	Month int32  `validate:"required,gte=1,lte=12"`
	Type  string `validate:"omitempty"`
}

// TriggerReports kicks off report generation for a period on demand; admin
// only. A second trigger for the same period and type is rejected while the
// first is running or after it completed.
func (s *Usecase) TriggerReports(ctx context.Context, in TriggerReportsInput) error {
	ctx, span := s.startSpan(ctx, "TriggerReports")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	types := entity.AllReportTypes()
	if in.Type != "" {
		t, err := entity.ParseReportType(in.Type)
		if err != nil {
			return err
		}
		types = []entity.ReportType{t}
	}

	for _, t := range types {
		key := fmt.Sprintf("monthly_report:%d-%02d:%s", in.Year, in.Month, t.String())
		err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
			return s.generateReports(ctx, t, in.Year, in.Month)
		},
			idempotency.WithLockDuration(15*time.Minute),
			idempotency.WithStateTTL(31*24*time.Hour),
		)
		switch {
		case errors.Is(err, idempotency.ErrAlreadyInProgress):
			return goerror.NewBusiness("report generation already running for this period", goerror.CodeConflict)
		case errors.Is(err, idempotency.ErrAlreadyCompleted):
			return goerror.NewBusiness("reports already generated for this period", goerror.CodeConflict)
		case err != nil:
			slog.ErrorContext(ctx, "failed to generate reports", "report_type", t.String(), "error", err)
			return goerror.NewServer(err)
		}
	}

	return nil
}

// GenerateDueReports is the scheduled entry point: on the first of the month
// it generates the previous month's reports for every type.
func (s *Usecase) GenerateDueReports(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "GenerateDueReports")
	defer span.End()

	prev := s.clock.Now().UTC().AddDate(0, -1, 0)
	year, month := int32(prev.Year()), int32(prev.Month())

	for _, t := range entity.AllReportTypes() {
		if err := s.generateReports(ctx, t, year, month); err != nil {
			slog.ErrorContext(ctx, "failed to generate scheduled reports", "report_type", t.String(), "error", err)
		}
	}

	return nil
}

// periodWindow is [first of month, first of next month) in UTC.
func periodWindow(year, month int32) (time.Time, time.Time) {
	from := time.Date(int(year), time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *Usecase) generateReports(ctx context.Context, t entity.ReportType, year, month int32) error {
	var userType directory.UserType
	switch t {
	case entity.ReportTypeStudentMonthly:
		userType = directory.UserTypeStudent
	case entity.ReportTypeTeacherMonthly:
		userType = directory.UserTypeTeacher
	case entity.ReportTypeAdminMonthly:
		userType = directory.UserTypeAdmin
	}

	users, err := s.directory.ListActive(ctx, userType)
	if err != nil {
		return err
	}

	for _, user := range users {
		if err := s.generateOne(ctx, t, &user, year, month); err != nil {
			slog.ErrorContext(ctx, "failed to generate report",
				"report_type", t.String(), "user_id", user.ID, "error", err)
		}
	}

	return nil
}

// generateOne inserts the report row first; failures afterwards land on that
// row as a failed status instead of vanishing. The row reaches sent only when
// the report email actually went out.
func (s *Usecase) generateOne(ctx context.Context, t entity.ReportType, user *directory.UserRef, year, month int32) error {
	reportID, err := s.repoDB.CreateReport(ctx, entity.MonthlyReport{
		UserID:         user.ID,
		UserType:       user.Type.String(),
		RecipientEmail: user.Email,
		ReportType:     t,
		PeriodYear:     year,
		PeriodMonth:    month,
	})
	if err != nil {
		return err
	}

	stats, html, err := s.buildReport(ctx, t, user, year, month)
	if err != nil {
		s.failReport(ctx, reportID, err)
		return err
	}

	key := fmt.Sprintf("reports/%d/%02d/%s-%d.html", year, month, t.String(), reportID)
	if _, err := s.archive.PutHTML(ctx, key, html); err != nil {
		s.failReport(ctx, reportID, err)
		return err
	}

	if err := s.repoDB.MarkReportGenerated(ctx, reportID, key, stats); err != nil {
		return err
	}

	sent, err := s.emailReport(ctx, user, year, month, html)
	if err != nil {
		s.failReport(ctx, reportID, err)
		return err
	}
	if !sent {
		// report emails disabled for the recipient; the row stays generated
		return nil
	}

	return s.repoDB.MarkReportSent(ctx, reportID)
}

func (s *Usecase) failReport(ctx context.Context, reportID int64, cause error) {
	if err := s.repoDB.FailReport(ctx, reportID, cause.Error()); err != nil {
		slog.ErrorContext(ctx, "failed to repo fail report", "report_id", reportID, "error", err)
	}
}

// emailReport sends the rendered report, honoring the per-address report
// email switch. The bool reports whether the email actually went out.
func (s *Usecase) emailReport(ctx context.Context, user *directory.UserRef, year, month int32, html string) (bool, error) {
	pref, err := s.repoDB.GetEmailPreference(ctx, user.Email)
	if err == nil && pref != nil && (!pref.ReportEmailsEnabled || pref.UnsubscribedAt != nil) {
		slog.InfoContext(ctx, "report emails disabled for recipient", "email", user.Email)
		return false, nil
	}

	subject := fmt.Sprintf("Your %s %d report", time.Month(month).String(), year)
	if err := s.sendEmail(ctx, sendInput{
		RecipientEmail:  user.Email,
		RecipientName:   user.Name,
		Subject:         subject,
		Body:            html,
		EmailType:       entity.EmailTypeMonthlyReport,
		RelatedUserID:   &user.ID,
		RelatedUserType: user.Type.String(),
	}); err != nil {
		return false, err
	}

	return true, nil
}

// buildReport computes the period figures and renders the HTML from them, so
// what lands on the report row is exactly what the email shows.
func (s *Usecase) buildReport(ctx context.Context, t entity.ReportType, user *directory.UserRef, year, month int32) (entity.ReportStats, string, error) {
	from, to := periodWindow(year, month)

	switch t {
	case entity.ReportTypeStudentMonthly:
		st, err := s.repoDB.StudentMonthlyStats(ctx, user.ID, from, to)
		if err != nil {
			return entity.ReportStats{}, "", err
		}
		pct := 0.0
		if st.TotalClasses > 0 {
			pct = float64(st.ClassesAttended) / float64(st.TotalClasses) * 100
		}
		stats := entity.ReportStats{
			TotalClasses:           st.TotalClasses,
			ClassesAttended:        st.ClassesAttended,
			AttendancePercentage:   pct,
			AssignmentsCompleted:   st.AssignmentsCompleted,
			AverageGrade:           st.AverageGrade,
			OutstandingAssignments: st.OutstandingAssignments,
		}
		return stats, renderStudentReport(user, year, month, st, pct), nil

	case entity.ReportTypeTeacherMonthly:
		st, err := s.repoDB.TeacherMonthlyStats(ctx, user.ID, from, to)
		if err != nil {
			return entity.ReportStats{}, "", err
		}
		stats := entity.ReportStats{
			StudentsCount:      st.StudentsCount,
			AssignmentsGraded:  st.AssignmentsGraded,
			PendingAssignments: st.PendingAssignments,
			AverageGrade:       st.AverageGradeGiven,
		}
		return stats, renderTeacherReport(user, year, month, st), nil

	case entity.ReportTypeAdminMonthly:
		st, err := s.repoDB.AdminMonthlyStats(ctx, from, to)
		if err != nil {
			return entity.ReportStats{}, "", err
		}
		stats := entity.ReportStats{
			TotalStudents:    st.TotalStudents,
			TotalTeachers:    st.TotalTeachers,
			TotalCourses:     st.TotalCourses,
			TotalEnrollments: st.TotalEnrollments,
			TotalRevenue:     st.TotalRevenue,
		}
		return stats, renderAdminReport(user, year, month, st), nil
	}

	return entity.ReportStats{}, "", fmt.Errorf("unknown report type: %s", t)
}

func reportHeader(title string, user *directory.UserRef, year, month int32) string {
	return fmt.Sprintf(`<html><body>
<h1>%s</h1>
<p>%s &mdash; %s %d</p>`, title, user.Name, time.Month(month).String(), year)
}

func renderStudentReport(user *directory.UserRef, year, month int32, stats *entity.StudentMonthlyStats, attendancePct float64) string {
	var b strings.Builder
	b.WriteString(reportHeader("Monthly Progress Report", user, year, month))

	fmt.Fprintf(&b, `<ul>
<li>Classes this month: %d</li>
<li>Classes attended: %d</li>
<li>Attendance: %.0f%%</li>
<li>Assignments completed: %d</li>
<li>Average grade: %.1f</li>
<li>Outstanding assignments: %d</li>
</ul>`, stats.TotalClasses, stats.ClassesAttended, attendancePct,
		stats.AssignmentsCompleted, stats.AverageGrade, stats.OutstandingAssignments)

	if len(stats.Courses) > 0 {
		b.WriteString(`<table border="1"><tr><th>Course</th><th>Avg grade</th><th>Attendance</th></tr>`)
		rows := lo.Map(stats.Courses, func(c entity.CourseStats, _ int) string {
			return fmt.Sprintf("<tr><td>%s</td><td>%.1f</td><td>%.0f%%</td></tr>", c.CourseName, c.AverageGrade, c.AttendanceRate)
		})
		b.WriteString(strings.Join(rows, ""))
		b.WriteString("</table>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

func renderTeacherReport(user *directory.UserRef, year, month int32, stats *entity.TeacherMonthlyStats) string {
	var b strings.Builder
	b.WriteString(reportHeader("Monthly Teaching Report", user, year, month))

	fmt.Fprintf(&b, `<ul>
<li>Courses taught: %d</li>
<li>Active students: %d</li>
<li>Assignments posted: %d</li>
<li>Submissions graded: %d</li>
<li>Awaiting grading: %d</li>
<li>Average grade given: %.1f</li>
</ul></body></html>`, stats.CoursesTaught, stats.StudentsCount, stats.AssignmentsPosted,
		stats.AssignmentsGraded, stats.PendingAssignments, stats.AverageGradeGiven)

	return b.String()
}

func renderAdminReport(user *directory.UserRef, year, month int32, stats *entity.AdminMonthlyStats) string {
	var b strings.Builder
	b.WriteString(reportHeader("Monthly Platform Report", user, year, month))

	fmt.Fprintf(&b, `<ul>
<li>Active students: %d</li>
<li>Active teachers: %d</li>
<li>Active courses: %d</li>
<li>Active enrollments: %d</li>
<li>New enrollments: %d</li>
<li>Revenue: %.2f</li>
<li>Emails sent: %d</li>
<li>Emails failed: %d</li>
</ul></body></html>`, stats.TotalStudents, stats.TotalTeachers, stats.TotalCourses,
		stats.TotalEnrollments, stats.NewEnrollments, stats.TotalRevenue,
		stats.EmailsSent, stats.EmailsFailed)

	return b.String()
}
