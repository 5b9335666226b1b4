package entity

import "time"

// MonthlyReport is the persistent record of one generated report. Every
// generation inserts a fresh row, so a re-run for the same period is visible
// in the history rather than silently replacing it.
//
// Lifecycle: pending on insert, generated once the stats are computed and
// the HTML is archived, then sent or failed depending on email delivery.
type MonthlyReport struct {
	ID             int64
	UserID         int64
	UserType       string
	RecipientEmail string

	ReportType  ReportType
	PeriodYear  int32
	PeriodMonth int32

	// Stats holds the figures the report was built from, persisted on the
	// row so the history is queryable without opening the archived HTML.
	Stats ReportStats

	Status       ReportStatus
	ErrorMessage string

	// StorageKey locates the archived HTML in object storage once the
	// report is generated.
	StorageKey string

	CreatedAt   time.Time
	GeneratedAt *time.Time
	SentAt      *time.Time
}

// ReportStats carries the role-specific figures of one report. Only the
// fields for the report's audience are populated.
type ReportStats struct {
	TotalClasses           int64
	ClassesAttended        int64
	AttendancePercentage   float64
	AssignmentsCompleted   int64
	AverageGrade           float64
	OutstandingAssignments int64

	StudentsCount      int64
	AssignmentsGraded  int64
	PendingAssignments int64

	TotalStudents    int64
	TotalTeachers    int64
	TotalCourses     int64
	TotalEnrollments int64
	TotalRevenue     float64
}

// StudentMonthlyStats holds the per-student figures a student report is
// built from.
type StudentMonthlyStats struct {
	TotalClasses           int64
	ClassesAttended        int64
	AssignmentsCompleted   int64
	AverageGrade           float64
	OutstandingAssignments int64
	Courses                []CourseStats
}

// CourseStats is one course line inside a student report.
type CourseStats struct {
	CourseID       int64
	CourseName     string
	AverageGrade   float64
	AttendanceRate float64
}

// TeacherMonthlyStats holds the figures a teacher report is built from.
type TeacherMonthlyStats struct {
	CoursesTaught      int64
	StudentsCount      int64
	AssignmentsPosted  int64
	AssignmentsGraded  int64
	PendingAssignments int64
	AverageGradeGiven  float64
}

// AdminMonthlyStats holds the platform-wide figures for the admin report.
type AdminMonthlyStats struct {
	TotalStudents    int64
	TotalTeachers    int64
	TotalCourses     int64
	TotalEnrollments int64
	NewEnrollments   int64
	TotalRevenue     float64
	EmailsSent       int64
	EmailsFailed     int64
}
