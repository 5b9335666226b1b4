package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
)

type ConsumeAttendanceWarningInput struct {
	StudentID      int64  `validate:"required,gt=0"`
	CourseID       int64  `validate:"required,gt=0"`
	CourseName     string `validate:"required"`
	AttendanceRate float64
	Threshold      float64
}

// ConsumeAttendanceWarning raises a high-priority warning to a student whose
// attendance fell under the course threshold. High priority means email is
// attempted even when the student never stored a preference row.
func (s *Usecase) ConsumeAttendanceWarning(ctx context.Context, in ConsumeAttendanceWarningInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAttendanceWarning")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid attendance warning event, dropping", "error", err)
		return nil
	}

	_, err := s.Create(ctx, CreateInput{
		UserID:          in.StudentID,
		UserType:        directory.UserTypeStudent.String(),
		Type:            entity.TypeAttendanceWarning.String(),
		Priority:        entity.PriorityHigh.String(),
		RelatedCourseID: &in.CourseID,
		ActionURL:       fmt.Sprintf("/courses/%d/attendance", in.CourseID),
		Variables: map[string]any{
			"course_name":     in.CourseName,
			"attendance_rate": fmt.Sprintf("%.0f%%", in.AttendanceRate),
			"threshold":       fmt.Sprintf("%.0f%%", in.Threshold),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create attendance warning notification", "student_id", in.StudentID, "error", err)
		return err
	}

	return nil
}
