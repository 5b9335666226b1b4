package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
)

type ConsumeGradePostedInput struct {
	StudentID       int64  `validate:"required,gt=0"`
	CourseID        int64  `validate:"required,gt=0"`
	AssignmentID    *int64 `validate:"omitempty,gt=0"`
	CourseName      string `validate:"required"`
	AssignmentTitle string `validate:"required"`
	Grade           float64
	MaxGrade        float64 `validate:"required,gt=0"`
}

// ConsumeGradePosted notifies a student that a grade landed. Malformed
// events are dropped, not retried.
func (s *Usecase) ConsumeGradePosted(ctx context.Context, in ConsumeGradePostedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeGradePosted")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid grade posted event, dropping", "error", err)
		return nil
	}

	_, err := s.Create(ctx, CreateInput{
		UserID:              in.StudentID,
		UserType:            directory.UserTypeStudent.String(),
		Type:                entity.TypeGradePosted.String(),
		RelatedCourseID:     &in.CourseID,
		RelatedAssignmentID: in.AssignmentID,
		ActionURL:           fmt.Sprintf("/courses/%d/grades", in.CourseID),
		Variables: map[string]any{
			"course_name":      in.CourseName,
			"assignment_title": in.AssignmentTitle,
			"grade":            fmt.Sprintf("%g", in.Grade),
			"max_grade":        fmt.Sprintf("%g", in.MaxGrade),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create grade posted notification", "student_id", in.StudentID, "error", err)
		return err
	}

	return nil
}
