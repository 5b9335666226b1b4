package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/notification/entity"
)

type ConsumeAssignmentCreatedInput struct {
	AssignmentID    int64  `validate:"required,gt=0"`
	CourseID        int64  `validate:"required,gt=0"`
	CourseName      string `validate:"required"`
	AssignmentTitle string `validate:"required"`
	DueDate         string
}

// ConsumeAssignmentCreated fans the new-assignment notification out to every
// active student of the course. Malformed events are dropped, not retried.
func (s *Usecase) ConsumeAssignmentCreated(ctx context.Context, in ConsumeAssignmentCreatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAssignmentCreated")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid assignment created event, dropping", "error", err)
		return nil
	}

	students, err := s.directory.ListCourseStudents(ctx, in.CourseID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list course students", "course_id", in.CourseID, "error", err)
		return err
	}

	for _, student := range students {
		s.routine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
			_, createErr := s.Create(ctx, CreateInput{
				UserID:              student.ID,
				UserType:            directory.UserTypeStudent.String(),
				Type:                entity.TypeAssignmentCreated.String(),
				RelatedCourseID:     &in.CourseID,
				RelatedAssignmentID: &in.AssignmentID,
				ActionURL:           fmt.Sprintf("/courses/%d/assignments/%d", in.CourseID, in.AssignmentID),
				Variables: map[string]any{
					"course_name":      in.CourseName,
					"assignment_title": in.AssignmentTitle,
					"due_date":         in.DueDate,
				},
			})
			if createErr != nil {
				slog.ErrorContext(ctx, "failed to notify student of new assignment",
					"assignment_id", in.AssignmentID, "student_id", student.ID, "error", createErr)
			}
			return nil
		})
	}

	return nil
}
