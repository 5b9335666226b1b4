package usecase

import (
	"context"
	"log/slog"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

type NotifyCourseInput struct {
	CourseID int64  `validate:"required,gt=0"`
	Type     string `validate:"required"`

	Title    string `validate:"omitempty,max=200"`
	Message  string
	Priority string

	ActionURL string `validate:"omitempty,max=500"`

	Variables map[string]any
}

// NotifyCourse fans one notification out to every active student of a course.
// Creation runs in the background per student; one student failing never
// blocks the rest. The returned count is the number of targeted students.
func (s *Usecase) NotifyCourse(ctx context.Context, in NotifyCourseInput) (_ int, err error) {
	ctx, span := s.startSpan(ctx, "NotifyCourse")
	defer span.End()

	if _, err := s.requireAdmin(ctx); err != nil {
		return 0, err
	}

	if err := s.validator.Validate(in); err != nil {
		return 0, goerror.NewInvalidInput(err)
	}

	students, err := s.directory.ListCourseStudents(ctx, in.CourseID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list course students", "course_id", in.CourseID, "error", err)
		return 0, goerror.NewServer(err)
	}

	for _, student := range students {
		s.routine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
			_, createErr := s.Create(ctx, CreateInput{
				UserID:          student.ID,
				UserType:        directory.UserTypeStudent.String(),
				Type:            in.Type,
				Title:           in.Title,
				Message:         in.Message,
				Priority:        in.Priority,
				ActionURL:       in.ActionURL,
				RelatedCourseID: &in.CourseID,
				Variables:       in.Variables,
			})
			if createErr != nil {
				slog.ErrorContext(ctx, "failed to notify course student",
					"course_id", in.CourseID, "student_id", student.ID, "error", createErr)
			}
			return nil
		})
	}

	return len(students), nil
}
