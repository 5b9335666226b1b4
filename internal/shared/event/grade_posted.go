package event

const GradePostedDestination string = "grade_posted"
const GradePostedConsumerNotification string = "grade_posted_notification"

type GradePostedMessage struct {
	StudentID       int64   `json:"student_id"`
	CourseID        int64   `json:"course_id"`
	AssignmentID    *int64  `json:"assignment_id,omitempty"`
	CourseName      string  `json:"course_name"`
	AssignmentTitle string  `json:"assignment_title"`
	Grade           float64 `json:"grade"`
	MaxGrade        float64 `json:"max_grade"`
}
