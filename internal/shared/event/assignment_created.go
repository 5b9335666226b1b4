package event

const AssignmentCreatedDestination string = "assignment_created"
const AssignmentCreatedConsumerNotification string = "assignment_created_notification"

type AssignmentCreatedMessage struct {
	AssignmentID    int64  `json:"assignment_id"`
	CourseID        int64  `json:"course_id"`
	CourseName      string `json:"course_name"`
	AssignmentTitle string `json:"assignment_title"`
	DueDate         string `json:"due_date"`
}
