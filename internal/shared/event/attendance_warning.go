package event

const AttendanceWarningDestination string = "attendance_warning"
const AttendanceWarningConsumerNotification string = "attendance_warning_notification"

type AttendanceWarningMessage struct {
	StudentID      int64   `json:"student_id"`
	CourseID       int64   `json:"course_id"`
	CourseName     string  `json:"course_name"`
	AttendanceRate float64 `json:"attendance_rate"`
	Threshold      float64 `json:"threshold"`
}
