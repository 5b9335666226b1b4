package event

const UserRegisteredDestination string = "user_registered"
const UserRegisteredConsumerNotification string = "user_registered_notification"
const UserRegisteredConsumerMailer string = "user_registered_mailer"

type UserRegisteredMessage struct {
	UserID   int64  `json:"user_id"`
	UserType string `json:"user_type"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}
