// Package directory resolves platform users from their (user_type, user_id)
// pair. It is the single place that knows which table backs each role, so the
// rest of the service never branches on raw user-type strings.
package directory

import (
	"context"
	"strings"

	"github.com/collegeprep/notifier/internal/pkg/goerror"
)

// UserType is the closed set of platform roles.
type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeTeacher UserType = "teacher"
	UserTypeAdmin   UserType = "admin"
	UserTypeParent  UserType = "parent"
)

// ParseUserType validates a raw role string against the closed set.
func ParseUserType(raw string) (UserType, error) {
	switch UserType(strings.TrimSpace(strings.ToLower(raw))) {
	case UserTypeStudent:
		return UserTypeStudent, nil
	case UserTypeTeacher:
		return UserTypeTeacher, nil
	case UserTypeAdmin:
		return UserTypeAdmin, nil
	case UserTypeParent:
		return UserTypeParent, nil
	default:
		return "", goerror.NewInvalidInput(nil, "user_type", "must be one of student, teacher, admin, parent")
	}
}

func (t UserType) String() string {
	return string(t)
}

// Valid reports whether the value is one of the closed set.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeAdmin, UserTypeParent:
		return true
	default:
		return false
	}
}

// UserRef is a resolved identity: enough to address a user on any channel.
type UserRef struct {
	ID    int64
	Type  UserType
	Email string
	Name  string
	Phone string
}

// Directory looks up users. Implementations read the platform's user tables.
type Directory interface {
	// Resolve returns the identity behind a (user_type, user_id) pair, or
	// goerror.ErrNotFound when no such user exists.
	Resolve(ctx context.Context, userType UserType, userID int64) (*UserRef, error)

	// ResolveByEmail returns the identity registered under an email for the
	// given role, or goerror.ErrNotFound.
	ResolveByEmail(ctx context.Context, userType UserType, email string) (*UserRef, error)

	// FindByEmail searches every role table for an email. Used by flows that
	// start from an address alone, like password reset.
	FindByEmail(ctx context.Context, email string) (*UserRef, error)

	// ListCourseStudents returns the enrolled students of a course.
	ListCourseStudents(ctx context.Context, courseID int64) ([]UserRef, error)

	// ListActive returns all active users of a role.
	ListActive(ctx context.Context, userType UserType) ([]UserRef, error)
}
