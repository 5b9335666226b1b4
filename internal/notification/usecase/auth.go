package usecase

import (
	"context"

	"github.com/collegeprep/notifier/internal/directory"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/jwt"
)

type authIdentity struct {
	UserID   int64
	UserType directory.UserType
	Email    string
}

func (s *Usecase) requireAuth(ctx context.Context) (*authIdentity, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	userType, err := directory.ParseUserType(clm.UserType)
	if err != nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	return &authIdentity{UserID: clm.UserID, UserType: userType, Email: clm.UserEmail}, nil
}

func (s *Usecase) requireAdmin(ctx context.Context) (*authIdentity, error) {
	ident, err := s.requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if ident.UserType != directory.UserTypeAdmin {
		return nil, goerror.NewBusiness("admin access required", goerror.CodeForbidden)
	}

	return ident, nil
}
