package service

import (
	"context"

	"landregistry/internal/domain"
	"landregistry/internal/dto"
)

type AuthService interface {
	Signup(ctx context.Context, r dto.SignupRequest) (*dto.AuthResponse, error)
	RegisterGovernment(ctx context.Context, r dto.GovernmentSignupRequest) error
	Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error)
	Profile(ctx context.Context, userID domain.UserID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*domain.User, error)
	ListUsers(ctx context.Context, caller domain.Actor) ([]domain.User, error)
}
