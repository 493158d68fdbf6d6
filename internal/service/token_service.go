package service

import (
	"context"
	"time"

	"landregistry/internal/domain"
)

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)
	Verify(ctx context.Context, token string) (*domain.Actor, error)
}
