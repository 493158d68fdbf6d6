package service

import (
	"context"

	"landregistry/internal/domain"
	"landregistry/internal/dto"
)

// LandService drives the land lifecycle: registration, government review,
// purchase-request negotiation, and the read-side queries.
type LandService interface {
	Register(ctx context.Context, caller domain.Actor, r dto.RegisterLandRequest) (*dto.LandSummary, error)
	Approve(ctx context.Context, caller domain.Actor, landID int64, status domain.ApprovalStatus) error
	RequestPurchase(ctx context.Context, caller domain.Actor, landID int64) error
	ProcessRequest(ctx context.Context, caller domain.Actor, landID int64, status domain.RequestStatus) error
	UpdateDetails(ctx context.Context, caller domain.Actor, landID int64, r dto.UpdateLandRequest) (*dto.LandSummary, error)

	Available(ctx context.Context, q dto.AvailableLandsQuery) ([]domain.Land, dto.Pagination, error)
	ByLandID(ctx context.Context, landID int64) (*domain.Land, error)
	UserLands(ctx context.Context, caller domain.Actor, userID domain.UserID) ([]domain.Land, error)
	PendingApproval(ctx context.Context, caller domain.Actor) ([]domain.Land, error)
	Stats(ctx context.Context) (*domain.LandStats, error)
}
