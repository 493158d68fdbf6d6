package service

import (
	"context"

	"landregistry/internal/domain"
)

// ChainAnchor records an approved land's fingerprint on the configured
// chain node. Called fire-and-forget after government approval.
type ChainAnchor interface {
	AnchorLand(ctx context.Context, land *domain.Land) (txHash string, err error)
}
