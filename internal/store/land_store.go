package store

import (
	"context"
	"errors"
	"strings"

	"landregistry/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LandStore struct{ db *gorm.DB }

func (s *Store) Lands() *LandStore { return &LandStore{db: s.DB} }

// LandFilter narrows the public available-lands listing.
type LandFilter struct {
	MinPrice *int64
	MaxPrice *int64
	State    string
	City     string
	Page     int
	Limit    int
}

// identity projection for owner/requester preloads
func identityColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "wallet_address", "contact")
}

func (l *LandStore) Create(ctx context.Context, land *domain.Land) error {
	land.LandAddress = strings.TrimSpace(land.LandAddress)
	return l.db.WithContext(ctx).Create(land).Error
}

func (l *LandStore) GetByLandID(ctx context.Context, landID int64) (*domain.Land, error) {
	var land domain.Land
	err := l.db.WithContext(ctx).
		Preload("Owner", identityColumns).
		Preload("Requester", identityColumns).
		First(&land, "land_id = ?", landID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &land, nil
}

func (l *LandStore) ExistsByAddress(ctx context.Context, landAddress string) (bool, error) {
	var total int64
	err := l.db.WithContext(ctx).Model(&domain.Land{}).
		Where("land_address = ?", strings.TrimSpace(landAddress)).
		Count(&total).Error
	return total > 0, err
}

func (l *LandStore) Save(ctx context.Context, land *domain.Land) error {
	return l.db.WithContext(ctx).Save(land).Error
}

// ListAvailable returns publicly listed parcels, newest first, with the
// filter applied, plus the total match count for pagination.
func (l *LandStore) ListAvailable(ctx context.Context, f LandFilter) ([]domain.Land, int64, error) {
	q := l.db.WithContext(ctx).Model(&domain.Land{}).
		Where("government_approval = ?", domain.ApprovalApproved).
		Where("availability = ?", domain.Available).
		Where("is_active = ?", true)

	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.State != "" {
		q = q.Where("LOWER(details_state) LIKE ?", "%"+strings.ToLower(f.State)+"%")
	}
	if f.City != "" {
		q = q.Where("LOWER(details_city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	var lands []domain.Land
	err := q.Preload("Owner", identityColumns).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&lands).Error
	return lands, total, err
}

func (l *LandStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Land, error) {
	var lands []domain.Land
	err := l.db.WithContext(ctx).
		Preload("Owner", identityColumns).
		Preload("Requester", identityColumns).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&lands).Error
	return lands, err
}

func (l *LandStore) ListPendingApproval(ctx context.Context) ([]domain.Land, error) {
	var lands []domain.Land
	err := l.db.WithContext(ctx).
		Preload("Owner", identityColumns).
		Where("government_approval = ?", domain.ApprovalPending).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&lands).Error
	return lands, err
}

// Stats aggregates the registry overview in one query.
func (l *LandStore) Stats(ctx context.Context) (*domain.LandStats, error) {
	var stats domain.LandStats
	err := l.db.WithContext(ctx).Model(&domain.Land{}).
		Select(`COUNT(*) AS total_lands,
			COALESCE(SUM(price), 0) AS total_value,
			COALESCE(SUM(CASE WHEN government_approval = ? THEN 1 ELSE 0 END), 0) AS approved_lands,
			COALESCE(SUM(CASE WHEN government_approval = ? THEN 1 ELSE 0 END), 0) AS pending_lands,
			COALESCE(SUM(CASE WHEN availability = ? THEN 1 ELSE 0 END), 0) AS available_lands`,
			domain.ApprovalApproved, domain.ApprovalPending, domain.Available).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
