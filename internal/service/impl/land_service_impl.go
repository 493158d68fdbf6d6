package impl

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"landregistry/internal/domain"
	"landregistry/internal/dto"
	"landregistry/internal/observability/metrics"
	"landregistry/internal/service"
	"landregistry/internal/store"

	"github.com/google/uuid"
)

const notifyTimeout = 10 * time.Second

var ErrStorageNotConfigured = errors.New("document storage is not configured")

// LandConfig bounds document and image uploads.
type LandConfig struct {
	MaxUploadBytes int64
	MaxUploads     int
}

type LandServiceImpl struct {
	Store    landDataStore
	Blobs    service.BlobStore   // optional
	Anchor   service.ChainAnchor // optional
	Notifier service.Notifier    // optional
	cfg      LandConfig
}

func NewLandServiceImpl(st *store.Store, blobs service.BlobStore, anchor service.ChainAnchor, notifier service.Notifier, cfg LandConfig) *LandServiceImpl {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.MaxUploads <= 0 {
		cfg.MaxUploads = 10
	}
	return &LandServiceImpl{
		Store:    gormLandStoreAdapter{store: st},
		Blobs:    blobs,
		Anchor:   anchor,
		Notifier: notifier,
		cfg:      cfg,
	}
}

type landDataStore interface {
	WithTx(ctx context.Context, fn func(tx landStoreTx) error) error
}

type landStoreTx interface {
	Lands() landStore
	Users() landUserStore
	Sequences() sequenceStore
}

type landStore interface {
	Create(ctx context.Context, land *domain.Land) error
	GetByLandID(ctx context.Context, landID int64) (*domain.Land, error)
	ExistsByAddress(ctx context.Context, landAddress string) (bool, error)
	Save(ctx context.Context, land *domain.Land) error
	ListAvailable(ctx context.Context, f store.LandFilter) ([]domain.Land, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Land, error)
	ListPendingApproval(ctx context.Context) ([]domain.Land, error)
	Stats(ctx context.Context) (*domain.LandStats, error)
}

type landUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type sequenceStore interface {
	Next(ctx context.Context, name string) (int64, error)
}

type gormLandStoreAdapter struct {
	store *store.Store
}

func (g gormLandStoreAdapter) WithTx(ctx context.Context, fn func(tx landStoreTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormLandTxAdapter{tx: tx})
	})
}

type gormLandTxAdapter struct {
	tx *store.Store
}

func (g gormLandTxAdapter) Lands() landStore         { return g.tx.Lands() }
func (g gormLandTxAdapter) Users() landUserStore     { return g.tx.Users() }
func (g gormLandTxAdapter) Sequences() sequenceStore { return g.tx.Sequences() }

func (s *LandServiceImpl) Register(ctx context.Context, caller domain.Actor, r dto.RegisterLandRequest) (*dto.LandSummary, error) {
	result := "success"
	defer func() {
		metrics.LandRegistrationsTotal.WithLabelValues(result).Inc()
	}()

	r.LandAddress = strings.TrimSpace(r.LandAddress)
	if r.LandAddress == "" || r.Description == "" || strings.TrimSpace(r.Details.Area) == "" {
		result = "failure"
		return nil, domain.ErrMissingLandFields
	}
	if r.Price <= 0 {
		result = "failure"
		return nil, domain.ErrInvalidPrice
	}

	// Uploads are content-addressed, so storing them before the
	// transaction can at worst leave unreferenced objects behind.
	docKeys, docHash, err := s.storeUploads(ctx, r.Details.Documents)
	if err != nil {
		result = "failure"
		return nil, err
	}
	imgKeys, _, err := s.storeUploads(ctx, r.Details.Images)
	if err != nil {
		result = "failure"
		return nil, err
	}

	documentHash := r.DocumentHash
	if documentHash == "" {
		documentHash = docHash
	}

	var land *domain.Land
	err = s.Store.WithTx(ctx, func(tx landStoreTx) error {
		if _, err := tx.Users().GetByID(ctx, caller.UserID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		exists, err := tx.Lands().ExistsByAddress(ctx, r.LandAddress)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateLandAddress
		}

		landID, err := tx.Sequences().Next(ctx, store.SequenceLandID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		land = &domain.Land{
			LandID:             landID,
			OwnerID:            caller.UserID,
			OwnerWalletAddress: caller.WalletAddress,
			DocumentHash:       documentHash,
			LandAddress:        r.LandAddress,
			Price:              r.Price,
			Description:        r.Description,
			Details: domain.LandDetails{
				Area:       r.Details.Area,
				State:      r.Details.State,
				City:       r.Details.City,
				PostalCode: r.Details.PostalCode,
				Documents:  docKeys,
				Images:     imgKeys,
			},
			GovernmentApproval: domain.ApprovalPending,
			Availability:       domain.NotAvailable,
			RequestStatus:      domain.RequestDefault,
			IsActive:           true,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		return tx.Lands().Create(ctx, land)
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	return landSummary(land), nil
}

func (s *LandServiceImpl) Approve(ctx context.Context, caller domain.Actor, landID int64, status domain.ApprovalStatus) error {
	if !caller.Role.CanApprove() {
		return domain.ErrGovernmentOnly
	}
	if status != domain.ApprovalApproved && status != domain.ApprovalRejected {
		return domain.ErrInvalidStatus
	}

	var land *domain.Land
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		l, err := getLand(ctx, tx, landID)
		if err != nil {
			return err
		}
		if l.GovernmentApproval != domain.ApprovalPending {
			return domain.ErrAlreadyReviewed
		}

		l.GovernmentApproval = status
		if status == domain.ApprovalApproved {
			l.Availability = domain.Available
		} else {
			l.Availability = domain.NotAvailable
		}
		l.UpdatedAt = time.Now().UTC()
		if err := tx.Lands().Save(ctx, l); err != nil {
			return err
		}
		land = l
		return nil
	})
	if err != nil {
		metrics.WorkflowTransitionsTotal.WithLabelValues("government_review", "failure").Inc()
		return err
	}
	metrics.WorkflowTransitionsTotal.WithLabelValues("government_review", "success").Inc()

	if status == domain.ApprovalApproved {
		s.anchorAsync(land)
	}
	if land.Owner != nil {
		verdict := strings.ToLower(string(status))
		s.notifyAsync("government_review", land.Owner.Email,
			"Land registration "+verdict,
			fmt.Sprintf("Your land #%d at %s has been %s by the registrar.", land.LandID, land.LandAddress, verdict))
	}
	return nil
}

func (s *LandServiceImpl) RequestPurchase(ctx context.Context, caller domain.Actor, landID int64) error {
	var land *domain.Land
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		l, err := getLand(ctx, tx, landID)
		if err != nil {
			return err
		}
		if l.OwnerID == caller.UserID {
			return domain.ErrOwnLandRequest
		}
		if !l.Listed() {
			return domain.ErrLandNotAvailable
		}
		if l.RequesterID != nil {
			return domain.ErrRequestOutstanding
		}

		requester := caller.UserID
		wallet := caller.WalletAddress
		l.RequesterID = &requester
		l.RequesterWalletAddress = &wallet
		l.Availability = domain.Requested
		l.RequestStatus = domain.RequestPending
		l.UpdatedAt = time.Now().UTC()
		if err := tx.Lands().Save(ctx, l); err != nil {
			return err
		}
		land = l
		return nil
	})
	if err != nil {
		metrics.WorkflowTransitionsTotal.WithLabelValues("purchase_request", "failure").Inc()
		return err
	}
	metrics.WorkflowTransitionsTotal.WithLabelValues("purchase_request", "success").Inc()

	if land.Owner != nil {
		s.notifyAsync("purchase_request", land.Owner.Email,
			"New purchase request",
			fmt.Sprintf("Your land #%d at %s has received a purchase request.", land.LandID, land.LandAddress))
	}
	return nil
}

func (s *LandServiceImpl) ProcessRequest(ctx context.Context, caller domain.Actor, landID int64, status domain.RequestStatus) error {
	if status != domain.RequestApproved && status != domain.RequestRejected {
		return domain.ErrInvalidStatus
	}

	var (
		land      *domain.Land
		requester *domain.User
	)
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		l, err := getLand(ctx, tx, landID)
		if err != nil {
			return err
		}
		if l.OwnerID != caller.UserID {
			return domain.ErrNotOwner
		}
		if l.RequestStatus != domain.RequestPending {
			return domain.ErrNoPendingRequest
		}

		requester = l.Requester
		l.RequestStatus = status
		if status == domain.RequestApproved {
			l.Availability = domain.ApprovedForPurchase
		} else {
			l.Availability = domain.Available
			l.RequesterID = nil
			l.Requester = nil
			l.RequesterWalletAddress = nil
		}
		l.UpdatedAt = time.Now().UTC()
		if err := tx.Lands().Save(ctx, l); err != nil {
			return err
		}
		land = l
		return nil
	})
	if err != nil {
		metrics.WorkflowTransitionsTotal.WithLabelValues("process_request", "failure").Inc()
		return err
	}
	metrics.WorkflowTransitionsTotal.WithLabelValues("process_request", "success").Inc()

	if requester != nil {
		verdict := strings.ToLower(string(status))
		s.notifyAsync("process_request", requester.Email,
			"Purchase request "+verdict,
			fmt.Sprintf("Your request for land #%d at %s has been %s by the owner.", land.LandID, land.LandAddress, verdict))
	}
	return nil
}

func (s *LandServiceImpl) UpdateDetails(ctx context.Context, caller domain.Actor, landID int64, r dto.UpdateLandRequest) (*dto.LandSummary, error) {
	var land *domain.Land
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		l, err := getLand(ctx, tx, landID)
		if err != nil {
			return err
		}
		if l.OwnerID != caller.UserID {
			return domain.ErrNotOwner
		}
		if r.Price != nil {
			if *r.Price <= 0 {
				return domain.ErrInvalidPrice
			}
			l.Price = *r.Price
		}
		if r.Description != nil {
			if strings.TrimSpace(*r.Description) == "" {
				return domain.ErrEmptyDescription
			}
			l.Description = *r.Description
		}
		l.UpdatedAt = time.Now().UTC()
		if err := tx.Lands().Save(ctx, l); err != nil {
			return err
		}
		land = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return landSummary(land), nil
}

func (s *LandServiceImpl) Available(ctx context.Context, q dto.AvailableLandsQuery) ([]domain.Land, dto.Pagination, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 10
	}

	var (
		lands []domain.Land
		total int64
	)
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		var err error
		lands, total, err = tx.Lands().ListAvailable(ctx, store.LandFilter{
			MinPrice: q.MinPrice,
			MaxPrice: q.MaxPrice,
			State:    q.State,
			City:     q.City,
			Page:     page,
			Limit:    limit,
		})
		return err
	})
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return lands, dto.Pagination{Current: page, Pages: pages, Total: total}, nil
}

func (s *LandServiceImpl) ByLandID(ctx context.Context, landID int64) (*domain.Land, error) {
	var land *domain.Land
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		l, err := getLand(ctx, tx, landID)
		if err != nil {
			return err
		}
		land = l
		return nil
	})
	return land, err
}

func (s *LandServiceImpl) UserLands(ctx context.Context, caller domain.Actor, userID domain.UserID) ([]domain.Land, error) {
	if caller.UserID != userID && !caller.Role.CanViewAnyUser() {
		return nil, domain.ErrAccessDenied
	}
	var lands []domain.Land
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		var err error
		lands, err = tx.Lands().ListByOwner(ctx, userID)
		return err
	})
	return lands, err
}

func (s *LandServiceImpl) PendingApproval(ctx context.Context, caller domain.Actor) ([]domain.Land, error) {
	if !caller.Role.CanApprove() {
		return nil, domain.ErrGovernmentOnly
	}
	var lands []domain.Land
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		var err error
		lands, err = tx.Lands().ListPendingApproval(ctx)
		return err
	})
	return lands, err
}

func (s *LandServiceImpl) Stats(ctx context.Context) (*domain.LandStats, error) {
	var stats *domain.LandStats
	err := s.Store.WithTx(ctx, func(tx landStoreTx) error {
		var err error
		stats, err = tx.Lands().Stats(ctx)
		return err
	})
	return stats, err
}

func getLand(ctx context.Context, tx landStoreTx, landID int64) (*domain.Land, error) {
	l, err := tx.Lands().GetByLandID(ctx, landID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrLandNotFound
		}
		return nil, err
	}
	return l, nil
}

// storeUploads decodes base64 payloads, writes each under its sha256 key,
// and returns the keys plus a combined content hash.
func (s *LandServiceImpl) storeUploads(ctx context.Context, files []dto.FilePayload) (domain.StringList, string, error) {
	if len(files) == 0 {
		return nil, "", nil
	}
	if len(files) > s.cfg.MaxUploads {
		return nil, "", domain.ErrTooManyUploads
	}
	if s.Blobs == nil {
		return nil, "", ErrStorageNotConfigured
	}

	keys := make(domain.StringList, 0, len(files))
	combined := sha256.New()
	for _, f := range files {
		raw, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: malformed file payload", domain.ErrMissingLandFields)
		}
		if int64(len(raw)) > s.cfg.MaxUploadBytes {
			return nil, "", domain.ErrUploadTooLarge
		}

		sum := sha256.Sum256(raw)
		key := hex.EncodeToString(sum[:])
		combined.Write(sum[:])

		if err := s.Blobs.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), f.ContentType); err != nil {
			return nil, "", fmt.Errorf("store upload: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, hex.EncodeToString(combined.Sum(nil)), nil
}

func (s *LandServiceImpl) notifyAsync(event, email, subject, message string) {
	if s.Notifier == nil || email == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.Notifier.SendEmail(ctx, email, subject, message); err != nil {
			slog.Warn("notification delivery failed", "event", event, "error", err)
			metrics.NotificationsTotal.WithLabelValues("email", "failure").Inc()
			return
		}
		metrics.NotificationsTotal.WithLabelValues("email", "success").Inc()
	}()
}

func (s *LandServiceImpl) anchorAsync(land *domain.Land) {
	if s.Anchor == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		txHash, err := s.Anchor.AnchorLand(ctx, land)
		if err != nil {
			slog.Warn("chain anchor failed", "landId", land.LandID, "error", err)
			metrics.ChainAnchorsTotal.WithLabelValues("failure").Inc()
			return
		}
		slog.Info("land anchored on chain", "landId", land.LandID, "tx", txHash)
		metrics.ChainAnchorsTotal.WithLabelValues("success").Inc()
	}()
}

func landSummary(l *domain.Land) *dto.LandSummary {
	return &dto.LandSummary{
		LandID:             l.LandID,
		LandAddress:        l.LandAddress,
		Price:              l.Price,
		Description:        l.Description,
		GovernmentApproval: string(l.GovernmentApproval),
		Availability:       string(l.Availability),
	}
}
