package store_test

import (
	"context"
	"testing"
	"time"

	"landregistry/internal/domain"
	"landregistry/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	st := store.New(db)
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return st
}

func seedStoreUser(t *testing.T, st *store.Store, role domain.Role, email, wallet string) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:          "Test User",
		Email:         email,
		Contact:       "9876543210",
		Address:       "12 Harbour Road",
		City:          "Kochi",
		PostalCode:    "682001",
		Role:          role,
		WalletAddress: wallet,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, st.Users().Create(context.Background(), u))
	return u
}

func seedStoreLand(t *testing.T, st *store.Store, owner *domain.User, landID int64, address string, mutate func(*domain.Land)) *domain.Land {
	t.Helper()
	now := time.Now().UTC()
	l := &domain.Land{
		LandID:             landID,
		OwnerID:            owner.ID,
		OwnerWalletAddress: owner.WalletAddress,
		LandAddress:        address,
		Price:              100_000,
		Description:        "test parcel",
		Details:            domain.LandDetails{Area: "2 acres", State: "Kerala", City: "Kochi"},
		GovernmentApproval: domain.ApprovalPending,
		Availability:       domain.NotAvailable,
		RequestStatus:      domain.RequestDefault,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if mutate != nil {
		mutate(l)
	}
	require.NoError(t, st.Lands().Create(context.Background(), l))
	return l
}

func TestUserStoreRoundTrip(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u := seedStoreUser(t, st, domain.RoleUser, "Asha@Example.COM", "0xwallet1")

	byEmail, err := st.Users().GetByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
	require.Equal(t, "asha@example.com", byEmail.Email)

	byWallet, err := st.Users().GetByWallet(ctx, "0xwallet1")
	require.NoError(t, err)
	require.Equal(t, u.ID, byWallet.ID)

	_, err = st.Users().GetByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrRecordNotFound)

	_, err = st.Users().GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestGovernmentExists(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	exists, err := st.Users().GovernmentExists(ctx)
	require.NoError(t, err)
	require.False(t, exists)

	seedStoreUser(t, st, domain.RoleGovernment, "registrar@landregistry.gov", "0xgov")

	exists, err = st.Users().GovernmentExists(ctx)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestSetLastLogin(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")
	require.Nil(t, u.LastLoginAt)

	at := time.Now().UTC()
	require.NoError(t, st.Users().SetLastLogin(ctx, u.ID, at))

	got, err := st.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
}

func TestSequenceNext(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	first, err := st.Sequences().Next(ctx, store.SequenceLandID)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := st.Sequences().Next(ctx, store.SequenceLandID)
	require.NoError(t, err)
	require.Equal(t, int64(2), second)

	_, err = st.Sequences().Next(ctx, "missing")
	require.Error(t, err)
}

func TestSequenceEnsureIdempotent(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	_, err := st.Sequences().Next(ctx, store.SequenceLandID)
	require.NoError(t, err)

	// A second Ensure must not reset an advanced sequence.
	require.NoError(t, st.Sequences().Ensure(ctx, store.SequenceLandID))

	v, err := st.Sequences().Next(ctx, store.SequenceLandID)
	require.NoError(t, err)
	require.Equal(t, int64(2), v)
}

func TestCredentialUpsert(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	u := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")

	now := time.Now().UTC()
	require.NoError(t, st.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
		ID: uuid.New(), UserID: u.ID,
		Algo: "argon2id", Hash: []byte("h1"), Salt: []byte("s1"), ParamsJSON: []byte("{}"),
		PasswordVer: 1, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, st.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
		ID: uuid.New(), UserID: u.ID,
		Algo: "argon2id", Hash: []byte("h2"), Salt: []byte("s2"), ParamsJSON: []byte("{}"),
		PasswordVer: 2, CreatedAt: now, UpdatedAt: now,
	}))

	cred, err := st.Credentials().GetPasswordByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []byte("h2"), cred.Hash)
	require.Equal(t, 2, cred.PasswordVer)
}

func TestLandRoundTrip(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	owner := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")
	seedStoreLand(t, st, owner, 1, "  12 Harbour Road  ", func(l *domain.Land) {
		l.Details.Documents = domain.StringList{"doc-key-1"}
	})

	land, err := st.Lands().GetByLandID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "12 Harbour Road", land.LandAddress)
	require.Equal(t, domain.StringList{"doc-key-1"}, land.Details.Documents)
	require.NotNil(t, land.Owner)
	require.Equal(t, owner.ID, land.Owner.ID)

	exists, err := st.Lands().ExistsByAddress(ctx, "12 Harbour Road")
	require.NoError(t, err)
	require.True(t, exists)

	_, err = st.Lands().GetByLandID(ctx, 404)
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestListAvailableFilters(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	owner := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")

	listed := func(l *domain.Land) {
		l.GovernmentApproval = domain.ApprovalApproved
		l.Availability = domain.Available
	}
	seedStoreLand(t, st, owner, 1, "1 Cheap St", listed)
	seedStoreLand(t, st, owner, 2, "1 Pricey Ave", func(l *domain.Land) {
		listed(l)
		l.Price = 900_000
		l.Details.State = "Goa"
		l.Details.City = "Panaji"
	})
	seedStoreLand(t, st, owner, 3, "1 Hidden Ln", nil) // still pending

	lands, total, err := st.Lands().ListAvailable(ctx, store.LandFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, lands, 2)

	min := int64(500_000)
	lands, total, err = st.Lands().ListAvailable(ctx, store.LandFilter{MinPrice: &min})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "1 Pricey Ave", lands[0].LandAddress)

	lands, total, err = st.Lands().ListAvailable(ctx, store.LandFilter{City: "PANA"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, lands, 1)

	lands, total, err = st.Lands().ListAvailable(ctx, store.LandFilter{Page: 2, Limit: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, lands, 1)
}

func TestListPendingApproval(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	owner := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")
	seedStoreLand(t, st, owner, 1, "1 Main St", nil)
	seedStoreLand(t, st, owner, 2, "2 Main St", func(l *domain.Land) {
		l.GovernmentApproval = domain.ApprovalApproved
		l.Availability = domain.Available
	})

	lands, err := st.Lands().ListPendingApproval(ctx)
	require.NoError(t, err)
	require.Len(t, lands, 1)
	require.Equal(t, int64(1), lands[0].LandID)
}

func TestLandStats(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	owner := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")
	seedStoreLand(t, st, owner, 1, "1 Main St", nil)
	seedStoreLand(t, st, owner, 2, "2 Main St", func(l *domain.Land) {
		l.GovernmentApproval = domain.ApprovalApproved
		l.Availability = domain.Available
		l.Price = 300_000
	})

	stats, err := st.Lands().Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalLands)
	require.Equal(t, int64(400_000), stats.TotalValue)
	require.Equal(t, int64(1), stats.ApprovedLands)
	require.Equal(t, int64(1), stats.PendingLands)
	require.Equal(t, int64(1), stats.AvailableLands)
}

func TestWithTxRollsBack(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	owner := seedStoreUser(t, st, domain.RoleUser, "asha@example.com", "0xwallet1")

	errBoom := context.Canceled
	err := st.WithTx(ctx, func(tx *store.Store) error {
		seedStoreLand(t, tx, owner, 1, "1 Main St", nil)
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = st.Lands().GetByLandID(ctx, 1)
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}
