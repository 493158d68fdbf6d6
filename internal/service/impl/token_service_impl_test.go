package impl

import (
	"context"
	"testing"
	"time"

	"landregistry/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testTokenService(ttl time.Duration) *TokenServiceImpl {
	return NewTokenServiceHS256(TokenConfig{
		Issuer:     "landregistry-test",
		Audience:   "landregistry-clients",
		TTL:        ttl,
		SigningKey: []byte("test-secret"),
	})
}

func testUser() *domain.User {
	return &domain.User{
		ID:            uuid.New(),
		Email:         "asha@example.com",
		Role:          domain.RoleUser,
		WalletAddress: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
	}
}

func TestIssueAndVerify(t *testing.T) {
	svc := testTokenService(time.Hour)
	user := testUser()

	token, expiresAt, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	actor, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, user.ID, actor.UserID)
	require.Equal(t, user.Email, actor.Email)
	require.Equal(t, user.Role, actor.Role)
	require.Equal(t, user.WalletAddress, actor.WalletAddress)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := testTokenService(time.Hour)

	token, _, err := svc.Issue(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token+"x")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Verify(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	svc := testTokenService(time.Hour)
	other := NewTokenServiceHS256(TokenConfig{
		Issuer:     "landregistry-test",
		Audience:   "landregistry-clients",
		TTL:        time.Hour,
		SigningKey: []byte("different-secret"),
	})

	token, _, err := other.Issue(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := testTokenService(-time.Minute)

	token, _, err := svc.Issue(context.Background(), testUser())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	svc := testTokenService(time.Hour)
	user := testUser()
	user.Role = domain.Role("superadmin")

	token, _, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.Error(t, err)
}
