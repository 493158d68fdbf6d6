package impl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"landregistry/internal/domain"
	"landregistry/internal/observability/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	Audience   string
	TTL        time.Duration // 24h unless configured otherwise
	SigningKey []byte        // HS256 secret
}

// RegistryClaims is the bearer-token payload attached to every
// authenticated request.
type RegistryClaims struct {
	UserID        string `json:"userId"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	WalletAddress string `json:"walletAddress"`
	jwt.RegisteredClaims
}

type TokenServiceImpl struct {
	cfg TokenConfig
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg}
}

func (t *TokenServiceImpl) Issue(ctx context.Context, user *domain.User) (string, time.Time, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()

	now := time.Now().UTC()
	expiresAt := now.Add(t.cfg.TTL)

	claims := RegistryClaims{
		UserID:        user.ID.String(),
		Email:         user.Email,
		Role:          string(user.Role),
		WalletAddress: user.WalletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SigningKey)
	if err != nil {
		result = "failure"
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (t *TokenServiceImpl) Verify(ctx context.Context, token string) (*domain.Actor, error) {
	var claims RegistryClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", tok.Method)
		}
		return t.cfg.SigningKey, nil
	}, jwt.WithIssuer(t.cfg.Issuer))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("malformed userId claim")
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return nil, errors.New("malformed role claim")
	}

	return &domain.Actor{
		UserID:        userID,
		Email:         claims.Email,
		Role:          role,
		WalletAddress: claims.WalletAddress,
	}, nil
}
