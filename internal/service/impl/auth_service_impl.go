package impl

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"landregistry/internal/domain"
	"landregistry/internal/dto"
	"landregistry/internal/observability/metrics"
	"landregistry/internal/service"
	"landregistry/internal/store"

	"github.com/google/uuid"
)

var (
	emailPattern  = regexp.MustCompile(`^([A-Za-z0-9_\-.])+@([A-Za-z0-9_\-.])+\.([A-Za-z]{2,4})$`)
	walletPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// Registrar profile defaults applied when government registration omits
// optional fields.
const (
	defaultRegistrarName  = "Government Registrar"
	defaultRegistrarEmail = "registrar@landregistry.gov"
)

type AuthServiceImpl struct {
	Store           authDataStore
	PasswordService service.PasswordService
	Tokens          service.TokenService
}

func NewAuthServiceImpl(st *store.Store, passwordService service.PasswordService, tokens service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           gormAuthStoreAdapter{store: st},
		PasswordService: passwordService,
		Tokens:          tokens,
	}
}

// Narrow store interfaces keep the service testable against in-memory
// fakes without a database.

type authDataStore interface {
	WithTx(ctx context.Context, fn func(tx authStoreTx) error) error
}

type authStoreTx interface {
	Users() userStore
	Credentials() credentialStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByWallet(ctx context.Context, wallet string) (*domain.User, error)
	GovernmentExists(ctx context.Context) (bool, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Save(ctx context.Context, usr *domain.User) error
	SetLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type credentialStore interface {
	UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error
	GetPasswordByUserID(ctx context.Context, userID uuid.UUID) (*domain.PasswordCredential, error)
}

type gormAuthStoreAdapter struct {
	store *store.Store
}

func (g gormAuthStoreAdapter) WithTx(ctx context.Context, fn func(tx authStoreTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormAuthTxAdapter{tx: tx})
	})
}

type gormAuthTxAdapter struct {
	tx *store.Store
}

func (g gormAuthTxAdapter) Users() userStore             { return g.tx.Users() }
func (g gormAuthTxAdapter) Credentials() credentialStore { return g.tx.Credentials() }

func (a *AuthServiceImpl) Signup(ctx context.Context, r dto.SignupRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.SignupsTotal.WithLabelValues(result).Inc()
	}()

	if err := validateSignup(r); err != nil {
		result = "failure"
		return nil, err
	}

	var created *domain.User
	err := a.Store.WithTx(ctx, func(tx authStoreTx) error {
		if _, err := tx.Users().GetByEmail(ctx, r.Email); err == nil {
			return domain.ErrDuplicateEmail
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if _, err := tx.Users().GetByWallet(ctx, r.WalletAddress); err == nil {
			return domain.ErrDuplicateWallet
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		u := &domain.User{
			ID:            uuid.New(),
			Name:          r.Name,
			Email:         strings.ToLower(r.Email),
			Contact:       r.Contact,
			Address:       r.Address,
			City:          r.City,
			PostalCode:    r.PostalCode,
			Role:          domain.RoleUser,
			WalletAddress: r.WalletAddress,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		if err := a.storeCredential(ctx, tx, u.ID, r.Password); err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	token, _, err := a.Tokens.Issue(ctx, created)
	if err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "user registered successfully",
		Token:   token,
		User:    summarize(created),
	}, nil
}

func (a *AuthServiceImpl) RegisterGovernment(ctx context.Context, r dto.GovernmentSignupRequest) error {
	if !walletPattern.MatchString(r.WalletAddress) {
		return domain.ErrInvalidWallet
	}
	if len(r.Password) < 8 {
		return domain.ErrPasswordLength
	}

	return a.Store.WithTx(ctx, func(tx authStoreTx) error {
		exists, err := tx.Users().GovernmentExists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrGovernmentExists
		}

		now := time.Now().UTC()
		u := &domain.User{
			ID:            uuid.New(),
			Name:          orDefault(r.Name, defaultRegistrarName),
			Email:         strings.ToLower(orDefault(r.Email, defaultRegistrarEmail)),
			Contact:       r.Contact,
			Address:       r.Address,
			City:          r.City,
			PostalCode:    r.PostalCode,
			Role:          domain.RoleGovernment,
			WalletAddress: r.WalletAddress,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		return a.storeCredential(ctx, tx, u.ID, r.Password)
	})
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	if r.Email == "" || r.Password == "" {
		result = "failure"
		return nil, domain.ErrMissingCredentials
	}

	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx authStoreTx) error {
		u, err := tx.Users().GetByEmail(ctx, r.Email)
		if err != nil {
			return domain.ErrInvalidCredentials // don't leak which field failed
		}
		if !u.IsActive {
			return domain.ErrAccountDeactivated
		}

		cred, err := tx.Credentials().GetPasswordByUserID(ctx, u.ID)
		if err != nil {
			return domain.ErrInvalidCredentials
		}

		rehashNeeded, ok := a.PasswordService.Verify(r.Password, cred)
		if !ok {
			return domain.ErrInvalidCredentials
		}
		if rehashNeeded {
			if err := a.storeCredential(ctx, tx, u.ID, r.Password); err != nil {
				return err
			}
		}

		if err := tx.Users().SetLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		result = "failure"
		return nil, err
	}

	token, _, err := a.Tokens.Issue(ctx, user)
	if err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Message: "login successful",
		Token:   token,
		User:    summarize(user),
	}, nil
}

func (a *AuthServiceImpl) Profile(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx authStoreTx) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		user = u
		return nil
	})
	return user, err
}

func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, userID domain.UserID, r dto.UpdateProfileRequest) (*domain.User, error) {
	var user *domain.User
	err := a.Store.WithTx(ctx, func(tx authStoreTx) error {
		u, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}
		if r.Name != "" {
			u.Name = r.Name
		}
		if r.Contact != "" {
			u.Contact = r.Contact
		}
		if r.Address != "" {
			u.Address = r.Address
		}
		if r.City != "" {
			u.City = r.City
		}
		if r.PostalCode != "" {
			u.PostalCode = r.PostalCode
		}
		u.UpdatedAt = time.Now().UTC()
		if err := tx.Users().Save(ctx, u); err != nil {
			return err
		}
		user = u
		return nil
	})
	return user, err
}

func (a *AuthServiceImpl) ListUsers(ctx context.Context, caller domain.Actor) ([]domain.User, error) {
	if !caller.Role.CanViewAnyUser() {
		return nil, domain.ErrGovernmentOnly
	}
	var users []domain.User
	err := a.Store.WithTx(ctx, func(tx authStoreTx) error {
		var err error
		users, err = tx.Users().ListByRole(ctx, domain.RoleUser)
		return err
	})
	return users, err
}

func (a *AuthServiceImpl) storeCredential(ctx context.Context, tx authStoreTx, userID domain.UserID, password string) error {
	hash, salt, paramsJSON, algo, ver, err := a.PasswordService.Hash(password)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return tx.Credentials().UpsertPassword(ctx, &domain.PasswordCredential{
		ID:          uuid.New(),
		UserID:      userID,
		Algo:        algo,
		Hash:        hash,
		Salt:        salt,
		ParamsJSON:  paramsJSON,
		PasswordVer: ver,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func validateSignup(r dto.SignupRequest) error {
	if r.Name == "" || r.Email == "" || r.Contact == "" || r.Address == "" ||
		r.City == "" || r.PostalCode == "" || r.WalletAddress == "" || r.Password == "" {
		return domain.ErrMissingFields
	}
	if !emailPattern.MatchString(r.Email) {
		return domain.ErrInvalidEmail
	}
	if !walletPattern.MatchString(r.WalletAddress) {
		return domain.ErrInvalidWallet
	}
	if len(r.Password) < 8 {
		return domain.ErrPasswordLength
	}
	return nil
}

func summarize(u *domain.User) dto.UserSummary {
	return dto.UserSummary{
		ID:            u.ID.String(),
		Name:          u.Name,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		Role:          string(u.Role),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
