package impl

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"landregistry/internal/domain"
	"landregistry/internal/dto"
	"landregistry/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryAuthStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	creds map[uuid.UUID]*domain.PasswordCredential
}

func newMemoryAuthStore() *memoryAuthStore {
	return &memoryAuthStore{
		users: make(map[uuid.UUID]*domain.User),
		creds: make(map[uuid.UUID]*domain.PasswordCredential),
	}
}

func (m *memoryAuthStore) WithTx(ctx context.Context, fn func(tx authStoreTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m)
}

func (m *memoryAuthStore) Users() userStore             { return m }
func (m *memoryAuthStore) Credentials() credentialStore { return m }

func (m *memoryAuthStore) Create(ctx context.Context, usr *domain.User) error {
	cp := *usr
	m.users[usr.ID] = &cp
	return nil
}

func (m *memoryAuthStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryAuthStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memoryAuthStore) GetByWallet(ctx context.Context, wallet string) (*domain.User, error) {
	for _, u := range m.users {
		if u.WalletAddress == wallet {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func (m *memoryAuthStore) GovernmentExists(ctx context.Context) (bool, error) {
	for _, u := range m.users {
		if u.Role == domain.RoleGovernment {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAuthStore) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memoryAuthStore) Save(ctx context.Context, usr *domain.User) error {
	cp := *usr
	m.users[usr.ID] = &cp
	return nil
}

func (m *memoryAuthStore) SetLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	if u, ok := m.users[userID]; ok {
		t := at
		u.LastLoginAt = &t
	}
	return nil
}

func (m *memoryAuthStore) UpsertPassword(ctx context.Context, c *domain.PasswordCredential) error {
	cp := *c
	m.creds[c.UserID] = &cp
	return nil
}

func (m *memoryAuthStore) GetPasswordByUserID(ctx context.Context, userID uuid.UUID) (*domain.PasswordCredential, error) {
	c, ok := m.creds[userID]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func newAuthService(ms *memoryAuthStore) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:           ms,
		PasswordService: NewPasswordServiceArgon2id(),
		Tokens: NewTokenServiceHS256(TokenConfig{
			Issuer:     "landregistry-test",
			Audience:   "landregistry-clients",
			TTL:        time.Hour,
			SigningKey: []byte("test-secret"),
		}),
	}
}

func validSignup() dto.SignupRequest {
	return dto.SignupRequest{
		Name:          "Asha Varma",
		Email:         "Asha@Example.COM",
		Contact:       "9876543210",
		Address:       "12 Harbour Road",
		City:          "Kochi",
		PostalCode:    "682001",
		WalletAddress: "0x" + strings.Repeat("ab", 20),
		Password:      "correct horse battery",
	}
}

func TestSignup(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	res, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "asha@example.com", res.User.Email)
	require.Equal(t, string(domain.RoleUser), res.User.Role)

	// Credential lands next to the user.
	id, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)
	cred, err := ms.GetPasswordByUserID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "argon2id", cred.Algo)
	require.NotEmpty(t, cred.Hash)
}

func TestSignupValidation(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	cases := []struct {
		name   string
		mutate func(*dto.SignupRequest)
		want   error
	}{
		{"missing name", func(r *dto.SignupRequest) { r.Name = "" }, domain.ErrMissingFields},
		{"missing contact", func(r *dto.SignupRequest) { r.Contact = "" }, domain.ErrMissingFields},
		{"bad email", func(r *dto.SignupRequest) { r.Email = "not-an-email" }, domain.ErrInvalidEmail},
		{"bad wallet", func(r *dto.SignupRequest) { r.WalletAddress = "0x123" }, domain.ErrInvalidWallet},
		{"short password", func(r *dto.SignupRequest) { r.Password = "short" }, domain.ErrPasswordLength},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSignup()
			tc.mutate(&req)
			_, err := svc.Signup(context.Background(), req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSignupDuplicates(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	dup := validSignup()
	_, err = svc.Signup(context.Background(), dup)
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	dup = validSignup()
	dup.Email = "other@example.com"
	_, err = svc.Signup(context.Background(), dup)
	require.ErrorIs(t, err, domain.ErrDuplicateWallet)
}

func TestRegisterGovernment(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	req := dto.GovernmentSignupRequest{
		WalletAddress: "0x" + strings.Repeat("cd", 20),
		Password:      "registrar-secret",
	}
	require.NoError(t, svc.RegisterGovernment(context.Background(), req))

	u, err := ms.GetByWallet(context.Background(), req.WalletAddress)
	require.NoError(t, err)
	require.Equal(t, domain.RoleGovernment, u.Role)
	require.Equal(t, defaultRegistrarName, u.Name)
	require.Equal(t, defaultRegistrarEmail, u.Email)

	// Only one registrar account.
	req.WalletAddress = "0x" + strings.Repeat("ef", 20)
	err = svc.RegisterGovernment(context.Background(), req)
	require.ErrorIs(t, err, domain.ErrGovernmentExists)
}

func TestRegisterGovernmentValidation(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	err := svc.RegisterGovernment(context.Background(), dto.GovernmentSignupRequest{
		WalletAddress: "nope", Password: "registrar-secret",
	})
	require.ErrorIs(t, err, domain.ErrInvalidWallet)

	err = svc.RegisterGovernment(context.Background(), dto.GovernmentSignupRequest{
		WalletAddress: "0x" + strings.Repeat("cd", 20), Password: "short",
	})
	require.ErrorIs(t, err, domain.ErrPasswordLength)
}

func TestLogin(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	signup := validSignup()
	_, err := svc.Signup(context.Background(), signup)
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    signup.Email,
		Password: signup.Password,
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotEmpty(t, res.Token)

	id, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)
	require.NotNil(t, ms.users[id].LastLoginAt)
}

func TestLoginFailures(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	signup := validSignup()
	res, err := svc.Signup(context.Background(), signup)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: signup.Email})
	require.ErrorIs(t, err, domain.ErrMissingCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: signup.Email, Password: "wrong password"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	id, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)
	ms.users[id].IsActive = false
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: signup.Email, Password: signup.Password})
	require.ErrorIs(t, err, domain.ErrAccountDeactivated)
}

func TestLoginRehashesStaleCredential(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	signup := validSignup()
	res, err := svc.Signup(context.Background(), signup)
	require.NoError(t, err)

	id, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)
	ms.creds[id].PasswordVer = 0

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: signup.Email, Password: signup.Password})
	require.NoError(t, err)
	require.Equal(t, 1, ms.creds[id].PasswordVer)
}

func TestUpdateProfile(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	res, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	id, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), id, dto.UpdateProfileRequest{
		Name: "Asha V.",
		City: "Thrissur",
	})
	require.NoError(t, err)
	require.Equal(t, "Asha V.", updated.Name)
	require.Equal(t, "Thrissur", updated.City)
	// Untouched fields survive.
	require.Equal(t, "12 Harbour Road", updated.Address)

	_, err = svc.UpdateProfile(context.Background(), uuid.New(), dto.UpdateProfileRequest{Name: "Ghost"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfileNotFound(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	_, err := svc.Profile(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	ms := newMemoryAuthStore()
	svc := newAuthService(ms)

	res, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	id, err := uuid.Parse(res.User.ID)
	require.NoError(t, err)

	user := domain.Actor{UserID: id, Role: domain.RoleUser}
	_, err = svc.ListUsers(context.Background(), user)
	require.ErrorIs(t, err, domain.ErrGovernmentOnly)

	gov := domain.Actor{UserID: uuid.New(), Role: domain.RoleGovernment}
	users, err := svc.ListUsers(context.Background(), gov)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, domain.RoleUser, users[0].Role)
}
