package application

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bagaswh/go-auth-service/internal/domain/entity"
	repo "github.com/bagaswh/go-auth-service/internal/domain/repository"
	"github.com/bagaswh/go-auth-service/pkg/helpers"
)

// memoryRepo is an in-memory UserRepository with the same uniqueness
// semantics as the Postgres implementation.
type memoryRepo struct {
	mu      sync.Mutex
	seq     int
	byID    map[string]*entity.User
	byEmail map[string]*entity.User
	failAll bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[string]*entity.User{}, byEmail: map[string]*entity.User{}}
}

var errStoreDown = errors.New("store unavailable")

func (m *memoryRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errStoreDown
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	m.seq++
	u.ID = "user-" + strconv.Itoa(m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errStoreDown
	}
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func newTestService() (*AuthService, *memoryRepo) {
	r := newMemoryRepo()
	jwt := helpers.NewJWTManager([]string{"test-secret"}, time.Hour)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAuthService(r, jwt, logger, bcrypt.MinCost), r
}

func TestSignup_StoresHashNotPlaintext(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "secret1"))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Signup(context.Background(), "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Ann Again", "ann@x.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, store.count(), "store must be unchanged after a conflict")
}

func TestSignupThenLogin_TokenVerifies(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	u, token, exp, err := svc.Login(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.JWT.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	ok, err := svc.TokenIsValid(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "ann@x.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail_SameErrorKind(t *testing.T) {
	svc, _ := newTestService()

	_, _, _, err := svc.Login(context.Background(), "ghost@x.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenIsValid_Table(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	_, goodToken, _, err := svc.Login(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)

	foreign := helpers.NewJWTManager([]string{"someone-elses-secret"}, time.Hour)
	forged, _, err := foreign.Issue(created.ID)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"empty token", "", false},
		{"malformed token", "not.a.jwt", false},
		{"foreign signature", forged, false},
		{"valid token", goodToken, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.TokenIsValid(ctx, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// A valid token for a since-deleted user resolves to false.
	delete(store.byID, created.ID)
	delete(store.byEmail, created.Email)
	got, err := svc.TokenIsValid(ctx, goodToken)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestTokenIsValid_StoreFailureIsAnError(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)
	_, token, _, err := svc.Login(ctx, "ann@x.com", "secret1")
	require.NoError(t, err)

	store.failAll = true
	_, err = svc.TokenIsValid(ctx, token)
	assert.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, "Ann", "ann@x.com", "secret1")
	require.NoError(t, err)

	u, err := svc.GetProfile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", u.Email)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
