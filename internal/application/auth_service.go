package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bagaswh/go-auth-service/internal/domain/entity"
	repo "github.com/bagaswh/go-auth-service/internal/domain/repository"
	"github.com/bagaswh/go-auth-service/pkg/helpers"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService orchestrates signup, login, and token verification over
// the user repository, the bcrypt hasher, and the JWT codec.
type AuthService struct {
	Repo       repo.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	BcryptCost int
}

func NewAuthService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Logger: logger, BcryptCost: bcryptCost}
}

// Signup registers a new user. The email pre-check keeps the common
// duplicate case from paying for a hash; the unique constraint in the
// store settles races between concurrent signups.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password, s.BcryptCost)
	if err != nil {
		s.Logger.WithError(err).Error("password hashing failed")
		return nil, err
	}

	u := &entity.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login validates credentials and issues a session token. Lookup,
// verification, and issuance run strictly in that order.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Burn a comparison so an unknown email costs about as
			// much as a wrong password.
			helpers.DummyCompare(password)
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}

	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Issue(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("token issuance failed")
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

// TokenIsValid reports whether the token verifies and still resolves to
// an existing user. Bad tokens are a false result, not an error; only a
// store failure surfaces as an error.
func (s *AuthService) TokenIsValid(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return false, nil
	}
	if _, err := s.Repo.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetProfile returns the user for an authenticated subject id.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
