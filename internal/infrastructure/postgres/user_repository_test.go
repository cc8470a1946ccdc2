package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bagaswh/go-auth-service/internal/domain/entity"
	"github.com/bagaswh/go-auth-service/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_Create(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "ann@x.com", "$2a$10$hash").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("7b7e2f8e-0000-0000-0000-000000000001", now, now))

	repo := NewUserRepository(mock)
	u := &entity.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$10$hash"}
	err := repo.Create(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, "7b7e2f8e-0000-0000-0000-000000000001", u.ID)
	assert.Equal(t, now, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "ann@x.com", "$2a$10$hash").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"})

	repo := NewUserRepository(mock)
	err := repo.Create(context.Background(), &entity.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "$2a$10$hash"})

	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at, updated_at\s+FROM users\s+WHERE email`).
		WithArgs("ann@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("id-1", "Ann", "ann@x.com", "$2a$10$hash", now, now))

	repo := NewUserRepository(mock)
	u, err := repo.GetByEmail(context.Background(), "ann@x.com")

	require.NoError(t, err)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "$2a$10$hash", u.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at, updated_at\s+FROM users\s+WHERE id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewUserRepository(mock)
	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_QueryError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at, updated_at\s+FROM users\s+WHERE email`).
		WithArgs("ann@x.com").
		WillReturnError(errors.New("connection refused"))

	repo := NewUserRepository(mock)
	_, err := repo.GetByEmail(context.Background(), "ann@x.com")

	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
