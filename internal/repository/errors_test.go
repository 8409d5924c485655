package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(&pgconn.PgError{Code: pgUniqueViolation}))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: users.username")))

	assert.False(t, isDuplicateKey(errors.New("connection refused")))
	assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
}

func TestTranslateError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, translateError(nil, "taken"))

	err := translateError(gorm.ErrDuplicatedKey, "Username or email already taken")
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.Contains(t, err.Error(), "already taken")

	err = translateError(errors.New("disk full"), "taken")
	assert.Equal(t, models.CodeInternal, models.ErrorCode(err))
}

// TestUserRepository_PostgresUniqueViolation drives the Postgres
// driver with a mocked connection to make sure a 23505 surfacing from
// the real database also lands as Conflict.
func TestUserRepository_PostgresUniqueViolation(t *testing.T) {
	t.Parallel()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_users_username"})

	repo := NewUserRepository(db)
	createErr := repo.Create(context.Background(), &models.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	})
	require.Error(t, createErr)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(createErr))
	require.NoError(t, mock.ExpectationsWereMet())
}
