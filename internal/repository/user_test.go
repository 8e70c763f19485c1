package repository

import (
	"context"
	"regexp"
	"testing"

	"snapmatch/internal/cache"
	"snapmatch/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// useTestCache points the cache package at a throwaway miniredis instance.
func useTestCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	old := cache.GetClient()
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(old) })
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username`)).
			WithArgs("alice", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username`)).
			WithArgs("ghost", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

		user, err := repo.GetByUsername(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_CreateWithProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("user and profile inserted in one transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "profiles"`)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(12))
		mock.ExpectCommit()

		user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
		profile := &models.Profile{Gender: "female", Age: 27, Hobby: "painting", Contacts: "@alice"}

		err := repo.CreateWithProfile(ctx, user, profile)
		require.NoError(t, err)
		assert.Equal(t, uint(12), profile.UserID, "profile should be bound to the new user id")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username surfaces as conflict", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
			WillReturnError(assertUniqueViolation())
		mock.ExpectRollback()

		user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash"}
		err := repo.CreateWithProfile(ctx, user, &models.Profile{Gender: "f", Age: 1, Hobby: "h", Contacts: "c"})
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "CONFLICT", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// assertUniqueViolation fabricates the error text PostgreSQL emits for
// SQLSTATE 23505.
func assertUniqueViolation() error {
	return &mockDBError{msg: `duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`}
}

type mockDBError struct{ msg string }

func (e *mockDBError) Error() string { return e.msg }

// A user served from the cache has been through json.Marshal, which drops
// the password hash. A username change after such a read must still leave
// the stored hash untouched, so the UPDATE may only touch the username
// column.
func TestUserRepository_UpdateUsernamePreservesPassword(t *testing.T) {
	useTestCache(t)
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	const hash = "$2a$10$N9qo8uLOickgx2ZMRZoMye"

	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(4, "oldname", "old@example.com", hash)
	}

	// First read populates the cache from the DB.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(4, 1).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, 4))

	user, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, hash, user.Password)

	// Second read is a cache hit (no DB expectation registered) and comes
	// back without the hash.
	cached, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, cached.Password)

	// The rename writes the username column only.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "username"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs("newname", sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateUsername(ctx, cached.ID, "newname"))

	// The rename invalidated the cache entry, so the next read goes back to
	// the DB, where the hash is still present.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(4, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password"}).
			AddRow(4, "newname", "old@example.com", hash))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, 4))

	fresh, err := repo.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, hash, fresh.Password)
	assert.Equal(t, "newname", fresh.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUsernameMissingUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "username"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs("ghostname", sqlmock.AnyArg(), 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateUsername(context.Background(), 99, "ghostname")
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("removes users with their posts, likes and profiles", func(t *testing.T) {
		mock.ExpectBegin()
		// likes pointing at the users' posts
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		// likes given by the users
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts"`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "profiles"`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "users"`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		deleted, err := repo.DeleteCascade(ctx, []uint{4, 9})
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty id set is a no-op", func(t *testing.T) {
		deleted, err := repo.DeleteCascade(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_IsAdmin(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "is_admin" FROM "users"`)).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"is_admin"}).AddRow(true))

	admin, err := repo.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, admin)
	assert.NoError(t, mock.ExpectationsWereMet())
}
