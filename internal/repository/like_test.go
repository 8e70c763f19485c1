package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeRepository_Add(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	t.Run("inserts a like", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Add(ctx, 1, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate like is a no-op via ON CONFLICT", func(t *testing.T) {
		// Conflict path: the statement succeeds but affects zero rows.
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.Add(ctx, 1, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLikeRepository_Remove(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	t.Run("deletes the like when present", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
			WithArgs(1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Remove(ctx, 1, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removing a missing like is a no-op", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes"`)).
			WithArgs(1, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		require.NoError(t, repo.Remove(ctx, 1, 99))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLikeRepository_CountByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE user_id`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_PostIDsByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "post_id" FROM "likes" WHERE user_id`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(10).AddRow(11).AddRow(12))

	ids, err := repo.PostIDsByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 11, 12}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeRepository_IsLiked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "likes" WHERE user_id`)).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	liked, err := repo.IsLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
