package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestRunInTxCommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := repo.RunInTx(context.Background(), func(tx TxStore) error {
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.RunInTx(context.Background(), func(tx TxStore) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSizeQuantityLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT quantity FROM product_sizes WHERE product_id = \$1 AND size = \$2 FOR UPDATE`).
		WithArgs(productID, "9").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(4))
	mock.ExpectCommit()

	err := repo.RunInTx(context.Background(), func(tx TxStore) error {
		quantity, found, err := tx.GetSizeQuantityForUpdate(context.Background(), productID, "9")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 4, quantity)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSizeQuantityMissingSize(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT quantity FROM product_sizes`).
		WithArgs(productID, "13").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	err := repo.RunInTx(context.Background(), func(tx TxStore) error {
		_, found, err := tx.GetSizeQuantityForUpdate(context.Background(), productID, "13")
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)
}

func TestDecrementSizeQuantityGuard(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE product_sizes SET quantity = quantity - \$1`).
		WithArgs(2, productID, "9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RunInTx(context.Background(), func(tx TxStore) error {
		return tx.DecrementSizeQuantity(context.Background(), productID, "9", 2)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementSizeQuantityGuardRejectsOversell(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPGRepository(db)
	productID := uuid.New()

	// The guarded UPDATE touches no rows when quantity < requested.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE product_sizes SET quantity = quantity - \$1`).
		WithArgs(5, productID, "9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RunInTx(context.Background(), func(tx TxStore) error {
		return tx.DecrementSizeQuantity(context.Background(), productID, "9", 5)
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
