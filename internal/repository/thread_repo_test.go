package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadPurchaseRepository_DeleteChildren(t *testing.T) {
	gormDB, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewThreadPurchaseRepository(gormDB)

	purchaseID := uuid.New()

	// Dyeing-linked PRODUCTION movements go first so no transaction is left
	// pointing at a deleted process.
	mock.ExpectExec(`DELETE FROM "inventory_transactions" WHERE dyeing_process_id IN \(SELECT .* FROM "dyeing_processes" WHERE thread_purchase_id = \$1\)`).
		WithArgs(purchaseID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "inventory_transactions" WHERE thread_purchase_id = \$1`).
		WithArgs(purchaseID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "payments" WHERE thread_purchase_id = \$1`).
		WithArgs(purchaseID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "dyeing_processes" WHERE thread_purchase_id = \$1`).
		WithArgs(purchaseID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.DeleteChildren(context.Background(), purchaseID)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
