package repository

import (
	"context"
	"testing"

	"textile-backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKhataRepository_FirstOrCreateByName(t *testing.T) {
	t.Run("returns the existing khata", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewKhataRepository(gormDB)

		existingID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "khatas" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Main Khata", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(existingID, "Main Khata"))

		khata := model.Khata{Name: "Main Khata"}
		err := repo.FirstOrCreateByName(context.Background(), &khata)

		require.NoError(t, err)
		assert.Equal(t, existingID, khata.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates when absent", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewKhataRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "khatas" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Main Khata", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		newID := uuid.New()
		mock.ExpectQuery(`INSERT INTO "khatas" .* ON CONFLICT \("name"\) DO NOTHING RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(newID))

		khata := model.Khata{Name: "Main Khata"}
		err := repo.FirstOrCreateByName(context.Background(), &khata)

		require.NoError(t, err)
		assert.Equal(t, newID, khata.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("converges on the concurrent winner", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewKhataRepository(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "khatas" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Main Khata", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		// Another caller inserted between the select and the insert; the
		// conflict clause swallows this insert.
		mock.ExpectQuery(`INSERT INTO "khatas" .* ON CONFLICT \("name"\) DO NOTHING RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		winnerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "khatas" WHERE name = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("Main Khata", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(winnerID, "Main Khata"))

		khata := model.Khata{Name: "Main Khata"}
		err := repo.FirstOrCreateByName(context.Background(), &khata)

		require.NoError(t, err)
		assert.Equal(t, winnerID, khata.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
