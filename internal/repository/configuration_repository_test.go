package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/college-admin-api/internal/models"
)

func TestConfigurationRepositoryGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "updated_by", "updated_at"}).
		AddRow(models.ConfigKeyDefaultGovFee, "45000", "admin-1", time.Now())
	mock.ExpectQuery("SELECT key, value").
		WithArgs(models.ConfigKeyDefaultGovFee).
		WillReturnRows(rows)

	cfg, err := repo.Get(context.Background(), models.ConfigKeyDefaultGovFee)
	require.NoError(t, err)
	assert.Equal(t, "45000", cfg.Value)
}

func TestConfigurationRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigurationRepository(db)

	updatedBy := "admin-1"
	mock.ExpectExec("INSERT INTO configurations").
		WithArgs(models.ConfigKeyDefaultGovFee, "50000", &updatedBy, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cfg := &models.Configuration{Key: models.ConfigKeyDefaultGovFee, Value: "50000", UpdatedBy: &updatedBy}
	require.NoError(t, repo.Upsert(context.Background(), cfg))
	assert.False(t, cfg.UpdatedAt.IsZero())
}
