package database

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasight/portfolio-service/internal/models"
)

func TestManualAssetsRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	t.Run("CreateManualAsset creates asset", func(t *testing.T) {
		testDB.TruncateAll(t)

		a := &models.ManualAsset{
			Name:  "NSB Fixed Deposit",
			Type:  models.AssetTypeFD,
			Value: decimal.NewFromInt(500000),
			Notes: "matures 2027-03",
		}
		err := testDB.CreateManualAsset(a)
		require.NoError(t, err)
		assert.NotZero(t, a.ID)

		assets, err := testDB.GetAllManualAssets()
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Equal(t, "NSB Fixed Deposit", assets[0].Name)
		assert.Equal(t, models.AssetTypeFD, assets[0].Type)
		assert.Equal(t, "matures 2027-03", assets[0].Notes)
	})

	t.Run("CreateManualAsset stores empty notes as NULL", func(t *testing.T) {
		testDB.TruncateAll(t)

		a := &models.ManualAsset{Name: "Wallet", Type: models.AssetTypeCash, Value: decimal.NewFromInt(2500)}
		require.NoError(t, testDB.CreateManualAsset(a))

		assets, err := testDB.GetAllManualAssets()
		require.NoError(t, err)
		require.Len(t, assets, 1)
		assert.Empty(t, assets[0].Notes)
	})

	t.Run("UpdateManualAsset applies partial update", func(t *testing.T) {
		testDB.TruncateAll(t)

		a := &models.ManualAsset{Name: "Bond", Type: models.AssetTypeBond, Value: decimal.NewFromInt(100000)}
		require.NoError(t, testDB.CreateManualAsset(a))

		newValue := decimal.NewFromInt(110000)
		updated, err := testDB.UpdateManualAsset(a.ID, ManualAssetUpdate{Value: &newValue})
		require.NoError(t, err)

		assert.True(t, updated.Value.Equal(newValue))
		assert.Equal(t, "Bond", updated.Name, "untouched fields keep their values")
		assert.Equal(t, models.AssetTypeBond, updated.Type)
	})

	t.Run("UpdateManualAsset returns error for unknown id", func(t *testing.T) {
		testDB.TruncateAll(t)

		name := "renamed"
		_, err := testDB.UpdateManualAsset(99999, ManualAssetUpdate{Name: &name})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("DeleteManualAsset removes asset", func(t *testing.T) {
		testDB.TruncateAll(t)

		a := &models.ManualAsset{Name: "Old FD", Type: models.AssetTypeFD, Value: decimal.NewFromInt(1)}
		require.NoError(t, testDB.CreateManualAsset(a))

		require.NoError(t, testDB.DeleteManualAsset(a.ID))

		err := testDB.DeleteManualAsset(a.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
