package repository

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestVariantRepository_ProductIDsByColors(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewVariantRepository(testDB)

	shirt := createProduct(t, testDB, model.Product{Name: "Shirt", Price: 20})
	hat := createProduct(t, testDB, model.Product{Name: "Hat", Price: 15})
	createColorVariant(t, testDB, shirt.ID, "SHI-GE-0001", "red", "#ff0000")
	createColorVariant(t, testDB, shirt.ID, "SHI-GE-0002", "blue", "#0000ff")
	createColorVariant(t, testDB, hat.ID, "HAT-GE-0001", "blue", "#0000ff")

	ids, err := repo.ProductIDsByColors([]string{"blue", "red"})
	require.NoError(t, err)
	assert.Equal(t, []uint{shirt.ID, hat.ID}, ids)

	ids, err = repo.ProductIDsByColors([]string{"red"})
	require.NoError(t, err)
	assert.Equal(t, []uint{shirt.ID}, ids)

	ids, err = repo.ProductIDsByColors([]string{"M"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestVariantRepository_DistinctColors(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewVariantRepository(testDB)

	shirt := createProduct(t, testDB, model.Product{Name: "Shirt", Price: 20})
	createColorVariant(t, testDB, shirt.ID, "SHI-GE-0001", "red", "#ff0000")
	createColorVariant(t, testDB, shirt.ID, "SHI-GE-0002", "blue", "#0000ff")
	createColorVariant(t, testDB, shirt.ID, "SHI-GE-0003", "blue", "#0000ff")

	colors, err := repo.DistinctColors()
	require.NoError(t, err)
	assert.Equal(t, []ColorOption{
		{HexCode: "#0000ff", DisplayName: "blue", Value: "blue"},
		{HexCode: "#ff0000", DisplayName: "red", Value: "red"},
	}, colors)
}

func TestVariantRepository_ScopedToProduct(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewVariantRepository(testDB)

	shirt := createProduct(t, testDB, model.Product{Name: "Shirt", Price: 20})
	hat := createProduct(t, testDB, model.Product{Name: "Hat", Price: 15})
	v := createColorVariant(t, testDB, shirt.ID, "SHI-GE-0001", "red", "#ff0000")

	_, err := repo.FindByIDAndProduct(v.ID, hat.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(v.ID, hat.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(v.ID, shirt.ID))
	var options int64
	require.NoError(t, testDB.Model(&model.VariantOption{}).Count(&options).Error)
	assert.Zero(t, options)
}

func TestVariantRepository_UpdateReplacesOptions(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewVariantRepository(testDB)

	shirt := createProduct(t, testDB, model.Product{Name: "Shirt", Price: 20})
	v := createColorVariant(t, testDB, shirt.ID, "SHI-GE-0001", "red", "#ff0000")

	v.BasePrice = 25
	require.NoError(t, repo.Update(v, []model.VariantOption{
		{Type: model.OptionColor, Name: "Color", Value: "green", HexCode: "#00ff00"},
	}))

	found, err := repo.FindByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, found.BasePrice)
	require.Len(t, found.Options, 1)
	assert.Equal(t, "green", found.Options[0].Value)

	found.Name = "Renamed"
	require.NoError(t, repo.Update(found, nil))
	found, err = repo.FindByID(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.Name)
	assert.Len(t, found.Options, 1)
}
