package repository

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistRepository_AddIsIdempotent(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewWishlistRepository(testDB)

	user := createUser(t, testDB, "jane")
	lamp := createProduct(t, testDB, model.Product{Name: "Lamp", Price: 40})
	desk := createProduct(t, testDB, model.Product{Name: "Desk", Price: 300})

	wishlist := &model.Wishlist{UserID: user.ID}
	require.NoError(t, repo.Create(wishlist))

	require.NoError(t, repo.AddItem(wishlist.ID, lamp.ID))
	require.NoError(t, repo.AddItem(wishlist.ID, desk.ID))
	require.NoError(t, repo.AddItem(wishlist.ID, lamp.ID))

	loaded, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp", "Desk"}, productNames(loaded.Products()))

	removed, err := repo.RemoveItem(wishlist.ID, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = repo.RemoveItem(wishlist.ID, lamp.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCategoryRepository_FindOrCreateByNames(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewCategoryRepository(testDB)

	require.NoError(t, repo.Create(&model.Category{Name: "Shoes", Slug: "shoes"}))

	categories, err := repo.FindOrCreateByNames([]string{"Outdoor Gear", "Shoes"})
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Outdoor Gear", categories[0].Name)
	assert.Equal(t, "outdoor-gear", categories[0].Slug)
	assert.Equal(t, "Shoes", categories[1].Name)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
