package repository

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashed",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createProduct(t *testing.T, testDB *gorm.DB, p model.Product) *model.Product {
	t.Helper()
	if p.Slug == "" {
		p.Slug = util.GenerateSlug(p.Name)
	}
	if p.Description == "" {
		p.Description = p.Name + " description"
	}
	require.NoError(t, testDB.Create(&p).Error)
	return &p
}

func createColorVariant(t *testing.T, testDB *gorm.DB, productID uint, sku, color, hex string) *model.Variant {
	t.Helper()
	variant := &model.Variant{
		ProductID: productID,
		Name:      color,
		BasePrice: 10,
		SKU:       sku,
		IsActive:  true,
		Options: []model.VariantOption{
			{Type: model.OptionColor, Name: "Color", Value: color, DisplayName: color, HexCode: hex},
			{Type: model.OptionSize, Name: "Size", Value: "M"},
		},
	}
	require.NoError(t, testDB.Create(variant).Error)
	return variant
}

func hasRefreshToken(t *testing.T, testDB *gorm.DB, userID uint, tokenHash string) bool {
	t.Helper()
	var count int64
	require.NoError(t, testDB.Model(&model.RefreshToken{}).
		Where("user_id = ? AND token_hash = ?", userID, tokenHash).
		Count(&count).Error)
	return count > 0
}
