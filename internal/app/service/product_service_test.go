package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_ListPagination(t *testing.T) {
	s := setupServices(t)
	for i := 1; i <= 15; i++ {
		createProduct(t, s.db, fmt.Sprintf("Item %02d", i), float64(i))
	}

	page, err := s.products.List(ProductQuery{Page: 2, Limit: 10, Sort: "name_asc"})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, int64(15), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "Item 11", page.Products[0].Name)
}

func TestProductService_ListColorFilter(t *testing.T) {
	s := setupServices(t)
	shirt := createProduct(t, s.db, "Shirt", 20)
	createProduct(t, s.db, "Hat", 10)
	createVariant(t, s.db, shirt.ID, "SHI-GE-0001", 22, "red")

	page, err := s.products.List(ProductQuery{Page: 1, Limit: 10, Colors: []string{"red"}})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Shirt", page.Products[0].Name)

	page, err = s.products.List(ProductQuery{Page: 1, Limit: 10, Colors: []string{"green"}})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Count)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Products)
}

func TestProductService_Filters(t *testing.T) {
	s := setupServices(t)
	shirt := createProduct(t, s.db, "Shirt", 20)
	createProduct(t, s.db, "Hat", 45)
	createVariant(t, s.db, shirt.ID, "SHI-GE-0001", 22, "red")

	summary, err := s.products.Filters()
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.StockStats.InStock)
	assert.Equal(t, 45.0, summary.ProductHighestPrice)
	require.Len(t, summary.Colors, 1)
	assert.Equal(t, "red", summary.Colors[0].Value)
	assert.Empty(t, summary.Tags)
}

func TestProductService_Create(t *testing.T) {
	s := setupServices(t)

	product, err := s.products.Create(context.Background(), CreateProductInput{
		Name:        "Trail Runner 2",
		Description: "A shoe",
		Price:       120,
		Stock:       5,
		Brand:       "Acme",
		Categories:  []string{"Shoes", "Shoes", " Outdoor "},
		Tags:        []string{"running", "running", "trail"},
		Variants: []VariantInput{
			{Name: "Red 42", Options: []model.VariantOption{{Type: model.OptionColor, Name: "Color", Value: "red"}}},
		},
	}, []ImageUpload{imageUpload("a.png"), imageUpload("b.png")})
	require.NoError(t, err)

	assert.Equal(t, "trail-runner-2", product.Slug)
	assert.Len(t, product.Categories, 2)
	assert.Equal(t, []string{"running", "trail"}, product.TagNames())
	require.Len(t, product.Images, 2)
	assert.Equal(t, "products/a.png", product.Images[0].PublicID)
	require.Len(t, product.Variants, 1)
	assert.Equal(t, 120.0, product.Variants[0].BasePrice)
	assert.Regexp(t, `^TRA-SH-\d{4}$`, product.Variants[0].SKU)
}

func TestProductService_CreateValidation(t *testing.T) {
	s := setupServices(t)
	createProduct(t, s.db, "Lamp", 10)

	valid := CreateProductInput{Name: "Desk", Description: "Oak", Price: 300}
	big := imageUpload("big.png")
	big.Size = 4096
	pdf := imageUpload("doc.pdf")
	pdf.ContentType = "application/pdf"

	tests := []struct {
		name   string
		input  CreateProductInput
		images []ImageUpload
		want   string
	}{
		{"missing fields", CreateProductInput{Name: "Desk"}, []ImageUpload{imageUpload("a.png")}, ErrProductFieldsRequired.Message},
		{"no image", valid, nil, "Please provide an image file"},
		{"too many", valid, []ImageUpload{imageUpload("1.png"), imageUpload("2.png"), imageUpload("3.png"), imageUpload("4.png")}, "You can upload at most 3 images"},
		{"too big", valid, []ImageUpload{big}, "big.png: file exceeds the maximum allowed size of 1024 bytes"},
		{"not image", valid, []ImageUpload{pdf}, `doc.pdf: only image files are allowed: got "application/pdf"`},
		{"duplicate name", CreateProductInput{Name: "Lamp", Description: "x", Price: 1}, []ImageUpload{imageUpload("a.png")}, "Name must be unique"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.products.Create(context.Background(), tt.input, tt.images)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
	assert.Empty(t, s.media.uploaded)
}

func TestProductService_CreateCleansUpOnUploadFailure(t *testing.T) {
	s := setupServices(t)
	s.media.failOn = 2

	_, err := s.products.Create(context.Background(), CreateProductInput{Name: "Desk", Description: "Oak", Price: 300},
		[]ImageUpload{imageUpload("a.png"), imageUpload("b.png"), imageUpload("c.png")})
	require.Error(t, err)

	assert.Equal(t, []string{"products/a.png"}, s.media.uploaded)
	assert.Equal(t, []string{"products/a.png"}, s.media.deleted)

	var count int64
	require.NoError(t, s.db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductService_CreateCleansUpOnInvalidVariant(t *testing.T) {
	s := setupServices(t)

	_, err := s.products.Create(context.Background(), CreateProductInput{
		Name:        "Desk",
		Description: "Oak",
		Price:       300,
		Variants:    []VariantInput{{Name: ""}},
	}, []ImageUpload{imageUpload("a.png")})
	assert.ErrorIs(t, err, ErrVariantNameRequired)
	assert.Equal(t, []string{"products/a.png"}, s.media.deleted)

	var count int64
	require.NoError(t, s.db.Model(&model.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductService_GetByIDOrSlug(t *testing.T) {
	s := setupServices(t)
	p := createProduct(t, s.db, "Desk Lamp", 40)

	byID, err := s.products.Get(fmt.Sprint(p.ID))
	require.NoError(t, err)
	assert.Equal(t, p.ID, byID.ID)

	bySlug, err := s.products.Get("desk-lamp")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	_, err = s.products.Get("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = s.products.Get("999")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetNumericSlug(t *testing.T) {
	s := setupServices(t)
	desk := createProduct(t, s.db, "Desk Lamp", 40)
	year := createProduct(t, s.db, "2024", 10)
	require.Equal(t, "2024", year.Slug)

	got, err := s.products.Get("2024")
	require.NoError(t, err)
	assert.Equal(t, year.ID, got.ID)

	got, err = s.products.Get(fmt.Sprint(desk.ID))
	require.NoError(t, err)
	assert.Equal(t, desk.ID, got.ID)
}

func TestProductService_UpdateRegeneratesSlug(t *testing.T) {
	s := setupServices(t)
	p := createProduct(t, s.db, "Desk Lamp", 40)
	createProduct(t, s.db, "Floor Lamp", 80)

	taken := "Floor Lamp"
	_, err := s.products.Update(p.ID, UpdateProductInput{Name: &taken})
	assert.ErrorIs(t, err, ErrProductNameTaken)

	name, price := "Reading Lamp", 45.5
	categories, tags := []string{"Lighting"}, []string{"home"}
	updated, err := s.products.Update(p.ID, UpdateProductInput{Name: &name, Price: &price, Categories: &categories, Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, "reading-lamp", updated.Slug)
	assert.Equal(t, 45.5, updated.Price)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "Lighting", updated.Categories[0].Name)
	assert.Equal(t, []string{"home"}, updated.TagNames())

	negative := -1
	_, err = s.products.Update(p.ID, UpdateProductInput{Stock: &negative})
	assert.ErrorIs(t, err, ErrProductStock)
}

func TestProductService_DeleteRemovesMedia(t *testing.T) {
	s := setupServices(t)

	product, err := s.products.Create(context.Background(), CreateProductInput{Name: "Desk", Description: "Oak", Price: 300},
		[]ImageUpload{imageUpload("a.png")})
	require.NoError(t, err)

	require.NoError(t, s.products.Delete(context.Background(), product.ID))
	assert.Equal(t, []string{"products/a.png"}, s.media.deleted)

	err = s.products.Delete(context.Background(), product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ExportImport(t *testing.T) {
	s := setupServices(t)
	_, err := s.products.Create(context.Background(), CreateProductInput{
		Name: "Desk", Description: "Oak", Price: 300, Categories: []string{"Office"}, Tags: []string{"wood"},
	}, []ImageUpload{imageUpload("a.png")})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.products.Export(&buf))

	rows, skipped, err := sheet.ReadCatalog(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 1)

	created, err := s.products.Import(append(rows, sheet.CatalogRow{Name: "Chair", Price: 50, Categories: []string{"Office"}}))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	chair, err := s.products.Get("chair")
	require.NoError(t, err)
	require.Len(t, chair.Categories, 1)
	assert.Equal(t, "Office", chair.Categories[0].Name)
}
