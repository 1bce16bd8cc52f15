package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/metrics"
	"github.com/ikkim/storefront-backend/internal/sheet"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound       = apperrors.NotFound(apperrors.ProductNotFound, "Product not found")
	ErrProductFieldsRequired = apperrors.BadRequest(apperrors.ValidationRequired, "Name, description and price are required")
	ErrProductNameTaken      = apperrors.BadRequest(apperrors.ProductNameTaken, "Name must be unique")
	ErrProductImageRequired  = apperrors.BadRequest(apperrors.ProductImageRequired, "Please provide an image file")
	ErrProductPrice          = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Price cannot be negative")
	ErrProductStock          = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Stock cannot be negative")
)

// ImageUpload is one image file submitted with a product
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadLimits bounds product image uploads
type UploadLimits struct {
	MaxFileSize int64
	MaxFiles    int
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Brand       string
	Featured    bool
	Categories  []string
	Tags        []string
	Variants    []VariantInput
}

// UpdateProductInput is a partial update; nil fields are left unchanged
type UpdateProductInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	Brand       *string   `json:"brand"`
	Featured    *bool     `json:"featured"`
	Categories  *[]string `json:"categories"`
	Tags        *[]string `json:"tags"`
}

// FilterSummary is the aggregate view behind the catalog filter sidebar
type FilterSummary struct {
	StockStats          repository.StockStats    `json:"stockStats"`
	ProductHighestPrice float64                  `json:"productHighestPrice"`
	Tags                []repository.TagCount    `json:"tags"`
	Colors              []repository.ColorOption `json:"colors"`
	Brands              []repository.BrandCount  `json:"brands"`
}

type ProductService interface {
	List(q ProductQuery) (*ProductPage, error)
	Filters() (*FilterSummary, error)
	Get(idOrSlug string) (*model.Product, error)
	Create(ctx context.Context, input CreateProductInput, images []ImageUpload) (*model.Product, error)
	Update(id uint, input UpdateProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
	Export(w io.Writer) error
	Import(rows []sheet.CatalogRow) (int, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	variantRepo  repository.VariantRepository
	categoryRepo repository.CategoryRepository
	media        storage.MediaStore
	limits       UploadLimits
	db           *gorm.DB
}

func NewProductService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
	media storage.MediaStore,
	limits UploadLimits,
	db *gorm.DB,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		categoryRepo: categoryRepo,
		media:        media,
		limits:       limits,
		db:           db,
	}
}

func (s *productService) List(q ProductQuery) (*ProductPage, error) {
	spec := q.FilterSpec()

	if len(q.Colors) > 0 {
		ids, err := s.variantRepo.ProductIDsByColors(q.Colors)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			logger.Debug("No variants match color filter", map[string]interface{}{
				"colors": q.Colors,
			})
			return newProductPage(nil, 0, q), nil
		}
		spec.And(repository.ProductIDsPredicate(ids))
	}

	products, total, err := s.productRepo.FindPage(repository.ProductPageQuery{
		Spec:   spec,
		Sort:   q.Sort,
		Offset: q.Offset(),
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}

	return newProductPage(products, total, q), nil
}

func (s *productService) Filters() (*FilterSummary, error) {
	stats, err := s.productRepo.StockStats()
	if err != nil {
		return nil, err
	}
	highest, err := s.productRepo.HighestPrice()
	if err != nil {
		return nil, err
	}
	tags, err := s.productRepo.TagCounts()
	if err != nil {
		return nil, err
	}
	colors, err := s.variantRepo.DistinctColors()
	if err != nil {
		return nil, err
	}
	brands, err := s.productRepo.BrandCounts()
	if err != nil {
		return nil, err
	}

	return &FilterSummary{
		StockStats:          stats,
		ProductHighestPrice: highest,
		Tags:                tags,
		Colors:              colors,
		Brands:              brands,
	}, nil
}

// Get resolves a numeric id or a slug to the product detail. A numeric value
// that matches no id is retried as a slug, since slugs may be all digits.
func (s *productService) Get(idOrSlug string) (*model.Product, error) {
	if parsed, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil {
		product, err := s.productRepo.FindDetail(uint(parsed))
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	product, err := s.productRepo.FindBySlug(idOrSlug)
	if err != nil {
		return nil, s.notFound(err)
	}

	detail, err := s.productRepo.FindDetail(product.ID)
	if err != nil {
		return nil, s.notFound(err)
	}
	return detail, nil
}

func (s *productService) notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *productService) validateImages(images []ImageUpload) error {
	if len(images) == 0 {
		return ErrProductImageRequired
	}
	if s.limits.MaxFiles > 0 && len(images) > s.limits.MaxFiles {
		return apperrors.BadRequest(apperrors.ProductImageInvalid,
			fmt.Sprintf("You can upload at most %d images", s.limits.MaxFiles))
	}
	for _, img := range images {
		if err := storage.ValidateImage(img.ContentType, img.Size, s.limits.MaxFileSize); err != nil {
			return apperrors.BadRequest(apperrors.ProductImageInvalid,
				fmt.Sprintf("%s: %s", img.Filename, err.Error()))
		}
	}
	return nil
}

// uploadImages pushes images one at a time. When one fails the images already
// stored are removed before the error is returned.
func (s *productService) uploadImages(ctx context.Context, images []ImageUpload) ([]model.ProductImage, error) {
	uploaded := make([]model.ProductImage, 0, len(images))

	for i, img := range images {
		obj, err := s.uploadOne(ctx, img)
		if err != nil {
			metrics.MediaUploadsTotal.WithLabelValues("failed").Inc()
			logger.Error("Image upload failed; cleaning up", err, map[string]interface{}{
				"filename": img.Filename,
				"uploaded": len(uploaded),
			})
			s.removeImages(ctx, uploaded)
			return nil, err
		}
		metrics.MediaUploadsTotal.WithLabelValues("success").Inc()
		uploaded = append(uploaded, model.ProductImage{URL: obj.URL, PublicID: obj.Key, Position: i})
	}
	return uploaded, nil
}

func (s *productService) uploadOne(ctx context.Context, img ImageUpload) (*storage.StoredObject, error) {
	body, err := img.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", img.Filename, err)
	}
	defer body.Close()

	return s.media.Upload(ctx, storage.UploadFile{
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Size:        img.Size,
		Body:        body,
	})
}

// removeImages deletes stored media best effort; failures are only logged
func (s *productService) removeImages(ctx context.Context, images []model.ProductImage) {
	for _, img := range images {
		if err := s.media.Delete(ctx, img.PublicID); err != nil {
			logger.Warn("Failed to delete product image", map[string]interface{}{
				"key":   img.PublicID,
				"error": err.Error(),
			})
		}
	}
}

func tagRows(names []string) []model.ProductTag {
	seen := make(map[string]bool, len(names))
	tags := make([]model.ProductTag, 0, len(names))
	for _, name := range cleanNames(names) {
		if seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, model.ProductTag{Name: name})
	}
	return tags
}

func tagNames(tags []model.ProductTag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (s *productService) Create(ctx context.Context, input CreateProductInput, images []ImageUpload) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)

	logger.Info("Creating product", map[string]interface{}{
		"name":   input.Name,
		"images": len(images),
	})

	if input.Name == "" || input.Description == "" || input.Price == 0 {
		return nil, ErrProductFieldsRequired
	}
	if input.Price < 0 {
		return nil, ErrProductPrice
	}
	if input.Stock < 0 {
		return nil, ErrProductStock
	}
	if err := s.validateImages(images); err != nil {
		logger.Warn("Product images rejected", map[string]interface{}{
			"name":  input.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	taken, err := s.productRepo.ExistsByName(input.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrProductNameTaken
	}

	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        input.Name,
		Slug:        util.GenerateSlug(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Brand:       strings.TrimSpace(input.Brand),
		Featured:    input.Featured,
		Images:      uploaded,
		Tags:        tagRows(input.Tags),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		categories, err := s.categoryRepo.WithTx(tx).FindOrCreateByNames(cleanNames(input.Categories))
		if err != nil {
			return err
		}
		product.Categories = categories

		if err := s.productRepo.WithTx(tx).Create(product); err != nil {
			return err
		}

		variants := s.variantRepo.WithTx(tx)
		for _, vi := range input.Variants {
			variant, err := buildVariant(product, vi)
			if err != nil {
				return err
			}
			if err := variants.Create(variant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to persist product; cleaning up images", err, map[string]interface{}{
			"name": input.Name,
		})
		s.removeImages(ctx, uploaded)
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return s.productRepo.FindDetail(product.ID)
}

func (s *productService) Update(id uint, input UpdateProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, s.notFound(err)
	}

	fields := map[string]interface{}{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProductFieldsRequired
		}
		if name != product.Name {
			taken, err := s.productRepo.ExistsByName(name, product.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrProductNameTaken
			}
			fields["name"] = name
			fields["slug"] = util.GenerateSlug(name)
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, ErrProductFieldsRequired
		}
		fields["description"] = description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrProductPrice
		}
		fields["price"] = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, ErrProductStock
		}
		fields["stock"] = *input.Stock
	}
	if input.Brand != nil {
		fields["brand"] = strings.TrimSpace(*input.Brand)
	}
	if input.Featured != nil {
		fields["featured"] = *input.Featured
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		if err := products.Update(product, fields); err != nil {
			return err
		}
		if input.Categories != nil {
			categories, err := s.categoryRepo.WithTx(tx).FindOrCreateByNames(cleanNames(*input.Categories))
			if err != nil {
				return err
			}
			if err := products.ReplaceCategories(product, categories); err != nil {
				return err
			}
		}
		if input.Tags != nil {
			if err := products.ReplaceTags(product.ID, tagNames(tagRows(*input.Tags))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"fields":     len(fields),
	})
	return s.productRepo.FindDetail(id)
}

// Delete removes the product and everything referencing it, then its media
func (s *productService) Delete(ctx context.Context, id uint) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return s.notFound(err)
	}

	if err := s.productRepo.Delete(id); err != nil {
		return s.notFound(err)
	}

	s.removeImages(ctx, product.Images)

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"images":     len(product.Images),
	})
	return nil
}

func (s *productService) Export(w io.Writer) error {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return err
	}
	if err := sheet.WriteCatalog(w, products); err != nil {
		logger.Error("Failed to write catalog workbook", err)
		return err
	}

	logger.Info("Catalog exported", map[string]interface{}{
		"products": len(products),
	})
	return nil
}

// Import creates products from workbook rows, skipping names that already exist.
// It returns the number of products created.
func (s *productService) Import(rows []sheet.CatalogRow) (int, error) {
	created := 0

	for _, row := range rows {
		taken, err := s.productRepo.ExistsByName(row.Name, 0)
		if err != nil {
			return created, err
		}
		if taken {
			logger.Debug("Skipping existing product", map[string]interface{}{
				"name": row.Name,
			})
			continue
		}

		product := &model.Product{
			Name:        row.Name,
			Slug:        util.GenerateSlug(row.Name),
			Description: row.Description,
			Price:       row.Price,
			Stock:       row.Stock,
			Brand:       row.Brand,
			Featured:    row.Featured,
			Tags:        tagRows(row.Tags),
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			categories, err := s.categoryRepo.WithTx(tx).FindOrCreateByNames(cleanNames(row.Categories))
			if err != nil {
				return err
			}
			product.Categories = categories
			return s.productRepo.WithTx(tx).Create(product)
		})
		if err != nil {
			return created, fmt.Errorf("importing %q: %w", row.Name, err)
		}
		created++
	}

	logger.Info("Catalog imported", map[string]interface{}{
		"rows":    len(rows),
		"created": created,
	})
	return created, nil
}
