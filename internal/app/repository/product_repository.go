package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

type StockStats struct {
	InStock    int64 `json:"inStock"`
	OutOfStock int64 `json:"outOfStock"`
}

// ProductPageQuery selects one page of the catalog
type ProductPageQuery struct {
	Spec   *FilterSpec
	Sort   string
	Offset int
	Limit  int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindDetail(id uint) (*model.Product, error)
	FindAll() ([]model.Product, error)
	FindPage(q ProductPageQuery) ([]model.Product, int64, error)
	ExistsByName(name string, excludeID uint) (bool, error)
	Update(product *model.Product, fields map[string]interface{}) error
	ReplaceCategories(product *model.Product, categories []model.Category) error
	ReplaceTags(productID uint, names []string) error
	UpdateRating(productID uint, rating float64) error
	Delete(id uint) error
	StockStats() (StockStats, error)
	HighestPrice() (float64, error)
	TagCounts() ([]TagCount, error)
	BrandCounts() ([]BrandCount, error)
	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":       product.Name,
		"slug":       product.Slug,
		"categories": len(product.Categories),
		"images":     len(product.Images),
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) summaryQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Categories").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.summaryQuery().First(&product, id).Error; err != nil {
		logger.Debug("Product not loaded by ID", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.summaryQuery().Where("slug = ?", slug).First(&product).Error; err != nil {
		logger.Debug("Product not loaded by slug", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

// FindDetail loads a product with its variants and reviews. The relations are
// reverse references and are only present when fetched here.
func (r *productRepository) FindDetail(id uint) (*model.Product, error) {
	logger.Debug("Finding product detail", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	err := r.summaryQuery().
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Variants.Options").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Reviews.User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "username") }).
		First(&product, id).Error
	if err != nil {
		logger.Debug("Product detail not loaded", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.summaryQuery().Order("products.id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

// FindPage returns the matching page plus the total number of matches.
// Listed products carry their variants and options but not their reviews.
func (r *productRepository) FindPage(q ProductPageQuery) ([]model.Product, int64, error) {
	spec := q.Spec
	if spec == nil {
		spec = NewFilterSpec()
	}

	logger.Debug("Finding product page", map[string]interface{}{
		"predicates": spec.Len(),
		"sort":       q.Sort,
		"offset":     q.Offset,
		"limit":      q.Limit,
	})

	var total int64
	if err := spec.Apply(r.db.Model(&model.Product{})).Count(&total).Error; err != nil {
		logger.Error("Failed to count products", err)
		return nil, 0, err
	}

	products := []model.Product{}
	if total > 0 {
		err := spec.Apply(r.summaryQuery()).
			Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
			Preload("Variants.Options").
			Order(SortClause(q.Sort)).
			Offset(q.Offset).
			Limit(q.Limit).
			Find(&products).Error
		if err != nil {
			logger.Error("Failed to find product page", err)
			return nil, 0, err
		}
	}

	logger.Debug("Product page found", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) ExistsByName(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&model.Product{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		logger.Error("Failed to check product name", err, map[string]interface{}{
			"name": name,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *productRepository) Update(product *model.Product, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"fields":     len(fields),
	})

	if err := r.db.Model(product).Updates(fields).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) ReplaceCategories(product *model.Product, categories []model.Category) error {
	if err := r.db.Model(product).Association("Categories").Replace(categories); err != nil {
		logger.Error("Failed to replace product categories", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) ReplaceTags(productID uint, names []string) error {
	if err := r.db.Where("product_id = ?", productID).Delete(&model.ProductTag{}).Error; err != nil {
		logger.Error("Failed to clear product tags", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	if len(names) == 0 {
		return nil
	}

	tags := make([]model.ProductTag, 0, len(names))
	for _, name := range names {
		tags = append(tags, model.ProductTag{ProductID: productID, Name: name})
	}
	if err := r.db.Create(&tags).Error; err != nil {
		logger.Error("Failed to insert product tags", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateRating(productID uint, rating float64) error {
	err := r.db.Model(&model.Product{}).
		Where("id = ?", productID).
		Update("rating", rating).Error
	if err != nil {
		logger.Error("Failed to update product rating", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}

// Delete removes the product and every row that references it
func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		variantIDs := func() *gorm.DB {
			return tx.Model(&model.Variant{}).Select("id").Where("product_id = ?", id)
		}

		steps := []*gorm.DB{
			tx.Where("variant_id IN (?)", variantIDs()).Delete(&model.VariantOption{}),
			tx.Where("variant_id IN (?)", variantIDs()).Delete(&model.CartItem{}),
			tx.Where("product_id = ?", id).Delete(&model.Variant{}),
			tx.Where("product_id = ?", id).Delete(&model.ProductImage{}),
			tx.Where("product_id = ?", id).Delete(&model.ProductTag{}),
			tx.Exec("DELETE FROM product_categories WHERE product_id = ?", id),
			tx.Where("product_id = ?", id).Delete(&model.Review{}),
			tx.Where("product_id = ?", id).Delete(&model.CartItem{}),
			tx.Where("product_id = ?", id).Delete(&model.WishlistItem{}),
		}
		for _, step := range steps {
			if step.Error != nil {
				return step.Error
			}
		}

		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (r *productRepository) StockStats() (StockStats, error) {
	var stats StockStats
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(CASE WHEN stock > 0 THEN 1 ELSE 0 END), 0) AS in_stock, " +
			"COALESCE(SUM(CASE WHEN stock <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to compute stock stats", err)
		return stats, err
	}
	return stats, nil
}

// HighestPrice returns the price of the most expensive product, or 0 for an empty catalog
func (r *productRepository) HighestPrice() (float64, error) {
	var highest float64
	err := r.db.Model(&model.Product{}).
		Select("COALESCE(MAX(price), 0)").
		Scan(&highest).Error
	if err != nil {
		logger.Error("Failed to compute highest price", err)
		return 0, err
	}
	return highest, nil
}

// TagCounts is the tag histogram, most used first
func (r *productRepository) TagCounts() ([]TagCount, error) {
	counts := []TagCount{}
	err := r.db.Model(&model.ProductTag{}).
		Select("name AS tag, COUNT(*) AS count").
		Group("name").
		Order("COUNT(*) DESC, name ASC").
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to compute tag counts", err)
		return nil, err
	}
	return counts, nil
}

// BrandCounts is the brand histogram, most used first; products without a brand are skipped
func (r *productRepository) BrandCounts() ([]BrandCount, error) {
	counts := []BrandCount{}
	err := r.db.Model(&model.Product{}).
		Select("brand, COUNT(*) AS count").
		Where("brand IS NOT NULL AND brand <> ''").
		Group("brand").
		Order("COUNT(*) DESC, brand ASC").
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to compute brand counts", err)
		return nil, err
	}
	return counts, nil
}
