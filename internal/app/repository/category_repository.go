package repository

import (
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindOrCreateByNames(names []string) ([]model.Category, error)
	WithTx(tx *gorm.DB) CategoryRepository
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	categories := []model.Category{}
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindOrCreateByNames resolves names to categories, inserting the missing ones.
// The result follows the order of names.
func (r *categoryRepository) FindOrCreateByNames(names []string) ([]model.Category, error) {
	if len(names) == 0 {
		return []model.Category{}, nil
	}

	candidates := make([]model.Category, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, model.Category{Name: name, Slug: util.GenerateSlug(name)})
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidates).Error; err != nil {
		logger.Error("Failed to insert categories", err, map[string]interface{}{
			"names": names,
		})
		return nil, err
	}

	var found []model.Category
	if err := r.db.Where("name IN ?", names).Find(&found).Error; err != nil {
		logger.Error("Failed to load categories by name", err, map[string]interface{}{
			"names": names,
		})
		return nil, err
	}

	byName := make(map[string]model.Category, len(found))
	for _, c := range found {
		byName[c.Name] = c
	}
	categories := make([]model.Category, 0, len(names))
	for _, name := range names {
		if c, ok := byName[name]; ok {
			categories = append(categories, c)
		}
	}

	logger.Debug("Categories resolved by name", map[string]interface{}{
		"requested": len(names),
		"resolved":  len(categories),
	})
	return categories, nil
}
