package repository

import (
	"strings"

	"gorm.io/gorm"
)

// Predicate is one fragment of a catalog query. Fragments are combined by conjunction.
type Predicate struct {
	Name   string
	Clause string
	Args   []interface{}
}

// FilterSpec is an ordered list of predicates over the products table
type FilterSpec struct {
	predicates []Predicate
}

func NewFilterSpec() *FilterSpec {
	return &FilterSpec{}
}

// And appends p and returns the spec for chaining
func (s *FilterSpec) And(p Predicate) *FilterSpec {
	s.predicates = append(s.predicates, p)
	return s
}

func (s *FilterSpec) Predicates() []Predicate {
	out := make([]Predicate, len(s.predicates))
	copy(out, s.predicates)
	return out
}

func (s *FilterSpec) Len() int {
	return len(s.predicates)
}

// Apply adds every predicate to query as a WHERE clause
func (s *FilterSpec) Apply(query *gorm.DB) *gorm.DB {
	for _, p := range s.predicates {
		query = query.Where(p.Clause, p.Args...)
	}
	return query
}

func CategoryPredicate(categoryID uint) Predicate {
	return Predicate{
		Name:   "category",
		Clause: "products.id IN (SELECT product_categories.product_id FROM product_categories WHERE product_categories.category_id = ?)",
		Args:   []interface{}{categoryID},
	}
}

func BrandPredicate(brand string) Predicate {
	return Predicate{Name: "brand", Clause: "products.brand = ?", Args: []interface{}{brand}}
}

func BrandsPredicate(brands []string) Predicate {
	return Predicate{Name: "brands", Clause: "products.brand IN ?", Args: []interface{}{brands}}
}

func FeaturedPredicate(featured bool) Predicate {
	return Predicate{Name: "featured", Clause: "products.featured = ?", Args: []interface{}{featured}}
}

func MinPricePredicate(min float64) Predicate {
	return Predicate{Name: "minPrice", Clause: "products.price >= ?", Args: []interface{}{min}}
}

func MaxPricePredicate(max float64) Predicate {
	return Predicate{Name: "maxPrice", Clause: "products.price <= ?", Args: []interface{}{max}}
}

func TagsPredicate(tags []string) Predicate {
	return Predicate{
		Name:   "tags",
		Clause: "products.id IN (SELECT product_tags.product_id FROM product_tags WHERE product_tags.name IN ?)",
		Args:   []interface{}{tags},
	}
}

func InStockPredicate() Predicate {
	return Predicate{Name: "availability", Clause: "products.stock > 0"}
}

func OutOfStockPredicate() Predicate {
	return Predicate{Name: "availability", Clause: "products.stock <= 0"}
}

// SearchPredicate matches term case-insensitively as a substring of name or description
func SearchPredicate(term string) Predicate {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	return Predicate{
		Name:   "search",
		Clause: `(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`,
		Args:   []interface{}{pattern, pattern},
	}
}

func ProductIDsPredicate(ids []uint) Predicate {
	return Predicate{Name: "productIds", Clause: "products.id IN ?", Args: []interface{}{ids}}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Sort keys accepted by the catalog
const (
	SortNewest        = "newest"
	SortPriceLowHigh  = "price_low_high"
	SortPriceHighLow  = "price_high_low"
	SortRatingHighLow = "rating_high_low"
	SortNameAsc       = "name_asc"
	SortNameDesc      = "name_dec"
	SortFeatured      = "featured"
)

var productSortClauses = map[string]string{
	SortNewest:        "products.created_at DESC, products.id DESC",
	SortPriceLowHigh:  "products.price ASC, products.id ASC",
	SortPriceHighLow:  "products.price DESC, products.id ASC",
	SortRatingHighLow: "products.rating DESC, products.id ASC",
	SortNameAsc:       "products.name ASC, products.id ASC",
	SortNameDesc:      "products.name DESC, products.id ASC",
	SortFeatured:      "products.featured DESC, products.created_at DESC, products.id DESC",
}

// SortClause maps a sort key to its ORDER BY clause; unknown keys sort newest first
func SortClause(key string) string {
	if clause, ok := productSortClauses[key]; ok {
		return clause
	}
	return productSortClauses[SortNewest]
}
