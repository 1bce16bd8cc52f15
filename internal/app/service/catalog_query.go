package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	AvailabilityInStock    = "inStock"
	AvailabilityOutOfStock = "outOfStock"
)

var (
	ErrInvalidPage         = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Page must be a positive integer")
	ErrInvalidLimit        = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Limit must be an integer between 1 and 100")
	ErrInvalidPrice        = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Price filters must be non-negative numbers")
	ErrInvalidPriceRange   = apperrors.BadRequest(apperrors.ValidationInvalidRange, "minPrice cannot be greater than maxPrice")
	ErrInvalidFeatured     = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Featured must be true or false")
	ErrInvalidAvailability = apperrors.BadRequest(apperrors.ValidationInvalidInput, "Availability must be inStock or outOfStock")
)

// ProductQuery is the typed form of the catalog listing parameters
type ProductQuery struct {
	CategoryID   *uint
	Brand        string
	Featured     *bool
	MinPrice     *float64
	MaxPrice     *float64
	Brands       []string
	Tags         []string
	Availability string
	Search       string
	Colors       []string
	Sort         string
	Page         int
	Limit        int
}

// ParseProductQuery validates raw query parameters. Absent parameters are left unset.
func ParseProductQuery(values url.Values) (ProductQuery, error) {
	q := ProductQuery{
		Brand:  strings.TrimSpace(values.Get("brand")),
		Brands: splitCSV(values.Get("brands")),
		Tags:   splitCSV(values.Get("tags")),
		Search: strings.TrimSpace(values.Get("search")),
		Colors: splitCSV(values.Get("colors")),
		Sort:   strings.TrimSpace(values.Get("sort")),
		Page:   DefaultPage,
		Limit:  DefaultLimit,
	}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return q, &apperrors.InvalidIDError{Field: "category", Value: raw}
		}
		categoryID := uint(id)
		q.CategoryID = &categoryID
	}

	if raw := strings.TrimSpace(values.Get("featured")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return q, ErrInvalidFeatured
		}
		q.Featured = &featured
	}

	var err error
	if q.MinPrice, err = parsePrice(values.Get("minPrice")); err != nil {
		return q, err
	}
	if q.MaxPrice, err = parsePrice(values.Get("maxPrice")); err != nil {
		return q, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return q, ErrInvalidPriceRange
	}

	switch availability := strings.TrimSpace(values.Get("availability")); availability {
	case "":
	case AvailabilityInStock, AvailabilityOutOfStock:
		q.Availability = availability
	default:
		return q, ErrInvalidAvailability
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, ErrInvalidPage
		}
		q.Page = page
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return q, ErrInvalidLimit
		}
		q.Limit = limit
	}

	return q, nil
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrInvalidPrice
	}
	return &v, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// FilterSpec builds the product predicates of q. The color filter is resolved
// separately because it needs a lookup against variants first.
func (q ProductQuery) FilterSpec() *repository.FilterSpec {
	spec := repository.NewFilterSpec()

	if q.CategoryID != nil {
		spec.And(repository.CategoryPredicate(*q.CategoryID))
	}
	if q.Brand != "" {
		spec.And(repository.BrandPredicate(q.Brand))
	}
	if q.Featured != nil {
		spec.And(repository.FeaturedPredicate(*q.Featured))
	}
	if q.MinPrice != nil {
		spec.And(repository.MinPricePredicate(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		spec.And(repository.MaxPricePredicate(*q.MaxPrice))
	}
	if len(q.Brands) > 0 {
		spec.And(repository.BrandsPredicate(q.Brands))
	}
	if len(q.Tags) > 0 {
		spec.And(repository.TagsPredicate(q.Tags))
	}
	switch q.Availability {
	case AvailabilityInStock:
		spec.And(repository.InStockPredicate())
	case AvailabilityOutOfStock:
		spec.And(repository.OutOfStockPredicate())
	}
	if q.Search != "" {
		spec.And(repository.SearchPredicate(q.Search))
	}

	return spec
}

func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ProductPage is one page of catalog results
type ProductPage struct {
	Products    []model.Product `json:"products"`
	Count       int             `json:"count"`
	Total       int64           `json:"total"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}

func newProductPage(products []model.Product, total int64, q ProductQuery) *ProductPage {
	if products == nil {
		products = []model.Product{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return &ProductPage{
		Products:    products,
		Count:       len(products),
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
	}
}
