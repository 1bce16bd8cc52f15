package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/broker"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/storage"
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

func createProduct(t *testing.T, testDB *gorm.DB, name string, price float64) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:        name,
		Slug:        util.GenerateSlug(name),
		Description: name + " description",
		Price:       price,
		Stock:       10,
	}
	require.NoError(t, testDB.Create(p).Error)
	return p
}

func createVariant(t *testing.T, testDB *gorm.DB, productID uint, sku string, price float64, color string) *model.Variant {
	t.Helper()
	v := &model.Variant{
		ProductID: productID,
		Name:      sku,
		BasePrice: price,
		SKU:       sku,
		IsActive:  true,
		Options: []model.VariantOption{
			{Type: model.OptionColor, Name: "Color", Value: color, DisplayName: color, HexCode: "#" + color},
		},
	}
	require.NoError(t, testDB.Create(v).Error)
	return v
}

type fakeMediaStore struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failOn   int
	calls    int
}

func (f *fakeMediaStore) Upload(_ context.Context, file storage.UploadFile) (*storage.StoredObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return nil, errors.New("upload failed")
	}
	if _, err := io.ReadAll(file.Body); err != nil {
		return nil, err
	}
	key := "products/" + file.Filename
	f.uploaded = append(f.uploaded, key)
	return &storage.StoredObject{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (f *fakeMediaStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func imageUpload(name string) ImageUpload {
	return ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data")), nil
		},
	}
}

type recordingPublisher struct {
	events []*broker.OrderCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, event *broker.OrderCreatedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

type recordingRevoker struct {
	jtis []string
	ttls []time.Duration
}

func (r *recordingRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	r.jtis = append(r.jtis, jti)
	r.ttls = append(r.ttls, ttl)
	return nil
}

var testTokenConfig = util.TokenConfig{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessExpiry:  time.Hour,
	RefreshExpiry: 24 * time.Hour,
}

type services struct {
	db       *gorm.DB
	auth     AuthService
	products ProductService
	variants VariantService
	cart     CartService
	orders   OrderService
	reviews  ReviewService
	wishlist WishlistService
	media    *fakeMediaStore
	events   *recordingPublisher
	revoker  *recordingRevoker
}

func setupServices(t *testing.T) *services {
	t.Helper()
	testDB := setupTestDB(t)

	userRepo := repository.NewUserRepository(testDB)
	tokenRepo := repository.NewRefreshTokenRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)

	media := &fakeMediaStore{}
	events := &recordingPublisher{}
	revoker := &recordingRevoker{}

	return &services{
		db:       testDB,
		auth:     NewAuthService(userRepo, tokenRepo, testTokenConfig, revoker),
		products: NewProductService(productRepo, variantRepo, categoryRepo, media, UploadLimits{MaxFileSize: 1024, MaxFiles: 3}, testDB),
		variants: NewVariantService(variantRepo, productRepo),
		cart:     NewCartService(cartRepo, productRepo, variantRepo, testDB),
		orders:   NewOrderService(orderRepo, cartRepo, events, testDB),
		reviews:  NewReviewService(reviewRepo, productRepo, testDB),
		wishlist: NewWishlistService(wishlistRepo, productRepo),
		media:    media,
		events:   events,
		revoker:  revoker,
	}
}

func intPtr(v int) *int { return &v }
