package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/broker"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryMedia struct {
	keys []string
}

func (m *memoryMedia) Upload(_ context.Context, file storage.UploadFile) (*storage.StoredObject, error) {
	if _, err := io.ReadAll(file.Body); err != nil {
		return nil, err
	}
	key := "products/" + file.Filename
	m.keys = append(m.keys, key)
	return &storage.StoredObject{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

func (m *memoryMedia) Delete(_ context.Context, key string) error {
	return nil
}

var testCookie = config.CookieConfig{Secret: "cookie-secret", MaxAge: time.Hour}

var testTokens = util.TokenConfig{
	AccessSecret:  "access-secret",
	RefreshSecret: "refresh-secret",
	AccessExpiry:  time.Hour,
	RefreshExpiry: 24 * time.Hour,
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	media  *memoryMedia

	auth     *AuthController
	products *ProductController
	variants *VariantController
	reviews  *ReviewController
	cart     *CartController
	wishlist *WishlistController
	orders   *OrderController
}

func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	media := &memoryMedia{}

	gin.SetMode(gin.TestMode)

	return &testEnv{
		db:     testDB,
		router: gin.New(),
		media:  media,
		auth: NewAuthController(service.NewAuthService(
			repository.NewUserRepository(testDB),
			repository.NewRefreshTokenRepository(testDB),
			testTokens,
			nil,
		), testCookie),
		products: NewProductController(service.NewProductService(
			productRepo, variantRepo, repository.NewCategoryRepository(testDB), media,
			service.UploadLimits{MaxFileSize: 1024, MaxFiles: 2}, testDB,
		)),
		variants: NewVariantController(service.NewVariantService(variantRepo, productRepo)),
		reviews:  NewReviewController(service.NewReviewService(repository.NewReviewRepository(testDB), productRepo, testDB)),
		cart:     NewCartController(service.NewCartService(cartRepo, productRepo, variantRepo, testDB)),
		wishlist: NewWishlistController(service.NewWishlistService(repository.NewWishlistRepository(testDB), productRepo)),
		orders:   NewOrderController(service.NewOrderService(repository.NewOrderRepository(testDB), cartRepo, broker.NoopPublisher{}, testDB)),
	}
}

// asUser stands in for the auth middleware
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func createTestUser(t *testing.T, testDB *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestProduct(t *testing.T, testDB *gorm.DB, name string, price float64) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        name,
		Slug:        util.GenerateSlug(name),
		Description: name,
		Price:       price,
		Stock:       5,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
