package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts returns one filtered, sorted page of the catalog
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query, err := service.ParseProductQuery(c.Request.URL.Query())
	if err != nil {
		log.Warn("Invalid catalog query", map[string]interface{}{
			"query": c.Request.URL.RawQuery,
			"error": err.Error(),
		})
		apperrors.Respond(c, err)
		return
	}

	page, err := ctrl.productService.List(query)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"products":    page.Products,
		"count":       page.Count,
		"total":       page.Total,
		"totalPages":  page.TotalPages,
		"currentPage": page.CurrentPage,
	})
}

// GetFilters returns the aggregates behind the filter sidebar
// GET /api/v1/products/filters
func (ctrl *ProductController) GetFilters(c *gin.Context) {
	filters, err := ctrl.productService.Filters()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"filters": filters,
	})
}

// GetProduct returns a product by id or slug
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, err := ctrl.productService.Get(c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// CreateProduct creates a product from a multipart form (Admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("Invalid product form", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Respond(c, err)
		return
	}

	input, err := parseProductForm(form)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	product, err := ctrl.productService.Create(c.Request.Context(), input, imageUploads(form.File["images"]))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": product,
	})
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func invalidField(field, message string) error {
	return apperrors.BadRequest(apperrors.ValidationInvalidInput, fmt.Sprintf("%s %s", field, message))
}

func parseProductForm(form *multipart.Form) (service.CreateProductInput, error) {
	input := service.CreateProductInput{
		Name:        formValue(form, "name"),
		Description: formValue(form, "description"),
		Brand:       formValue(form, "brand"),
	}

	if raw := formValue(form, "price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, invalidField("price", "must be a number")
		}
		input.Price = price
	}
	if raw := formValue(form, "stock"); raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return input, invalidField("stock", "must be an integer")
		}
		input.Stock = stock
	}
	if raw := formValue(form, "featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return input, invalidField("featured", "must be true or false")
		}
		input.Featured = featured
	}

	jsonFields := []struct {
		key    string
		target interface{}
	}{
		{"categories", &input.Categories},
		{"tags", &input.Tags},
		{"variants", &input.Variants},
	}
	for _, f := range jsonFields {
		raw := formValue(form, f.key)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), f.target); err != nil {
			return input, invalidField(f.key, "must be a JSON array")
		}
	}

	return input, nil
}

func imageUploads(files []*multipart.FileHeader) []service.ImageUpload {
	uploads := make([]service.ImageUpload, 0, len(files))
	for _, fh := range files {
		fh := fh
		uploads = append(uploads, service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, err
				}
				return f, nil
			},
		})
	}
	return uploads
}

// UpdateProduct applies a partial update (Admin only)
// PATCH /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, err)
		return
	}

	product, err := ctrl.productService.Update(id, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Product updated successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// DeleteProduct removes a product and its media (Admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := ctrl.productService.Delete(c.Request.Context(), id); err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// ExportProducts streams the catalog as an xlsx workbook (Admin only)
// GET /api/v1/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.productService.Export(&buf); err != nil {
		apperrors.Respond(c, err)
		return
	}

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
