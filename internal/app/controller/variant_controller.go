package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

type VariantController struct {
	variantService service.VariantService
}

func NewVariantController(variantService service.VariantService) *VariantController {
	return &VariantController{
		variantService: variantService,
	}
}

// ListVariants returns the variants of a product
// GET /api/v1/products/:id/variants
func (ctrl *VariantController) ListVariants(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	variants, err := ctrl.variantService.List(productID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"variants": variants,
	})
}

// CreateVariant adds a variant to a product (Admin only)
// POST /api/v1/products/:id/variants
func (ctrl *VariantController) CreateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var input service.VariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, err)
		return
	}

	variant, err := ctrl.variantService.Create(productID, input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	log.Info("Variant created successfully", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"variant": variant,
	})
}

// UpdateVariant patches a variant of a product (Admin only)
// PATCH /api/v1/products/:id/variants/:variantId
func (ctrl *VariantController) UpdateVariant(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	variantID, err := parseIDParam(c, "variantId")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var patch service.VariantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apperrors.Respond(c, err)
		return
	}

	variant, err := ctrl.variantService.Update(productID, variantID, patch)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"variant": variant,
	})
}

// DeleteVariant removes a variant of a product (Admin only)
// DELETE /api/v1/products/:id/variants/:variantId
func (ctrl *VariantController) DeleteVariant(c *gin.Context) {
	productID, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	variantID, err := parseIDParam(c, "variantId")
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if err := ctrl.variantService.Delete(productID, variantID); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Variant deleted successfully",
	})
}
