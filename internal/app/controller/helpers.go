package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &apperrors.InvalidIDError{Field: name, Value: raw}
	}
	return uint(id), nil
}

// currentUserID returns the authenticated caller. Routes using it sit behind
// Authenticate, so a missing id is answered as unauthenticated.
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthUnauthorized, "Not authorized, no token")
		return 0, false
	}
	return userID, true
}
