package errors

// Error codes returned alongside messages so clients can branch without string matching.
// Format: CATEGORY_DETAIL

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthMissingCredentials = "AUTH_MISSING_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthRefreshRequired    = "AUTH_REFRESH_TOKEN_REQUIRED"
	AuthRefreshInvalid     = "AUTH_REFRESH_TOKEN_INVALID"
	AuthUserExists         = "AUTH_USER_EXISTS"

	// Authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationDuplicate    = "VALIDATION_DUPLICATE_VALUE"

	// Resources
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	RouteNotFound    = "ROUTE_NOT_FOUND"

	// Catalog
	ProductNotFound      = "PRODUCT_NOT_FOUND"
	ProductNameTaken     = "PRODUCT_NAME_TAKEN"
	ProductImageRequired = "PRODUCT_IMAGE_REQUIRED"
	ProductImageInvalid  = "PRODUCT_IMAGE_INVALID"
	VariantNotFound      = "VARIANT_NOT_FOUND"
	VariantMismatch      = "VARIANT_PRODUCT_MISMATCH"
	CategoryNotFound     = "CATEGORY_NOT_FOUND"

	// Cart and orders
	CartNotFound              = "CART_NOT_FOUND"
	CartItemNotFound          = "CART_ITEM_NOT_FOUND"
	CartEmpty                 = "CART_EMPTY"
	CartInvalidQuantity       = "CART_INVALID_QUANTITY"
	OrderNotFound             = "ORDER_NOT_FOUND"
	OrderInvalidPaymentStatus = "ORDER_INVALID_PAYMENT_STATUS"

	// Reviews
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewCommentEmpty  = "REVIEW_COMMENT_REQUIRED"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// Wishlist
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"

	// Server
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
