package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed or tampered token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email already registered
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"      // password re-check failed

	// ==================== Account lifecycle (ACCOUNT_) ====================
	AccountDeleted        = "ACCOUNT_DELETED"          // account soft-deleted
	AccountRestorable     = "ACCOUNT_RESTORABLE"       // deleted, restore still possible
	AccountRestoreExpired = "ACCOUNT_RESTORE_EXPIRED"  // restore window passed
	AccountRestoreInvalid = "ACCOUNT_RESTORE_INVALID"  // bad restore token

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN" // no access
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	CategoryNotFound  = "CATEGORY_NOT_FOUND"
	ProductOutOfStock = "PRODUCT_OUT_OF_STOCK"
	InsufficientStock = "PRODUCT_INSUFFICIENT_STOCK"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"
	CheckoutInvalid    = "ORDER_CHECKOUT_INVALID" // per-field details attached

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"

	// ==================== Wishlist (WISHLIST_) ====================
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
