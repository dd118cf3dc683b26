package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a parsed error: a stable code plus a message safe to
// show users.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a database or lower-level error into an
// ErrorInfo. Sensitive detail stays out of the message; the context
// string (e.g. "product", "order create") steers the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// PostgreSQL constraint violations.

	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr)
	}

	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr)
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The service is temporarily unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email is already registered",
		}
	}

	if strings.Contains(errLower, "idx_review_product_user") ||
		(strings.Contains(errLower, "reviews") && strings.Contains(errLower, "user_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "You have already reviewed this product",
		}
	}

	if strings.Contains(errLower, "idx_cart_user_product") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "This product is already in your cart",
		}
	}

	if strings.Contains(errLower, "slug") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This identifier is already in use",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This entry already exists",
	}
}

func parseForeignKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Other records depend on this entry, so it cannot be deleted",
		}
	}

	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The product no longer exists",
		}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The category no longer exists",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The user no longer exists",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Name is required"}
	}
	if strings.Contains(errLower, "price") {
		return ErrorInfo{Code: ValidationRequired, Message: "Price is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func parseCheckConstraintError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "rating") {
		return ErrorInfo{
			Code:    ReviewInvalidRating,
			Message: "Rating must be between 1 and 5",
		}
	}
	if strings.Contains(errLower, "stock") || strings.Contains(errLower, "quantity") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "Quantity is out of range",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "One of the submitted values is invalid",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "product"):
		return "Product not found"
	case strings.Contains(contextLower, "category"):
		return "Category not found"
	case strings.Contains(contextLower, "cart"):
		return "Cart item not found"
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "review"):
		return "Review not found"
	case strings.Contains(contextLower, "wishlist"):
		return "Wishlist item not found"
	case strings.Contains(contextLower, "user"):
		return "User not found"
	}
	return "The requested record could not be found"
}

// ParseAndRespond parses err and writes the standard error body.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not create the record. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Could not update the record. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete the record. Please try again later"
	case strings.Contains(contextLower, "checkout"), strings.Contains(contextLower, "order"):
		return "Could not place the order. Please try again later"
	}
	return "Something went wrong. Please try again later"
}
