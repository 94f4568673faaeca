package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrUnknownDriver        = fmt.Errorf("unknown storage driver")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrOrderNotFound    = fmt.Errorf("order not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrCartLineNotFound = fmt.Errorf("cart item not found")

	// 400 Bad Request
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrPriceMustBePositive = fmt.Errorf("price must be positive")
	ErrInvalidQuantity     = fmt.Errorf("quantity must be a positive integer")
	ErrEmptyOrder          = fmt.Errorf("order has no items")
	ErrInvalidOrderStatus  = fmt.Errorf("invalid order status")
	ErrInvalidEmail        = fmt.Errorf("invalid email")
	ErrPasswordRequired    = fmt.Errorf("password is required")
	ErrNameRequired        = fmt.Errorf("name is required")

	// 401 / 403
	ErrUnauthorized       = fmt.Errorf("sign in required")
	ErrInvalidCredentials = fmt.Errorf("invalid email or password")
	ErrWrongPassword      = fmt.Errorf("current password is incorrect")
	ErrForbidden          = fmt.Errorf("forbidden")

	// 409 Conflict
	ErrEmailTaken       = fmt.Errorf("email already in use")
	ErrStatusTransition = fmt.Errorf("order status transition not allowed")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
