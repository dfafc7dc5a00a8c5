package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")

	ErrProductNotFound  = fmt.Errorf("product not found: %w", ErrNotFound)
	ErrVariantNotFound  = fmt.Errorf("variant not found: %w", ErrNotFound)
	ErrCartNotFound     = fmt.Errorf("cart not found: %w", ErrNotFound)
	ErrItemNotFound     = fmt.Errorf("item not found in cart: %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order not found: %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category not found: %w", ErrNotFound)

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exists")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrInvalidSignature   = errors.New("invalid signature")
)
