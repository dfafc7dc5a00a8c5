package transport

import "github.com/google/uuid"

// Cart view, resolved against the live catalog at read time. Field names match
// the storefront client, which still speaks the Mongo-era `_id` dialect.
type CartView struct {
	Success bool       `json:"success"`
	Items   []CartLine `json:"items"`
}

type CartLine struct {
	ID         uuid.UUID        `json:"_id"`
	Product    CartLineProduct  `json:"product"`
	Variant    *CartLineVariant `json:"variant"`
	Quantity   uint             `json:"quantity"`
	TotalPrice float64          `json:"totalPrice"`
}

type CartLineProduct struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Brand string    `json:"brand"`
	Image string    `json:"image"`
	Price float64   `json:"price"`
}

type CartLineVariant struct {
	Size  string `json:"size"`
	Stock *int64 `json:"stock"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId"`
	VariantID uuid.UUID `json:"variantId"`
	Quantity  uint      `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity uint `json:"quantity"`
}

type CreateVariantRequest struct {
	Size  string   `json:"size"`
	Price *float64 `json:"price"`
	Stock *int64   `json:"stock"`
	SKU   *string  `json:"sku"`
}

type CreateProductRequest struct {
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description"`
	Brand       string                 `json:"brand"`
	CategoryID  uuid.UUID              `json:"category_id"`
	Image       string                 `json:"image"`
	Features    []string               `json:"features"`
	Variants    []CreateVariantRequest `json:"variants"`
	SortOrder   int                    `json:"order"`
}

type PatchProductRequest struct {
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Brand       *string    `json:"brand"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Image       *string    `json:"image"`
	Features    *[]string  `json:"features"`
	IsActive    *bool      `json:"is_active"`
	SortOrder   *int       `json:"order"`

	// When present, replaces the product's variant list wholesale. Existing
	// variant ids are kept when the entry carries one, so cart references
	// survive an edit that only changes price or stock.
	Variants *[]PatchVariantRequest `json:"variants"`
}

type PatchVariantRequest struct {
	ID    *uuid.UUID `json:"id"`
	Size  string     `json:"size"`
	Price *float64   `json:"price"`
	Stock *int64     `json:"stock"`
	SKU   *string    `json:"sku"`
}

type CreateCategoryRequest struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsMain      bool       `json:"is_main"`
	SortOrder   int        `json:"order"`
}

type PatchCategoryRequest struct {
	Name        *string    `json:"name"`
	Slug        *string    `json:"slug"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsMain      *bool      `json:"is_main"`
	IsActive    *bool      `json:"is_active"`
	SortOrder   *int       `json:"order"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsAdmin      bool   `json:"is_admin"`
}

type CreatePaymentOrderRequest struct {
	Amount int64 `json:"amount"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
