package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Name         string    `gorm:"not null"         json:"name"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	Phone        string    `json:"phone"`
	Company      string    `json:"company"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	Verified     bool      `gorm:"default:false"    json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"token"`
	UserID    uuid.UUID `gorm:"index;not null"  json:"user_id"`
	Role      string    `gorm:"not null"        json:"role"`
	ExpiresAt time.Time `gorm:"not null"        json:"expires_at"`
	Revoked   bool      `gorm:"default:false"   json:"revoked"`
}

func (r *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// VerificationCode is a keyed, TTL-bound replacement for the usual in-process
// code map: it survives restarts and is shared across instances. A code is
// only usable while status is pending and ExpiresAt is in the future.
type VerificationCode struct {
	ID        uuid.UUID `gorm:"primaryKey"                       json:"id"`
	Email     string    `gorm:"index:idx_code_email_purpose;not null" json:"email"`
	Purpose   string    `gorm:"index:idx_code_email_purpose;not null" json:"purpose"`
	Code      string    `gorm:"not null"                         json:"-"`
	Status    string    `gorm:"not null;default:pending"         json:"status"`
	ExpiresAt time.Time `gorm:"not null"                         json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *VerificationCode) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

const (
	PurposeVerifyEmail   = "verify_email"
	PurposeResetPassword = "reset_password"

	CodePending  = "pending"
	CodeConsumed = "consumed"
)

type Category struct {
	ID          uuid.UUID  `gorm:"primaryKey"      json:"id"`
	Name        string     `gorm:"not null"        json:"name"`
	Slug        string     `gorm:"unique;not null" json:"slug"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	ParentID    *uuid.UUID `gorm:"index"           json:"parent_id"`
	IsMain      bool       `gorm:"default:false"   json:"is_main"`
	SortOrder   int        `gorm:"default:0"       json:"order"`
	IsActive    bool       `gorm:"default:true"    json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID          uuid.UUID `gorm:"primaryKey"      json:"id"`
	Name        string    `gorm:"not null"        json:"name"`
	Slug        string    `gorm:"unique;not null" json:"slug"`
	Description string    `json:"description"`
	Brand       string    `gorm:"not null;index"  json:"brand"`
	CategoryID  uuid.UUID `gorm:"index;not null"  json:"category_id"`
	Image       string    `json:"image"`
	Features    []string  `gorm:"serializer:json" json:"features"`
	Variants    []Variant `gorm:"foreignKey:ProductID" json:"variants"`
	IsActive    bool      `gorm:"default:true"    json:"is_active"`
	SortOrder   int       `gorm:"default:0"       json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Variant price and stock are nullable on purpose: the catalog admin may list
// a size before pricing it, and the cart view treats a missing price as zero.
type Variant struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	ProductID uuid.UUID `gorm:"index;not null" json:"product_id"`
	Size      string    `gorm:"not null"       json:"size"`
	Price     *float64  `json:"price"`
	Stock     *int64    `json:"stock"`
	SKU       *string   `gorm:"uniqueIndex"    json:"sku"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Cart is one row per user, created lazily on first read or add. Clearing a
// cart deletes its items, never the row.
type Cart struct {
	ID        uuid.UUID  `gorm:"primaryKey"           json:"id"`
	UserID    uuid.UUID  `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID"    json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                    json:"id"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product_variant;not null" json:"cart_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_product_variant;not null" json:"product_id"`
	VariantID uuid.UUID `gorm:"uniqueIndex:idx_cart_product_variant;not null" json:"variant_id"`
	Quantity  uint      `gorm:"not null;check:quantity > 0"                   json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID"                          json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID             uuid.UUID   `gorm:"primaryKey"      json:"id"`
	UserID         uuid.UUID   `gorm:"index;not null"  json:"user_id"`
	Amount         int64       `gorm:"not null"        json:"amount"`
	Currency       string      `gorm:"not null"        json:"currency"`
	Receipt        string      `gorm:"not null"        json:"receipt"`
	GatewayOrderID string      `gorm:"index"           json:"gateway_order_id"`
	PaymentID      string      `json:"payment_id"`
	Status         string      `gorm:"not null;default:created" json:"status"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// OrderItem snapshots the cart line at checkout time. Unlike cart lines, a
// later catalog price change never rewrites a placed order.
type OrderItem struct {
	ID          uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID     uuid.UUID `gorm:"index;not null" json:"order_id"`
	ProductID   uuid.UUID `gorm:"not null"       json:"product_id"`
	VariantID   uuid.UUID `gorm:"not null"       json:"variant_id"`
	ProductName string    `gorm:"not null"       json:"product_name"`
	Size        string    `json:"size"`
	UnitPrice   float64   `gorm:"not null"       json:"unit_price"`
	Quantity    uint      `gorm:"not null"       json:"quantity"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// All tracked models, in migration order.
func All() []any {
	return []any{
		&User{}, &RefreshToken{}, &VerificationCode{},
		&Category{}, &Product{}, &Variant{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{},
	}
}
