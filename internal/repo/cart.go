package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
)

// GetOrCreateCart returns the user's cart, creating an empty one on first
// touch. The unique index on user_id keeps concurrent first touches from
// producing two carts.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Where(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetCart never creates; callers that want 404-on-missing use this one.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LoadCartItems returns the cart's items in insertion order with live product
// and variant data joined in. Items whose product is gone come back with a nil
// Product; the service degrades those lines rather than dropping them.
func (r *GormRepo) LoadCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Preload("Product.Variants").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertCartItem atomically increments an existing (product, variant) line or
// inserts a new one. The increment runs store-side so two concurrent adds
// cannot lose each other's quantity.
func (r *GormRepo) UpsertCartItem(ctx context.Context, cartID, productID, variantID uuid.UUID, quantity uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, variantID).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		item := models.CartItem{
			CartID:    cartID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		}
		return tx.Create(&item).Error
	})
}

// SetCartItemQuantity sets an absolute quantity. Returns false when no item
// with that id exists in the cart.
func (r *GormRepo) SetCartItemQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RemoveCartItem deletes the line if present. An unknown id is a no-op, not
// an error.
func (r *GormRepo) RemoveCartItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{}).Error
}

// ClearCartItems empties the cart in place; the cart row itself stays.
func (r *GormRepo) ClearCartItems(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
