package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/transport"
)

// CartService keeps the cart as a thin reference list and resolves prices
// against the live catalog on every read. A price change therefore changes
// the displayed total of lines added earlier; nothing is snapshotted until
// checkout.
type CartService struct {
	Repo *repo.GormRepo
}

// GetCart returns the cart view, creating an empty cart on first touch.
// Repeated calls return the same cart.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.viewOf(ctx, cart.ID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID, variantID uuid.UUID, quantity uint) (*transport.CartView, error) {
	if productID == uuid.Nil || variantID == uuid.Nil || quantity == 0 {
		return nil, fmt.Errorf("productId, variantId and quantity are required: %w", ErrValidation)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if findVariant(product, variantID) == nil {
		return nil, ErrVariantNotFound
	}

	if err := s.Repo.UpsertCartItem(ctx, cart.ID, productID, variantID, quantity); err != nil {
		return nil, err
	}
	return s.viewOf(ctx, cart.ID)
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity uint) (*transport.CartView, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	ok, err := s.Repo.SetCartItemQuantity(ctx, cart.ID, itemID, quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrItemNotFound
	}
	return s.viewOf(ctx, cart.ID)
}

// RemoveItem drops the line if it exists. An unknown item id returns the
// unchanged cart, not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	if err := s.Repo.RemoveCartItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.viewOf(ctx, cart.ID)
}

// ClearCart empties the items. The cart row survives, so a later GetCart
// returns the same cart id.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartNotFound
		}
		return err
	}
	return s.Repo.ClearCartItems(ctx, cart.ID)
}

func (s *CartService) viewOf(ctx context.Context, cartID uuid.UUID) (*transport.CartView, error) {
	items, err := s.Repo.LoadCartItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return buildCartView(items), nil
}

// buildCartView joins cart lines against whatever the catalog currently says.
// A dangling product or variant reference degrades the line to a zero-priced,
// variant-less row instead of failing the request or hiding the line.
func buildCartView(items []models.CartItem) *transport.CartView {
	view := &transport.CartView{
		Success: true,
		Items:   make([]transport.CartLine, 0, len(items)),
	}

	for _, item := range items {
		line := transport.CartLine{
			ID:       item.ID,
			Quantity: item.Quantity,
		}

		if item.Product != nil {
			line.Product = transport.CartLineProduct{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Brand: item.Product.Brand,
				Image: item.Product.Image,
			}
			if variant := findVariant(item.Product, item.VariantID); variant != nil {
				price := 0.0
				if variant.Price != nil {
					price = *variant.Price
				}
				line.Product.Price = price
				line.Variant = &transport.CartLineVariant{
					Size:  variant.Size,
					Stock: variant.Stock,
				}
				line.TotalPrice = price * float64(item.Quantity)
			}
		}

		view.Items = append(view.Items, line)
	}
	return view
}

func findVariant(product *models.Product, variantID uuid.UUID) *models.Variant {
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i]
		}
	}
	return nil
}
