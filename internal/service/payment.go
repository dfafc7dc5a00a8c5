package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/events"
	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/razorpay"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/pkg/logging"
)

type PaymentService struct {
	Repo     *repo.GormRepo
	Gateway  *razorpay.Client
	Producer *events.Producer
}

// CreateOrder registers a gateway order for the given amount (paise) and
// persists it with a snapshot of the user's current resolvable cart lines.
// Snapshotting here is what pins prices: until checkout the cart always shows
// live catalog prices.
func (s *PaymentService) CreateOrder(ctx context.Context, userID uuid.UUID, amount int64) (*razorpay.Order, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0: %w", ErrValidation)
	}

	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	gwOrder, err := s.Gateway.CreateOrder(ctx, amount, "INR", receipt)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:         userID,
		Amount:         amount,
		Currency:       gwOrder.Currency,
		Receipt:        receipt,
		GatewayOrderID: gwOrder.ID,
		Status:         models.OrderCreated,
		Items:          s.snapshotCart(ctx, userID),
	}
	if err := s.Repo.CreateOrder(ctx, &order); err != nil {
		return nil, err
	}

	return gwOrder, nil
}

// VerifyPayment checks the checkout signature, marks the order paid and
// empties the cart. A bad signature never touches the order.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID uuid.UUID, orderID, paymentID, signature string) (*models.Order, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, fmt.Errorf("order id, payment id and signature are required: %w", ErrValidation)
	}
	if !s.Gateway.VerifySignature(orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	order, err := s.Repo.GetOrderByGatewayID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.Repo.MarkOrderPaid(ctx, order.ID, paymentID); err != nil {
		return nil, err
	}
	order.Status = models.OrderPaid
	order.PaymentID = paymentID

	if cart, err := s.Repo.GetCart(ctx, userID); err == nil {
		if err := s.Repo.ClearCartItems(ctx, cart.ID); err != nil {
			logging.FromContext(ctx).Error("cart clear after payment failed", "user_id", userID, "error", err)
		}
	}

	s.publish(ctx, order.ID.String(), map[string]any{
		"type":      "order_paid",
		"orderID":   order.ID,
		"userID":    order.UserID,
		"amount":    order.Amount,
		"paymentID": paymentID,
	})
	return order, nil
}

func (s *PaymentService) GetOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.GetOrdersForUser(ctx, userID)
}

// snapshotCart copies the resolvable cart lines into order items. Lines whose
// product or variant is gone carry no price and are skipped.
func (s *PaymentService) snapshotCart(ctx context.Context, userID uuid.UUID) []models.OrderItem {
	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil
	}
	items, err := s.Repo.LoadCartItems(ctx, cart.ID)
	if err != nil {
		return nil
	}

	var out []models.OrderItem
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		variant := findVariant(item.Product, item.VariantID)
		if variant == nil {
			continue
		}
		price := 0.0
		if variant.Price != nil {
			price = *variant.Price
		}
		out = append(out, models.OrderItem{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.Product.Name,
			Size:        variant.Size,
			UnitPrice:   price,
			Quantity:    item.Quantity,
		})
	}
	return out
}

func (s *PaymentService) publish(ctx context.Context, key string, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "error", err)
	}
}
