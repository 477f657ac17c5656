package service

import (
	"context"
	"fmt"
	"time"

	"github.com/promiseee/pizza-delivery-api/internal/logging"
	"github.com/promiseee/pizza-delivery-api/internal/models"
	"github.com/promiseee/pizza-delivery-api/internal/mykafka"
	"github.com/promiseee/pizza-delivery-api/internal/repo"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Policy   *AuthPolicy
	Producer *mykafka.Producer
}

// UpdateOrderInput carries the owner-editable fields. Nil means unchanged.
type UpdateOrderInput struct {
	Size     *string
	Flavour  *string
	Quantity *int
}

// ListOrders returns every order regardless of requester. The missing
// ownership filter matches the original API surface.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) PlaceOrder(ctx context.Context, identity, flavour string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	parsed, ok := models.ParseOrderFlavour(flavour)
	if !ok {
		return nil, fmt.Errorf("%w: unknown flavour %q", ErrValidation, flavour)
	}

	user, err := s.Repo.UserByUsername(ctx, identity)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, identity)
		}
		return nil, err
	}

	order := &models.Order{
		Size:     models.SizeSmall,
		Quantity: 1,
		Flavour:  parsed,
		Status:   models.StatusPending,
		UserID:   user.ID,
	}

	if _, err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("place_order_error", "error", err)
		return nil, err
	}

	s.publish(ctx, fmt.Sprint(order.ID), map[string]interface{}{
		"type":     "order_placed",
		"order_id": order.ID,
		"user_id":  user.ID,
		"flavour":  string(order.Flavour),
	})

	return order, nil
}

// GetOrder performs no ownership check, like the original read-by-id.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

// UpdateOrder lets only the owner change size, flavour and quantity. There is
// no status guard here: the original allowed edits in any state.
func (s *OrderService) UpdateOrder(ctx context.Context, identity string, id uint, in UpdateOrderInput) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Policy.RequireOwnership(ctx, order.UserID, identity); err != nil {
		return nil, err
	}

	if in.Size != nil {
		size, ok := models.ParseOrderSize(*in.Size)
		if !ok {
			return nil, fmt.Errorf("%w: unknown size %q", ErrValidation, *in.Size)
		}
		order.Size = size
	}
	if in.Flavour != nil {
		flavour, ok := models.ParseOrderFlavour(*in.Flavour)
		if !ok {
			return nil, fmt.Errorf("%w: unknown flavour %q", ErrValidation, *in.Flavour)
		}
		order.Flavour = flavour
	}
	if in.Quantity != nil {
		if *in.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
		order.Quantity = *in.Quantity
	}

	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder is owner-only and allowed only while the order is still pending.
func (s *OrderService) DeleteOrder(ctx context.Context, identity string, id uint) error {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Policy.RequireOwnership(ctx, order.UserID, identity); err != nil {
		return err
	}

	if order.Status != models.StatusPending {
		return fmt.Errorf("%w: order already in production", ErrConflict)
	}

	return s.Repo.DeleteOrder(ctx, order.ID)
}

// UpdateStatus is staff-gated on the live is_staff flag. The transition itself
// is unconditional on the current state.
func (s *OrderService) UpdateStatus(ctx context.Context, identity string, id uint, status string) (*models.Order, error) {
	staff, err := s.Policy.LiveStaffCheck(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !staff {
		return nil, fmt.Errorf("%w: staff only", ErrForbidden)
	}

	parsed, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Status = parsed
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, fmt.Sprint(order.ID), map[string]interface{}{
		"type":     "order_status_updated",
		"order_id": order.ID,
		"status":   string(order.Status),
	})

	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	if _, err := s.Repo.UserByID(ctx, userID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) GetUserOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	if _, err := s.Repo.UserByID(ctx, userID); err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	order, err := s.Repo.OrderByIDForUser(ctx, userID, orderID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: order %d for user %d", ErrNotFound, orderID, userID)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, key string, event map[string]interface{}) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, mykafka.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "topic", mykafka.TopicOrderEvents, "error", err)
	}
}
