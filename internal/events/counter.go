package events

import (
	"context"

	"go-storefront/internal/cart"
	"go-storefront/internal/wishlist"
)

type serviceCounter struct {
	cart     cart.Service
	wishlist wishlist.Service
}

// NewServiceCounter adapts the cart and wishlist services to Counter.
func NewServiceCounter(c cart.Service, w wishlist.Service) Counter {
	return &serviceCounter{cart: c, wishlist: w}
}

func (s *serviceCounter) CartCount(ctx context.Context, sessionID string) (int, error) {
	return s.cart.Count(ctx, sessionID)
}

func (s *serviceCounter) WishlistCount(ctx context.Context, sessionID string) (int, error) {
	res, err := s.wishlist.List(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return res.ItemCount, nil
}
