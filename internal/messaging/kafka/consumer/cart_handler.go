package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-storefront/internal/cart"
	"go-storefront/internal/messaging"

	"go.uber.org/zap"
)

var ErrMissingSession = errors.New("delete cart event without session id")

// DeleteCartHandler empties the cart of the session named in the payload.
func DeleteCartHandler(cartService cart.Service, logger *zap.Logger) HandlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var data messaging.DeleteCartPayload
		if err := json.Unmarshal(payload, &data); err != nil {
			return err
		}
		if data.SessionID == "" {
			return ErrMissingSession
		}

		if err := cartService.ClearCart(ctx, data.SessionID); err != nil {
			return err
		}

		logger.Info("cart cleared", zap.String("session_id", data.SessionID))
		return nil
	}
}
