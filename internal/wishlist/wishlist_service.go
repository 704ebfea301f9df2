package wishlist

import (
	"context"
	"encoding/json"
	"strings"

	"go-storefront/internal/catalog"
	"go-storefront/internal/messaging"
	"go-storefront/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, sessionID string) (WishlistResponse, error)
	Toggle(ctx context.Context, sessionID, productID string) (ToggleResponse, error)
	Has(ctx context.Context, sessionID, productID string) (HasResponse, error)
	Delete(ctx context.Context, sessionID, productID string) error
}

type service struct {
	gw        storage.Gateway
	products  catalog.Repository
	publisher messaging.Publisher
	opts      storage.Options
	logger    *zap.Logger
}

func NewService(
	gw storage.Gateway,
	products catalog.Repository,
	publisher messaging.Publisher,
	opts storage.Options,
	logger *zap.Logger,
) Service {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Logger = logger
	return &service{
		gw:        gw,
		products:  products,
		publisher: publisher,
		opts:      opts,
		logger:    logger.Named("wishlist_service"),
	}
}

func (s *service) openStore(ctx context.Context, sessionID string) (*Store, string, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, "", ErrInvalidSession
	}
	sid := id.String()

	col := storage.NewCollection[Item](s.gw, storage.Key(sid, storage.CollectionWishlist), s.opts)
	st, err := NewStore(ctx, col, s.logger)
	if err != nil {
		return nil, "", err
	}

	st.Subscribe(func(items []Item) {
		s.publishUpdated(ctx, sid, items)
	})
	return st, sid, nil
}

func (s *service) publishUpdated(ctx context.Context, sessionID string, items []Item) {
	ids := make([]string, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ProductID)
	}

	payload, err := json.Marshal(messaging.WishlistUpdatedPayload{
		SessionID:  sessionID,
		Count:      len(items),
		ProductIDs: ids,
	})
	if err != nil {
		s.logger.Error("encode wishlist event", zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, messaging.Event{
		Type:          messaging.EventWishlistUpdated,
		AggregateType: messaging.AggregateWishlist,
		Key:           sessionID,
		Payload:       payload,
	}); err != nil {
		s.logger.Warn("publish wishlist event", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (s *service) List(ctx context.Context, sessionID string) (WishlistResponse, error) {
	st, _, err := s.openStore(ctx, sessionID)
	if err != nil {
		return WishlistResponse{}, err
	}
	return ToWishlistResponse(st.Items()), nil
}

func (s *service) Toggle(ctx context.Context, sessionID, productID string) (ToggleResponse, error) {
	if strings.TrimSpace(productID) == "" {
		return ToggleResponse{}, ErrInvalidProductID
	}

	st, _, err := s.openStore(ctx, sessionID)
	if err != nil {
		return ToggleResponse{}, err
	}

	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return ToggleResponse{}, err
	}

	present, err := st.Toggle(ctx, p)
	if err != nil {
		return ToggleResponse{}, err
	}

	return ToggleResponse{
		ProductID:  p.ID,
		InWishlist: present,
		ItemCount:  st.Count(),
	}, nil
}

// Has accepts a slug as well as an ID; an unknown product is simply absent.
func (s *service) Has(ctx context.Context, sessionID, productID string) (HasResponse, error) {
	st, _, err := s.openStore(ctx, sessionID)
	if err != nil {
		return HasResponse{}, err
	}

	id := productID
	if p, err := s.products.Get(ctx, productID); err == nil {
		id = p.ID
	}
	return HasResponse{ProductID: id, InWishlist: st.Has(id)}, nil
}

func (s *service) Delete(ctx context.Context, sessionID, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return ErrInvalidProductID
	}

	st, _, err := s.openStore(ctx, sessionID)
	if err != nil {
		return err
	}

	id := productID
	if p, err := s.products.Get(ctx, productID); err == nil {
		id = p.ID
	}
	return st.Remove(ctx, id)
}
