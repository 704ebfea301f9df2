package cart

import (
	"context"
	"encoding/json"

	"go-storefront/internal/catalog"
	"go-storefront/internal/messaging"
	"go-storefront/internal/pricing"
	"go-storefront/internal/selection"
	"go-storefront/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Detail(ctx context.Context, sessionID string) (CartResponse, error)
	Count(ctx context.Context, sessionID string) (int, error)

	AddItem(ctx context.Context, sessionID string, req AddItemRequest) (LineItemResponse, error)
	UpdateQty(ctx context.Context, sessionID, lineID string, req UpdateQtyRequest) error

	Increment(ctx context.Context, sessionID, lineID string) error
	Decrement(ctx context.Context, sessionID, lineID string) error

	DeleteItem(ctx context.Context, sessionID, lineID string) error
	ClearCart(ctx context.Context, sessionID string) error
}

type service struct {
	gw        storage.Gateway
	products  catalog.Repository
	engine    *pricing.Engine
	publisher messaging.Publisher
	opts      storage.Options
	logger    *zap.Logger
}

func NewService(
	gw storage.Gateway,
	products catalog.Repository,
	engine *pricing.Engine,
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
		engine:    engine,
		publisher: publisher,
		opts:      opts,
		logger:    logger.Named("cart_service"),
	}
}

// ========================
// helpers
// ========================

func (s *service) parseSessionID(sessionID string) (string, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return "", ErrInvalidSession
	}
	return id.String(), nil
}

// openStore loads the session's cart and wires change events to the
// publisher.
func (s *service) openStore(ctx context.Context, sessionID string) (*Store, error) {
	sid, err := s.parseSessionID(sessionID)
	if err != nil {
		return nil, err
	}

	col := storage.NewCollection[LineItem](s.gw, storage.Key(sid, storage.CollectionCart), s.opts)
	st, err := NewStore(ctx, col, s.engine, s.logger)
	if err != nil {
		return nil, err
	}

	st.Subscribe(func(snap Snapshot) {
		s.publishUpdated(ctx, sid, snap)
	})
	return st, nil
}

func (s *service) publishUpdated(ctx context.Context, sessionID string, snap Snapshot) {
	payload, err := json.Marshal(messaging.CartUpdatedPayload{
		SessionID: sessionID,
		Count:     snap.Count,
		Lines:     len(snap.Items),
		Subtotal:  snap.Pricing.Subtotal.String(),
		Total:     snap.Pricing.Total.String(),
	})
	if err != nil {
		s.logger.Error("encode cart event", zap.Error(err))
		return
	}

	if err := s.publisher.Publish(ctx, messaging.Event{
		Type:          messaging.EventCartUpdated,
		AggregateType: messaging.AggregateCart,
		Key:           sessionID,
		Payload:       payload,
	}); err != nil {
		s.logger.Warn("publish cart event", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// resolveVariant picks the variant to add: explicit ID first, then the
// (size, colour) pair. A single dimension is resolved the way the product
// page would resolve the pick; nothing at all means the initial selection.
func (s *service) resolveVariant(p catalog.Product, req AddItemRequest) (catalog.Variant, error) {
	if req.VariantID != "" {
		v, ok := p.Variant(req.VariantID)
		if !ok {
			return catalog.Variant{}, catalog.ErrVariantNotFound
		}
		return v, nil
	}

	idx := catalog.BuildIndex(p)
	if req.Size != "" && req.Colour != "" {
		v, ok := idx.Pair(req.Size, req.Colour)
		if !ok {
			return catalog.Variant{}, catalog.ErrVariantNotFound
		}
		return v, nil
	}

	res := selection.Initial(p)
	switch {
	case req.Size != "":
		if _, ok := idx.CanonicalSize(req.Size); !ok {
			return catalog.Variant{}, catalog.ErrVariantNotFound
		}
		res = selection.Resolve(p, res.Selection, selection.Event{Kind: selection.EventPickSize, Value: req.Size})
		if !catalog.Same(res.Selection.Size, req.Size) {
			return catalog.Variant{}, ErrNoPurchasableVariant
		}
	case req.Colour != "":
		if _, ok := idx.CanonicalColour(req.Colour); !ok {
			return catalog.Variant{}, catalog.ErrVariantNotFound
		}
		res = selection.Resolve(p, res.Selection, selection.Event{Kind: selection.EventPickColour, Value: req.Colour})
		if !catalog.Same(res.Selection.Colour, req.Colour) {
			return catalog.Variant{}, ErrNoPurchasableVariant
		}
	}
	if !res.Found {
		return catalog.Variant{}, ErrNoPurchasableVariant
	}
	return res.Variant, nil
}

func (s *service) Detail(ctx context.Context, sessionID string) (CartResponse, error) {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return CartResponse{}, err
	}
	return ToCartResponse(st.Snapshot()), nil
}

func (s *service) Count(ctx context.Context, sessionID string) (int, error) {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return st.Count(), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (LineItemResponse, error) {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return LineItemResponse{}, err
	}

	p, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return LineItemResponse{}, err
	}

	v, err := s.resolveVariant(p, req)
	if err != nil {
		return LineItemResponse{}, err
	}

	line, err := st.Add(ctx, p, v, req.Quantity)
	if err != nil {
		return LineItemResponse{}, err
	}

	s.logger.Debug("item added",
		zap.String("line_id", line.ID),
		zap.Int("quantity", line.Quantity),
	)
	return ToLineItemResponse(line), nil
}

func (s *service) UpdateQty(ctx context.Context, sessionID, lineID string, req UpdateQtyRequest) error {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return err
	}
	return st.SetQuantity(ctx, lineID, req.Quantity)
}

func (s *service) Increment(ctx context.Context, sessionID, lineID string) error {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return err
	}
	return st.Increment(ctx, lineID)
}

func (s *service) Decrement(ctx context.Context, sessionID, lineID string) error {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return err
	}
	return st.Decrement(ctx, lineID)
}

func (s *service) DeleteItem(ctx context.Context, sessionID, lineID string) error {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return err
	}
	return st.Remove(ctx, lineID)
}

func (s *service) ClearCart(ctx context.Context, sessionID string) error {
	st, err := s.openStore(ctx, sessionID)
	if err != nil {
		return err
	}
	return st.Clear(ctx)
}
