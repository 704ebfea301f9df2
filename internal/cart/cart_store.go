package cart

import (
	"context"
	"sync"

	"go-storefront/internal/catalog"
	"go-storefront/internal/pricing"
	"go-storefront/internal/shared/helper"
	"go-storefront/internal/storage"

	"go.uber.org/zap"
)

// Snapshot is what observers receive after every change.
type Snapshot struct {
	Items   []LineItem
	Count   int
	Pricing pricing.Result
}

// Store holds one shopper's cart. Mutations are applied and persisted in call
// order; each one is an atomic read-modify-write against the gateway, so a
// concurrent writer in another context is merged rather than overwritten.
//
// Observers run synchronously after the write and must not mutate the store
// from inside the callback.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	col    *storage.Collection[LineItem]
	engine *pricing.Engine
	logger *zap.Logger

	items []LineItem
	// version of items as last read or written by this store
	version   int64
	observers map[int]func(Snapshot)
	nextObs   int
}

func NewStore(ctx context.Context, col *storage.Collection[LineItem], engine *pricing.Engine, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		col:       col,
		engine:    engine,
		logger:    logger.Named("cart_store").With(zap.String("key", col.Key())),
		observers: make(map[int]func(Snapshot)),
	}

	items, version, err := col.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.items, s.version = items, version
	return s, nil
}

// Add puts qty units of variant v into the cart, merging with an existing
// line for the same product and variant.
func (s *Store) Add(ctx context.Context, p catalog.Product, v catalog.Variant, qty int) (LineItem, error) {
	if qty < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	if !v.InStock() {
		return LineItem{}, ErrNoPurchasableVariant
	}
	if qty > v.Stock {
		return LineItem{}, ErrInsufficientStock
	}

	var added LineItem

	err := s.mutate(ctx, func(items []LineItem) ([]LineItem, error) {
		if i := indexOfVariant(items, p.ID, v.ID); i >= 0 {
			next := items[i].Quantity + qty
			if next > items[i].MaxStock {
				return nil, ErrInsufficientStock
			}
			items[i].Quantity = next
			added = items[i]
			return items, nil
		}

		added = newLineItem(p, v, qty)
		return append(items, added), nil
	})
	return added, err
}

func (s *Store) SetQuantity(ctx context.Context, lineID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	return s.mutate(ctx, func(items []LineItem) ([]LineItem, error) {
		i := indexOf(items, lineID)
		if i < 0 {
			return nil, ErrItemNotFound
		}
		if qty > items[i].MaxStock {
			return nil, ErrInsufficientStock
		}
		items[i].Quantity = qty
		return items, nil
	})
}

func (s *Store) Increment(ctx context.Context, lineID string) error {
	return s.mutate(ctx, func(items []LineItem) ([]LineItem, error) {
		i := indexOf(items, lineID)
		if i < 0 {
			return nil, ErrItemNotFound
		}
		if items[i].Quantity+1 > items[i].MaxStock {
			return nil, ErrInsufficientStock
		}
		items[i].Quantity++
		return items, nil
	})
}

// Decrement lowers the quantity by one, removing the line at zero.
func (s *Store) Decrement(ctx context.Context, lineID string) error {
	return s.mutate(ctx, func(items []LineItem) ([]LineItem, error) {
		i := indexOf(items, lineID)
		if i < 0 {
			return nil, ErrItemNotFound
		}
		if items[i].Quantity <= 1 {
			return append(items[:i], items[i+1:]...), nil
		}
		items[i].Quantity--
		return items, nil
	})
}

// Remove is idempotent.
func (s *Store) Remove(ctx context.Context, lineID string) error {
	return s.mutate(ctx, func(items []LineItem) ([]LineItem, error) {
		i := indexOf(items, lineID)
		if i < 0 {
			return items, nil
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]LineItem) ([]LineItem, error) {
		return []LineItem{}, nil
	})
}

// Reload replaces the in-memory copy with the persisted collection and
// notifies observers.
func (s *Store) Reload(ctx context.Context) error {
	return s.load(ctx, true)
}

// Watch reloads the store whenever another context changes the persisted
// cart, until ctx is done or the returned func is called. Signals for this
// store's own writes are ignored.
func (s *Store) Watch(ctx context.Context) (func(), error) {
	return s.col.Subscribe(ctx, func() {
		if err := s.load(ctx, false); err != nil {
			s.logger.Warn("reload after change signal failed", zap.Error(err))
		}
	})
}

// Subscribe registers fn for snapshots after every change. The returned func
// unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// Count is the total number of units, not lines.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countUnits(s.items)
}

func (s *Store) Price() pricing.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Price(toLines(s.items))
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) load(ctx context.Context, force bool) error {
	s.mu.Lock()
	items, version, err := s.col.Get(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !force && version == s.version {
		s.mu.Unlock()
		return nil
	}
	s.items, s.version = items, version
	s.publishLocked()
	return nil
}

func (s *Store) mutate(ctx context.Context, fn func([]LineItem) ([]LineItem, error)) error {
	s.mu.Lock()

	items, version, err := s.col.Update(ctx, func(current []LineItem) ([]LineItem, error) {
		return fn(cloneItems(current))
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.items, s.version = items, version
	s.publishLocked()
	return nil
}

// publishLocked releases s.mu and notifies observers. notifyMu is taken
// before s.mu is released so notifications keep mutation order.
func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Items:   cloneItems(s.items),
		Count:   countUnits(s.items),
		Pricing: s.engine.Price(toLines(s.items)),
	}
}

func newLineItem(p catalog.Product, v catalog.Variant, qty int) LineItem {
	image := p.PrimaryImage()
	if len(v.Images) > 0 {
		image = v.Images[0]
	}

	return LineItem{
		ID:          LineID(p.ID, v.ID),
		ProductID:   p.ID,
		VariantID:   v.ID,
		Name:        p.Name,
		Price:       helper.DecimalToFloat64(v.Price),
		Image:       image,
		Quantity:    qty,
		Size:        v.Size,
		Colour:      v.Colour,
		ProductCode: p.Code,
		MaxStock:    v.Stock,
	}
}

func indexOf(items []LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfVariant(items []LineItem, productID, variantID string) int {
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func countUnits(items []LineItem) int {
	n := 0
	for _, l := range items {
		n += l.Quantity
	}
	return n
}

func toLines(items []LineItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, l := range items {
		lines = append(lines, pricing.Line{UnitPrice: l.UnitPrice(), Quantity: l.Quantity})
	}
	return lines
}
