package wishlist

import (
	"context"
	"sync"

	"go-storefront/internal/catalog"
	"go-storefront/internal/storage"

	"go.uber.org/zap"
)

// Store is the wishlist counterpart of cart.Store: same persistence and
// observer semantics, no pricing.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	col    *storage.Collection[Item]
	logger *zap.Logger

	items     []Item
	version   int64
	observers map[int]func([]Item)
	nextObs   int
}

func NewStore(ctx context.Context, col *storage.Collection[Item], logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	items, version, err := col.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &Store{
		col:       col,
		logger:    logger.Named("wishlist_store").With(zap.String("key", col.Key())),
		items:     items,
		version:   version,
		observers: make(map[int]func([]Item)),
	}, nil
}

// Toggle adds p when absent and removes it when present. It reports whether
// p is in the wishlist afterwards.
func (s *Store) Toggle(ctx context.Context, p catalog.Product) (bool, error) {
	var present bool
	err := s.mutate(ctx, func(items []Item) []Item {
		if i := indexOf(items, p.ID); i >= 0 {
			present = false
			return append(items[:i], items[i+1:]...)
		}
		present = true
		return append(items, NewItem(p))
	})
	return present, err
}

// Remove is idempotent.
func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(items []Item) []Item {
		if i := indexOf(items, productID); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})
}

func (s *Store) Has(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.items, productID) >= 0
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) Subscribe(fn func([]Item)) func() {
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

func (s *Store) Reload(ctx context.Context) error {
	return s.load(ctx, true)
}

// Watch skips signals caused by this store's own writes.
func (s *Store) Watch(ctx context.Context) (func(), error) {
	return s.col.Subscribe(ctx, func() {
		if err := s.load(ctx, false); err != nil {
			s.logger.Warn("reload after change signal failed", zap.Error(err))
		}
	})
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

func (s *Store) mutate(ctx context.Context, fn func([]Item) []Item) error {
	s.mu.Lock()

	items, version, err := s.col.Update(ctx, func(current []Item) ([]Item, error) {
		return fn(cloneItems(current)), nil
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.items, s.version = items, version
	s.publishLocked()
	return nil
}

func (s *Store) publishLocked() {
	snap := cloneItems(s.items)
	fns := make([]func([]Item), 0, len(s.observers))
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

func indexOf(items []Item, productID string) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
