package memory

import (
	"context"
	"sync"

	"go-storefront/internal/storage"
)

// Gateway keeps records in process memory. Subscribers are notified on their
// own goroutine so a callback may safely read back through the gateway.
type Gateway struct {
	mu      sync.Mutex
	records map[string]storage.Record
	subs    map[string]map[int]func(string)
	nextSub int
}

func New() *Gateway {
	return &Gateway{
		records: make(map[string]storage.Record),
		subs:    make(map[string]map[int]func(string)),
	}
}

func (g *Gateway) Load(_ context.Context, key string) (storage.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[key]
	if !ok {
		return storage.Record{}, nil
	}
	return storage.Record{Data: clone(rec.Data), Version: rec.Version}, nil
}

func (g *Gateway) Save(_ context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	g.mu.Lock()
	current := g.records[key].Version
	if current != expectedVersion {
		g.mu.Unlock()
		return 0, storage.ErrVersionConflict
	}

	next := current + 1
	g.records[key] = storage.Record{Data: clone(data), Version: next}

	fns := make([]func(string), 0, len(g.subs[key]))
	for _, fn := range g.subs[key] {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		go fn(key)
	}
	return next, nil
}

func (g *Gateway) Subscribe(ctx context.Context, key string, fn func(string)) (func(), error) {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	if g.subs[key] == nil {
		g.subs[key] = make(map[int]func(string))
	}
	g.subs[key][id] = fn
	g.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			delete(g.subs[key], id)
			if len(g.subs[key]) == 0 {
				delete(g.subs, key)
			}
		})
	}

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			cancel()
		}()
	}
	return cancel, nil
}

// Subscribers reports how many callbacks are registered for key.
func (g *Gateway) Subscribers(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs[key])
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
