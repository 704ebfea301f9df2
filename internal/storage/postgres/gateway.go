package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-storefront/internal/shared/database/dbgen"
	"go-storefront/internal/storage"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const DefaultChannel = "storefront_state_changed"

// Listener is the subset of *pq.Listener the gateway needs.
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Close() error
}

type ListenerFactory func() (Listener, error)

// Gateway keeps one versioned row per key in storefront_state. Writes and
// their pg_notify run in the same transaction, so a notification is only
// delivered for a committed change.
type Gateway struct {
	db          *sql.DB
	queries     *dbgen.Queries
	channel     string
	logger      *zap.Logger
	newListener ListenerFactory

	mu       sync.Mutex
	listener Listener
	subs     map[string]map[int]func(string)
	nextSub  int
}

func New(db *sql.DB, dsn string, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("postgres_gateway")

	g := &Gateway{
		db:      db,
		queries: dbgen.New(db),
		channel: DefaultChannel,
		logger:  logger,
		subs:    make(map[string]map[int]func(string)),
	}
	g.newListener = func() (Listener, error) {
		return pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Warn("listener event", zap.Int("event", int(ev)), zap.Error(err))
			}
		}), nil
	}
	return g
}

// WithListenerFactory replaces how the LISTEN connection is opened.
func (g *Gateway) WithListenerFactory(f ListenerFactory) *Gateway {
	g.newListener = f
	return g
}

func (g *Gateway) Load(ctx context.Context, key string) (storage.Record, error) {
	row, err := g.queries.GetState(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Record{}, nil
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("get state: %w", err)
	}
	return storage.Record{Data: []byte(row.Data), Version: row.Version}, nil
}

func (g *Gateway) Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error) {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	q := g.queries.WithTx(tx)

	var affected int64
	if expectedVersion == 0 {
		affected, err = q.InsertState(ctx, dbgen.InsertStateParams{
			Key:  key,
			Data: string(data),
		})
	} else {
		affected, err = q.UpdateStateVersioned(ctx, dbgen.UpdateStateVersionedParams{
			Key:     key,
			Data:    string(data),
			Version: expectedVersion,
		})
	}
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("write state: %w", err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return 0, storage.ErrVersionConflict
	}

	if err := q.NotifyStateChanged(ctx, dbgen.NotifyStateChangedParams{
		Channel: g.channel,
		Key:     key,
	}); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("notify: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return expectedVersion + 1, nil
}

func (g *Gateway) Subscribe(ctx context.Context, key string, fn func(string)) (func(), error) {
	if err := g.ensureListener(); err != nil {
		return nil, err
	}

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

// Close stops the LISTEN connection if one was opened.
func (g *Gateway) Close() error {
	g.mu.Lock()
	l := g.listener
	g.listener = nil
	g.mu.Unlock()

	if l == nil {
		return nil
	}
	return l.Close()
}

func (g *Gateway) ensureListener() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.listener != nil {
		return nil
	}

	l, err := g.newListener()
	if err != nil {
		return fmt.Errorf("open listener: %w", err)
	}
	if err := l.Listen(g.channel); err != nil {
		_ = l.Close()
		return fmt.Errorf("listen %s: %w", g.channel, err)
	}

	g.listener = l
	go g.dispatch(l.NotificationChannel())
	return nil
}

func (g *Gateway) dispatch(ch <-chan *pq.Notification) {
	for n := range ch {
		// nil is sent after the listener reconnects; changes may have been
		// missed, so every subscriber is told to re-read.
		if n == nil {
			g.broadcast()
			continue
		}

		g.mu.Lock()
		fns := make([]func(string), 0, len(g.subs[n.Extra]))
		for _, fn := range g.subs[n.Extra] {
			fns = append(fns, fn)
		}
		g.mu.Unlock()

		for _, fn := range fns {
			fn(n.Extra)
		}
	}
}

func (g *Gateway) broadcast() {
	type call struct {
		key string
		fn  func(string)
	}

	g.mu.Lock()
	var calls []call
	for key, fns := range g.subs {
		for _, fn := range fns {
			calls = append(calls, call{key: key, fn: fn})
		}
	}
	g.mu.Unlock()

	for _, c := range calls {
		c.fn(c.key)
	}
}
