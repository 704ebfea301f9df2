package storage

import (
	"context"
	"errors"
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

const (
	CollectionCart     = "cart"
	CollectionWishlist = "wishlist"
)

// ErrVersionConflict is returned by Save when the stored version no longer
// matches the caller's expected version.
var ErrVersionConflict = errors.New("storage: version conflict")

var ErrContention = apperror.New(
	apperror.CodeConflict,
	"Your cart was changed elsewhere, please try again",
	http.StatusConflict,
)

// Record is a stored blob and its version. Version 0 means the key has
// never been written.
type Record struct {
	Data    []byte
	Version int64
}

func (r Record) Exists() bool {
	return r.Version > 0
}

// Gateway is the persistence collaborator: a versioned key-value store with
// change notification. Save is a compare-and-swap on the version, which makes
// read-modify-write safe across tabs and processes.
//
//go:generate mockgen -source=storage.go -destination=../mock/storage/gateway_mock.go -package=mock
type Gateway interface {
	// Load returns an empty Record for a missing key.
	Load(ctx context.Context, key string) (Record, error)
	// Save stores data if the current version equals expectedVersion and
	// returns the new version, or ErrVersionConflict.
	Save(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error)
	// Subscribe calls fn after any context changes key. fn may run on
	// another goroutine. The returned func cancels the subscription.
	Subscribe(ctx context.Context, key string, fn func(key string)) (func(), error)
}

// Key namespaces a collection for one shopper session.
func Key(namespace, collection string) string {
	return namespace + ":" + collection
}
