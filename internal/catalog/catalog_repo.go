package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:generate mockgen -source=catalog_repo.go -destination=../mock/catalog/catalog_repo_mock.go -package=mock
type Repository interface {
	// Get resolves a product by ID or slug.
	Get(ctx context.Context, idOrSlug string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}

type memoryRepository struct {
	mu       sync.RWMutex
	products []Product
	byID     map[string]int
	bySlug   map[string]int
}

func NewMemoryRepository(products ...Product) Repository {
	r := &memoryRepository{
		byID:   make(map[string]int, len(products)),
		bySlug: make(map[string]int, len(products)),
	}
	for _, p := range products {
		r.add(p)
	}
	return r
}

func (r *memoryRepository) add(p Product) {
	if i, ok := r.byID[p.ID]; ok {
		r.products[i] = p
		return
	}
	r.products = append(r.products, p)
	r.byID[p.ID] = len(r.products) - 1
	if p.Slug != "" {
		r.bySlug[strings.ToLower(p.Slug)] = len(r.products) - 1
	}
}

func (r *memoryRepository) Get(ctx context.Context, idOrSlug string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i, ok := r.byID[idOrSlug]; ok {
		return r.products[i], nil
	}
	if i, ok := r.bySlug[strings.ToLower(idOrSlug)]; ok {
		return r.products[i], nil
	}
	return Product{}, ErrProductNotFound
}

func (r *memoryRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.products))
	copy(out, r.products)
	return out, nil
}

// LoadFile reads a YAML (.yaml/.yml) or JSON catalog seed. Products that fail
// normalization are logged and skipped rather than failing the load.
func LoadFile(path string, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var raws []RawProduct
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raws)
	default:
		err = json.Unmarshal(data, &raws)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	return FromRaw(raws, logger), nil
}

// FromRaw normalizes a batch of raw products into a repository.
func FromRaw(raws []RawProduct, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	products := make([]Product, 0, len(raws))
	for _, raw := range raws {
		p, issues, err := NewProduct(raw)
		for _, issue := range issues {
			logger.Warn("catalog variant dropped",
				zap.String("product_id", raw.ID),
				zap.String("issue", issue.String()),
			)
		}
		if err != nil {
			logger.Warn("catalog product skipped", zap.String("product_id", raw.ID), zap.Error(err))
			continue
		}
		products = append(products, p)
	}

	logger.Info("catalog loaded", zap.Int("products", len(products)))
	return NewMemoryRepository(products...)
}
