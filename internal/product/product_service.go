package product

import (
	"context"

	"go-storefront/internal/catalog"
	"go-storefront/internal/selection"
)

type Service interface {
	List(ctx context.Context) ([]ProductSummaryResponse, error)
	Get(ctx context.Context, idOrSlug string) (ProductResponse, error)
	Select(ctx context.Context, idOrSlug string, req SelectionRequest) (SelectionResponse, error)
}

type service struct {
	repo catalog.Repository
}

func NewService(repo catalog.Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]ProductSummaryResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProductSummaryResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toSummaryResponse(p))
	}
	return out, nil
}

// Get returns the product with its initial selection, as the product page
// shows it on load.
func (s *service) Get(ctx context.Context, idOrSlug string) (ProductResponse, error) {
	p, err := s.repo.Get(ctx, idOrSlug)
	if err != nil {
		return ProductResponse{}, err
	}

	res := selection.Initial(p)
	return toProductResponse(p, toSelectionResponse(res, selection.Available(p, res.Selection))), nil
}

func (s *service) Select(ctx context.Context, idOrSlug string, req SelectionRequest) (SelectionResponse, error) {
	kind := selection.EventKind(req.Event)
	if !kind.Valid() {
		return SelectionResponse{}, ErrInvalidEvent
	}

	p, err := s.repo.Get(ctx, idOrSlug)
	if err != nil {
		return SelectionResponse{}, err
	}

	res := selection.Resolve(p, selection.Selection{Size: req.Size, Colour: req.Colour}, selection.Event{
		Kind:  kind,
		Value: req.Value,
	})
	return toSelectionResponse(res, selection.Available(p, res.Selection)), nil
}
