package selection

import (
	"go-storefront/internal/catalog"
)

// Resolver holds the live selection for one product view. It is not safe for
// concurrent use; one page view owns one Resolver.
type Resolver struct {
	product catalog.Product
	idx     *catalog.Index
	current Resolution
}

func NewResolver(p catalog.Product) *Resolver {
	r := &Resolver{}
	r.Reset(p)
	return r
}

// Reset switches to another product and discards the old selection.
func (r *Resolver) Reset(p catalog.Product) Resolution {
	r.product = p
	r.idx = catalog.BuildIndex(p)
	r.current = initial(r.idx)
	return r.current
}

func (r *Resolver) Apply(ev Event) Resolution {
	r.current = resolve(r.idx, r.current.Selection, ev)
	return r.current
}

func (r *Resolver) PickSize(size string) Resolution {
	return r.Apply(Event{Kind: EventPickSize, Value: size})
}

func (r *Resolver) PickColour(colour string) Resolution {
	return r.Apply(Event{Kind: EventPickColour, Value: colour})
}

func (r *Resolver) ClearSize() Resolution {
	return r.Apply(Event{Kind: EventClearSize})
}

func (r *Resolver) ClearColour() Resolution {
	return r.Apply(Event{Kind: EventClearColour})
}

func (r *Resolver) Current() Resolution {
	return r.current
}

func (r *Resolver) Product() catalog.Product {
	return r.product
}

// Availability is recomputed from the current selection on every call.
func (r *Resolver) Availability() Availability {
	return availability(r.idx, r.current.Selection)
}
