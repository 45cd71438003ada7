// Package catalog holds the validated, ordered property collection that
// searches run against, and the sources it can be loaded from.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

// ErrInvalidCatalog wraps every validation failure reported by New.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an immutable snapshot of properties in display order.
type Catalog struct {
	properties []types.Property
	index      map[string]int
}

// New validates props and builds a snapshot. props is deep-copied so later
// changes by the caller do not leak in.
func New(props []types.Property) (*Catalog, error) {
	c := &Catalog{
		properties: make([]types.Property, 0, len(props)),
		index:      make(map[string]int, len(props)),
	}
	var errs []error
	for i, p := range props {
		if err := validate(p); err != nil {
			errs = append(errs, fmt.Errorf("property %d (%q): %w", i, p.ID, err))
			continue
		}
		if _, dup := c.index[p.ID]; dup {
			errs = append(errs, fmt.Errorf("property %d: duplicate id %q", i, p.ID))
			continue
		}
		c.index[p.ID] = len(c.properties)
		c.properties = append(c.properties, clone(p))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(errs...))
	}
	return c, nil
}

// Sanitize splits props into the rows New accepts and one error per row it
// would reject. The first of any duplicate id is kept.
func Sanitize(props []types.Property) ([]types.Property, []error) {
	kept := make([]types.Property, 0, len(props))
	seen := make(map[string]struct{}, len(props))
	var rejected []error
	for i, p := range props {
		if err := validate(p); err != nil {
			rejected = append(rejected, fmt.Errorf("property %d (%q): %w", i, p.ID, err))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			rejected = append(rejected, fmt.Errorf("property %d: duplicate id %q", i, p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		kept = append(kept, p)
	}
	return kept, rejected
}

func validate(p types.Property) error {
	var errs []error
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, errors.New("id is empty"))
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if p.WeekdayPrice <= 0 || p.WeekendPrice <= 0 {
		errs = append(errs, errors.New("prices must be positive"))
	}
	if p.MaxGuests <= 0 {
		errs = append(errs, errors.New("max guests must be positive"))
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, fmt.Errorf("rating %.1f outside 0-5", p.Rating))
	}
	for _, a := range p.Amenities {
		if _, ok := types.LookupAmenity(a); !ok {
			errs = append(errs, fmt.Errorf("unknown amenity %q", a))
		}
	}
	return errors.Join(errs...)
}

func clone(p types.Property) types.Property {
	p.Images = slices.Clone(p.Images)
	p.Tags = slices.Clone(p.Tags)
	p.ActiveTags = slices.Clone(p.ActiveTags)
	p.Amenities = slices.Clone(p.Amenities)
	p.Features = slices.Clone(p.Features)
	return p
}

// Len returns the number of properties.
func (c *Catalog) Len() int { return len(c.properties) }

// Properties returns a copy of the snapshot in catalog order.
func (c *Catalog) Properties() []types.Property {
	out := make([]types.Property, len(c.properties))
	for i, p := range c.properties {
		out[i] = clone(p)
	}
	return out
}

// Get returns the property with id.
func (c *Catalog) Get(id string) (types.Property, bool) {
	i, ok := c.index[id]
	if !ok {
		return types.Property{}, false
	}
	return clone(c.properties[i]), true
}
