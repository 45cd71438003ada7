// Package listing implements property search: the criteria value, the pure
// filter over a catalog snapshot, and the HTTP surface on top of them.
package listing

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

// PriceBracket is a fixed weekend-price tier.
type PriceBracket string

const (
	PriceAll    PriceBracket = "all"
	PriceBudget PriceBracket = "budget"
	PriceMid    PriceBracket = "mid"
	PriceLuxury PriceBracket = "luxury"
)

const (
	budgetCeiling = 5000
	midCeiling    = 10000
)

// ParsePriceBracket maps a raw selector to a bracket. Anything unknown is PriceAll.
func ParsePriceBracket(raw string) PriceBracket {
	switch b := PriceBracket(strings.ToLower(strings.TrimSpace(raw))); b {
	case PriceBudget, PriceMid, PriceLuxury:
		return b
	default:
		return PriceAll
	}
}

// Contains reports whether a weekend price falls in the bracket.
func (b PriceBracket) Contains(weekendPrice float64) bool {
	switch b {
	case PriceBudget:
		return weekendPrice <= budgetCeiling
	case PriceMid:
		return weekendPrice > budgetCeiling && weekendPrice <= midCeiling
	case PriceLuxury:
		return weekendPrice > midCeiling
	default:
		return true
	}
}

// Label is the dropdown text for the bracket.
func (b PriceBracket) Label() string {
	switch b {
	case PriceBudget:
		return "Budget (Up to ₹5,000)"
	case PriceMid:
		return "Mid-range (₹5,000 - ₹10,000)"
	case PriceLuxury:
		return "Luxury (₹10,000+)"
	default:
		return "All prices"
	}
}

// RatingThreshold is one of the selectable minimum ratings.
type RatingThreshold float64

var ratingThresholds = []RatingThreshold{4.5, 4.0, 3.5}

// RatingThresholds returns the selectable thresholds, highest first.
func RatingThresholds() []RatingThreshold { return slices.Clone(ratingThresholds) }

// ParseRatingThreshold returns nil for "", "all", malformed numbers and
// values outside the selectable set.
func ParseRatingThreshold(raw string) *RatingThreshold {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	for _, t := range ratingThresholds {
		if float64(t) == f {
			v := t
			return &v
		}
	}
	return nil
}

// ParseGuests returns nil for blank, non-numeric or non-positive input.
func ParseGuests(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return nil
	}
	return &n
}

// Criteria is the set of search constraints for one session. It is a value:
// every With method returns an updated copy and leaves the receiver untouched.
type Criteria struct {
	Search    string           `json:"search"`
	Price     PriceBracket     `json:"price_range"`
	MinGuests *int             `json:"guests,omitempty"`
	MinRating *RatingThreshold `json:"rating,omitempty"`
	Amenities []types.Amenity  `json:"amenities"`
}

// DefaultCriteria is the unrestricted state a session starts in.
func DefaultCriteria() Criteria {
	return Criteria{Price: PriceAll, Amenities: []types.Amenity{}}
}

func (c Criteria) clone() Criteria {
	out := c
	if c.MinGuests != nil {
		v := *c.MinGuests
		out.MinGuests = &v
	}
	if c.MinRating != nil {
		v := *c.MinRating
		out.MinRating = &v
	}
	out.Amenities = slices.Clone(c.Amenities)
	if out.Amenities == nil {
		out.Amenities = []types.Amenity{}
	}
	if out.Price == "" {
		out.Price = PriceAll
	}
	return out
}

func (c Criteria) WithSearch(term string) Criteria {
	out := c.clone()
	out.Search = term
	return out
}

func (c Criteria) WithPrice(b PriceBracket) Criteria {
	out := c.clone()
	out.Price = ParsePriceBracket(string(b))
	return out
}

// WithMinGuests sets the guest bound; nil or a non-positive value clears it.
func (c Criteria) WithMinGuests(n *int) Criteria {
	out := c.clone()
	out.MinGuests = nil
	if n != nil && *n > 0 {
		v := *n
		out.MinGuests = &v
	}
	return out
}

func (c Criteria) WithMinRating(t *RatingThreshold) Criteria {
	out := c.clone()
	out.MinRating = nil
	if t != nil && slices.Contains(ratingThresholds, *t) {
		v := *t
		out.MinRating = &v
	}
	return out
}

// WithAmenities replaces the required set. Tokens are normalized and
// deduplicated; unknown tokens are kept and will match no property.
func (c Criteria) WithAmenities(amenities ...types.Amenity) Criteria {
	out := c.clone()
	out.Amenities = normalizeAmenities(amenities)
	return out
}

// ToggleAmenity adds a when absent and removes it when present.
func (c Criteria) ToggleAmenity(a types.Amenity) Criteria {
	out := c.clone()
	a = types.NormalizeAmenity(string(a))
	if a == "" {
		return out
	}
	if i := slices.Index(out.Amenities, a); i >= 0 {
		out.Amenities = slices.Delete(out.Amenities, i, i+1)
		return out
	}
	out.Amenities = append(out.Amenities, a)
	return out
}

// Reset returns the unrestricted defaults in one step.
func (c Criteria) Reset() Criteria { return DefaultCriteria() }

// Criteria fields accepted by Apply and the query string.
const (
	FieldSearch    = "search"
	FieldPrice     = "price_range"
	FieldGuests    = "guests"
	FieldRating    = "rating"
	FieldAmenities = "amenities"
)

// Apply replaces one field from its raw form-control value. Values never
// fail to parse; only an unknown field name is an error.
func (c Criteria) Apply(field, raw string) (Criteria, error) {
	switch field {
	case FieldSearch:
		return c.WithSearch(raw), nil
	case FieldPrice:
		return c.WithPrice(PriceBracket(raw)), nil
	case FieldGuests:
		return c.WithMinGuests(ParseGuests(raw)), nil
	case FieldRating:
		return c.WithMinRating(ParseRatingThreshold(raw)), nil
	case FieldAmenities:
		return c.WithAmenities(splitAmenities(raw)...), nil
	default:
		return c, fmt.Errorf("%w: unknown filter field %q", types.ErrBadRequest, field)
	}
}

// searchTerm is the lowercased, trimmed term; "" means unconstrained.
func (c Criteria) searchTerm() string {
	return strings.ToLower(strings.TrimSpace(c.Search))
}

func (c Criteria) priceActive() bool { return c.Price != "" && c.Price != PriceAll }

// ActiveCount counts active non-search filters, matching the filter badge.
func (c Criteria) ActiveCount() int {
	n := 0
	if c.priceActive() {
		n++
	}
	if c.MinGuests != nil {
		n++
	}
	if c.MinRating != nil {
		n++
	}
	if len(c.Amenities) > 0 {
		n++
	}
	return n
}

// IsDefault reports whether no constraint is active.
func (c Criteria) IsDefault() bool {
	return c.searchTerm() == "" && c.ActiveCount() == 0
}

// Summary lists a label for every active constraint, search included.
func (c Criteria) Summary() []string {
	out := []string{}
	if term := strings.TrimSpace(c.Search); term != "" {
		out = append(out, fmt.Sprintf("Search: %q", term))
	}
	if c.priceActive() {
		out = append(out, "Price: "+c.Price.Label())
	}
	if c.MinGuests != nil {
		out = append(out, fmt.Sprintf("Guests: %d+", *c.MinGuests))
	}
	if c.MinRating != nil {
		out = append(out, fmt.Sprintf("Rating: %.1f+", float64(*c.MinRating)))
	}
	if len(c.Amenities) > 0 {
		labels := make([]string, 0, len(c.Amenities))
		for _, a := range c.Amenities {
			if d, ok := types.LookupAmenity(a); ok {
				labels = append(labels, d.Label)
			} else {
				labels = append(labels, string(a))
			}
		}
		out = append(out, "Amenities: "+strings.Join(labels, ", "))
	}
	return out
}

// CriteriaFromQuery reads criteria from URL query parameters. amenities may be
// a comma list, repeated, or both.
func CriteriaFromQuery(q url.Values) Criteria {
	c := DefaultCriteria().
		WithSearch(q.Get(FieldSearch)).
		WithPrice(PriceBracket(q.Get(FieldPrice))).
		WithMinGuests(ParseGuests(q.Get(FieldGuests))).
		WithMinRating(ParseRatingThreshold(q.Get(FieldRating)))

	var amenities []types.Amenity
	for _, v := range q[FieldAmenities] {
		amenities = append(amenities, splitAmenities(v)...)
	}
	return c.WithAmenities(amenities...)
}

func splitAmenities(raw string) []types.Amenity {
	var out []types.Amenity
	for _, tok := range strings.Split(raw, ",") {
		if a := types.NormalizeAmenity(tok); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func normalizeAmenities(in []types.Amenity) []types.Amenity {
	out := make([]types.Amenity, 0, len(in))
	for _, a := range in {
		a = types.NormalizeAmenity(string(a))
		if a == "" || slices.Contains(out, a) {
			continue
		}
		out = append(out, a)
	}
	return out
}
