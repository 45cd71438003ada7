package listing

import (
	"strings"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

// Filter returns the properties that satisfy every active constraint in c,
// in catalog order. It never mutates its inputs and never fails: an empty
// result is the only observable "miss".
func Filter(properties []types.Property, c Criteria) []types.Property {
	out := make([]types.Property, 0, len(properties))
	term := c.searchTerm()
	for _, p := range properties {
		if matches(p, c, term) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p satisfies c.
func Matches(p types.Property, c Criteria) bool {
	return matches(p, c, c.searchTerm())
}

func matches(p types.Property, c Criteria, term string) bool {
	if term != "" && !matchesSearch(p, term) {
		return false
	}
	if !c.Price.Contains(p.WeekendPrice) {
		return false
	}
	if c.MinGuests != nil && p.MaxGuests < *c.MinGuests {
		return false
	}
	if c.MinRating != nil && p.Rating < float64(*c.MinRating) {
		return false
	}
	for _, a := range c.Amenities {
		if !p.HasAmenity(a) {
			return false
		}
	}
	return true
}

// matchesSearch expects term already lowercased.
func matchesSearch(p types.Property, term string) bool {
	if containsFold(p.Name, term) || containsFold(p.Location, term) || containsFold(p.Type, term) {
		return true
	}
	for _, tag := range p.PromotionalTags() {
		if containsFold(tag, term) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(s), lowerTerm)
}
