package types

import (
	"strings"
	"time"
)

// Rooms describes the room composition of a property.
type Rooms struct {
	Bedrooms  int `json:"bedrooms"`
	Bathrooms int `json:"bathrooms"`
	Hall      int `json:"hall"`
	Kitchen   int `json:"kitchen"`
}

// Property is a farm-house listing. Catalog entries are read-only once loaded.
type Property struct {
	ID              string     `json:"id"`
	SellerID        string     `json:"seller_id,omitempty"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Description     string     `json:"description"`
	Images          []string   `json:"images"`
	WeekdayPrice    float64    `json:"weekday_price"`
	WeekendPrice    float64    `json:"weekend_price"`
	Rating          float64    `json:"rating"`
	ReviewCount     int        `json:"review_count"`
	Tags            []string   `json:"tags"`
	ActiveTags      []string   `json:"active_tags,omitempty"` // purchased tags approved by an admin
	Amenities       []Amenity  `json:"amenities"`
	MaxGuests       int        `json:"max_guests"`
	Location        string     `json:"location"`
	MapEmbed        string     `json:"map_embed,omitempty"`
	Rooms           Rooms      `json:"rooms"`
	Features        []string   `json:"features"`
	ContactApproved bool       `json:"contact_approved"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// PromotionalTags returns Tags followed by any approved ActiveTags not already present.
func (p Property) PromotionalTags() []string {
	if len(p.ActiveTags) == 0 {
		return p.Tags
	}
	out := make([]string, 0, len(p.Tags)+len(p.ActiveTags))
	seen := make(map[string]struct{}, len(p.Tags)+len(p.ActiveTags))
	for _, group := range [][]string{p.Tags, p.ActiveTags} {
		for _, t := range group {
			key := strings.ToLower(t)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

// HasAmenity reports whether the property offers a.
func (p Property) HasAmenity(a Amenity) bool {
	for _, have := range p.Amenities {
		if have == a {
			return true
		}
	}
	return false
}
