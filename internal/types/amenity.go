package types

import (
	"fmt"
	"strings"
)

// Amenity is a facility identifier from the fixed vocabulary below.
type Amenity string

const (
	AmenityWifi    Amenity = "wifi"
	AmenityParking Amenity = "parking"
	AmenityKitchen Amenity = "kitchen"
	AmenityPool    Amenity = "pool"
	AmenityGarden  Amenity = "garden"
	AmenityBBQ     Amenity = "bbq"
	AmenityGym     Amenity = "gym"
	AmenitySpa     Amenity = "spa"
	AmenityUnique  Amenity = "unique"
)

// AmenityCategory groups amenities for display.
type AmenityCategory string

const (
	CategoryEssentials AmenityCategory = "essentials"
	CategoryOutdoor    AmenityCategory = "outdoor"
	CategoryWellness   AmenityCategory = "wellness"
	CategoryExperience AmenityCategory = "experience"
)

// AmenityDescriptor is the display capability attached to an amenity.
type AmenityDescriptor struct {
	ID       Amenity         `json:"id"`
	Label    string          `json:"label"`
	Glyph    string          `json:"glyph"`
	Category AmenityCategory `json:"category"`
}

// amenityVocabulary is ordered the way filter chips are shown.
var amenityVocabulary = []AmenityDescriptor{
	{ID: AmenityWifi, Label: "Wi-Fi", Glyph: "📶", Category: CategoryEssentials},
	{ID: AmenityParking, Label: "Parking", Glyph: "🚗", Category: CategoryEssentials},
	{ID: AmenityKitchen, Label: "Kitchen", Glyph: "🍳", Category: CategoryEssentials},
	{ID: AmenityPool, Label: "Pool", Glyph: "🏊", Category: CategoryOutdoor},
	{ID: AmenityGarden, Label: "Garden", Glyph: "🌳", Category: CategoryOutdoor},
	{ID: AmenityBBQ, Label: "Barbecue", Glyph: "🔥", Category: CategoryOutdoor},
	{ID: AmenityGym, Label: "Gym", Glyph: "🏋️", Category: CategoryWellness},
	{ID: AmenitySpa, Label: "Spa", Glyph: "🧘", Category: CategoryWellness},
	{ID: AmenityUnique, Label: "Unique stay", Glyph: "✨", Category: CategoryExperience},
}

var amenityIndex = func() map[Amenity]AmenityDescriptor {
	idx := make(map[Amenity]AmenityDescriptor, len(amenityVocabulary))
	for _, d := range amenityVocabulary {
		idx[d.ID] = d
	}
	return idx
}()

// Amenities returns a copy of the vocabulary in display order.
func Amenities() []AmenityDescriptor {
	out := make([]AmenityDescriptor, len(amenityVocabulary))
	copy(out, amenityVocabulary)
	return out
}

// LookupAmenity returns the descriptor for a, if it is part of the vocabulary.
func LookupAmenity(a Amenity) (AmenityDescriptor, bool) {
	d, ok := amenityIndex[a]
	return d, ok
}

// NormalizeAmenity lowercases and trims a raw token. It does not validate it.
func NormalizeAmenity(raw string) Amenity {
	return Amenity(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseAmenity normalizes raw and checks it against the vocabulary.
func ParseAmenity(raw string) (Amenity, error) {
	a := NormalizeAmenity(raw)
	if _, ok := amenityIndex[a]; !ok {
		return "", fmt.Errorf("unknown amenity %q", raw)
	}
	return a, nil
}
