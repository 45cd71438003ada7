package catalog

import "github.com/FACorreiaa/farmstay-api/internal/types"

const defaultMapLink = "https://maps.app.goo.gl/NpifxhWJQwwQE1MZ8"

// Seed returns the built-in farm-house listings in display order.
// Each call returns fresh slices.
func Seed() []types.Property {
	return []types.Property{
		{
			ID:          "farm-feast",
			Name:        "Farm Feast Farm House",
			Type:        "1BHK, 2BHK, 3BHK Options",
			Description: "Experience the perfect blend of rustic charm and modern comfort at Farm Feast Farm House. Our property offers flexible accommodation options with 1BHK, 2BHK, and 3BHK configurations to suit your group size and budget.",
			Images: []string{
				"https://images.unsplash.com/photo-1449824913935-59a10b8d2000?w=1024&h=768&fit=crop",
				"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=1024&h=768&fit=crop",
				"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=1024&h=768&fit=crop",
			},
			WeekdayPrice: 3500,
			WeekendPrice: 5000,
			Rating:       4.8,
			ReviewCount:  124,
			Tags:         []string{"Top Rated", "Most Reviewed"},
			Amenities: []types.Amenity{
				types.AmenityWifi, types.AmenityParking, types.AmenityKitchen,
				types.AmenityPool, types.AmenityGarden, types.AmenityBBQ,
			},
			MaxGuests: 12,
			Location:  "Shamirpet, Hyderabad",
			MapEmbed:  defaultMapLink,
			Rooms:     types.Rooms{Bedrooms: 3, Bathrooms: 3, Hall: 1, Kitchen: 1},
			Features: []string{
				"Multiple room configurations (1BHK to 3BHK)",
				"Private swimming pool",
				"Outdoor dining area",
				"Barbecue facilities",
				"Garden and lawn area",
				"Parking for 6 cars",
				"Wi-Fi connectivity",
				"Modern kitchen facilities",
			},
			IsActive: true,
		},
		{
			ID:          "farm-oxygen",
			Name:        "Farm Oxygen",
			Type:        "4BHK Luxury Villa",
			Description: "Indulge in luxury at Farm Oxygen, our premium 4BHK villa designed for those who appreciate the finer things in life. This spacious property combines modern architecture with nature's tranquility.",
			Images: []string{
				"https://images.unsplash.com/photo-1512917774080-9991f1c4c750?w=1024&h=768&fit=crop",
				"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=1024&h=768&fit=crop",
				"https://images.unsplash.com/photo-1600607687939-ce8a6c25118c?w=1024&h=768&fit=crop",
			},
			WeekdayPrice: 8000,
			WeekendPrice: 12000,
			Rating:       4.9,
			ReviewCount:  89,
			Tags:         []string{"Top Rated", "Trending", "Verified"},
			Amenities: []types.Amenity{
				types.AmenityWifi, types.AmenityParking, types.AmenityKitchen,
				types.AmenityPool, types.AmenityGarden, types.AmenityBBQ,
				types.AmenityGym, types.AmenitySpa,
			},
			MaxGuests: 16,
			Location:  "Kompally, Hyderabad",
			MapEmbed:  defaultMapLink,
			Rooms:     types.Rooms{Bedrooms: 4, Bathrooms: 4, Hall: 2, Kitchen: 1},
			Features: []string{
				"Luxurious 4BHK villa",
				"Large swimming pool with jacuzzi",
				"Home gym and spa facilities",
				"Entertainment room with gaming",
				"Spacious outdoor entertainment area",
				"Professional barbecue setup",
				"Landscaped gardens",
				"Parking for 8 cars",
				"High-speed Wi-Fi",
				"Modern designer kitchen",
			},
			IsActive: true,
		},
		{
			ID:          "farm-classy-nature",
			Name:        "Farm Classy Nature",
			Type:        "1BHK Villa + 4 Container Rooms",
			Description: "Experience unique accommodation at Farm Classy Nature, featuring an innovative design with a comfortable 1BHK villa complemented by 4 modern container rooms. Perfect for large groups seeking a distinctive stay.",
			Images: []string{
				"https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=1024&h=768&fit=crop",
				"https://images.unsplash.com/photo-1578683010236-d716f9a3f461?w=1024&h=768&fit=crop",
				"https://images.unsplash.com/photo-1604014237800-1c9102c219da?w=1024&h=768&fit=crop",
			},
			WeekdayPrice: 6000,
			WeekendPrice: 9000,
			Rating:       4.7,
			ReviewCount:  76,
			Tags:         []string{"Most Responsive", "Trending"},
			Amenities: []types.Amenity{
				types.AmenityWifi, types.AmenityParking, types.AmenityKitchen,
				types.AmenityPool, types.AmenityGarden, types.AmenityBBQ,
				types.AmenityUnique,
			},
			MaxGuests: 20,
			Location:  "Medchal, Hyderabad",
			MapEmbed:  defaultMapLink,
			Rooms:     types.Rooms{Bedrooms: 5, Bathrooms: 6, Hall: 1, Kitchen: 1},
			Features: []string{
				"Unique 1BHK villa + 4 container rooms design",
				"Modern container accommodation",
				"Swimming pool and recreational area",
				"Creative architectural design",
				"Perfect for large groups",
				"Outdoor adventure activities",
				"Nature integration design",
				"Parking for 10 cars",
				"Wi-Fi throughout property",
				"Shared kitchen and dining facilities",
			},
			IsActive: true,
		},
	}
}
