package catalog

import (
	"context"

	"rainbow-properties/internal/models"
)

// SeedSamples populates the demo listings, but only into an empty catalog.
// Returns the number of properties created (0 when the catalog already has
// entries).
func (s *Service) SeedSamples(ctx context.Context, callerID string) (int, error) {
	existing, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, p := range sampleProperties() {
		if _, err := s.Create(ctx, p, callerID); err != nil {
			return 0, err
		}
	}
	return len(sampleProperties()), nil
}

func sampleProperties() []models.Property {
	return []models.Property{
		{
			Title:       "Modern Family Home in Sandton",
			Description: "Beautiful modern family home with spacious rooms and contemporary finishes. Perfect for families looking for luxury and comfort in the heart of Sandton.",
			Price:       2850000,
			Location:    "123 Main Street, Sandton",
			City:        "Johannesburg",
			Area:        "Sandton",
			Type:        "House",
			Bedrooms:    4,
			Bathrooms:   3,
			Sqft:        3500,
			Images:      []string{"https://images.unsplash.com/photo-1706808849780-7a04fbac83ef?fit=max&fm=jpg&q=80&w=1080"},
			Features:    []string{"Swimming Pool", "Garden", "Double Garage", "Security System", "Modern Kitchen"},
			Status:      models.StatusAvailable,
		},
		{
			Title:       "Luxury Apartment with City Views",
			Description: "Stunning luxury apartment with breathtaking city and mountain views. Modern amenities and premium finishes throughout this exceptional property.",
			Price:       1650000,
			Location:    "456 Ocean Drive, V&A Waterfront",
			City:        "Cape Town",
			Area:        "V&A Waterfront",
			Type:        "Apartment",
			Bedrooms:    2,
			Bathrooms:   2,
			Sqft:        1200,
			Images:      []string{"https://images.unsplash.com/photo-1603072845032-7b5bd641a82a?fit=max&fm=jpg&q=80&w=1080"},
			Features:    []string{"City Views", "Balcony", "Gym Access", "Concierge", "Secure Parking"},
			Status:      models.StatusAvailable,
		},
		{
			Title:       "Elegant Townhouse in Rosebank",
			Description: "Elegant townhouse in prime location with modern amenities. Close to shopping centers, business districts, and excellent schools.",
			Price:       1850000,
			Location:    "789 Park Avenue, Rosebank",
			City:        "Johannesburg",
			Area:        "Rosebank",
			Type:        "Townhouse",
			Bedrooms:    3,
			Bathrooms:   2,
			Sqft:        1800,
			Images:      []string{"https://images.unsplash.com/photo-1638284457192-27d3d0ec51aa?fit=max&fm=jpg&q=80&w=1080"},
			Features:    []string{"Private Garden", "Double Garage", "Study Room", "Patio", "Air Conditioning"},
			Status:      models.StatusAvailable,
		},
		{
			Title:       "Cozy Apartment in Stellenbosch",
			Description: "Charming apartment perfect for students or young professionals. Located in the heart of Stellenbosch with easy access to university and amenities.",
			Price:       1200000,
			Location:    "45 University Street, Stellenbosch",
			City:        "Cape Town",
			Area:        "Stellenbosch",
			Type:        "Apartment",
			Bedrooms:    1,
			Bathrooms:   1,
			Sqft:        650,
			Images:      []string{"https://images.unsplash.com/photo-1560448204-e02f11c3d0e2?fit=max&fm=jpg&q=80&w=1080"},
			Features:    []string{"Mountain Views", "Covered Parking", "Modern Finishes", "Communal Garden"},
			Status:      models.StatusAvailable,
		},
		{
			Title:       "Family Home in Durban North",
			Description: "Spacious family home with sea views in the sought-after area of Durban North. Perfect for families with children, close to good schools.",
			Price:       2200000,
			Location:    "67 Coastal Drive, Durban North",
			City:        "Durban",
			Area:        "Durban North",
			Type:        "House",
			Bedrooms:    4,
			Bathrooms:   3,
			Sqft:        2800,
			Images:      []string{"https://images.unsplash.com/photo-1605276374104-dee2a0ed3cd6?fit=max&fm=jpg&q=80&w=1080"},
			Features:    []string{"Sea Views", "Swimming Pool", "Large Garden", "Triple Garage", "Entertainment Area"},
			Status:      models.StatusAvailable,
		},
	}
}
