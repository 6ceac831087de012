package models

import "time"

// Property is a real-estate listing stored under the "property:" namespace.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Location    string    `json:"location"`
	City        string    `json:"city"`
	Area        string    `json:"area"`
	Type        string    `json:"type"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Sqft        int       `json:"sqft"`
	Images      []string  `json:"images"`
	Features    []string  `json:"features"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedBy   string    `json:"createdBy"`
}

// Property status values. Transitions are not enforced: any authenticated
// caller may write any status at any time.
const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusSold      = "sold"
)

// PropertyPatch is a shallow-merge update: only fields present in the
// payload change, and slice fields (images, features) are replaced
// wholesale, never merged element-wise. The id and audit fields are
// accepted on the wire but ignored — the stored values win.
type PropertyPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *int      `json:"price"`
	Location    *string   `json:"location"`
	City        *string   `json:"city"`
	Area        *string   `json:"area"`
	Type        *string   `json:"type"`
	Bedrooms    *int      `json:"bedrooms"`
	Bathrooms   *int      `json:"bathrooms"`
	Sqft        *int      `json:"sqft"`
	Images      *[]string `json:"images"`
	Features    *[]string `json:"features"`
	Status      *string   `json:"status"`

	// Immutable on update; tolerated so clients may echo full records.
	ID        *string    `json:"id"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
	CreatedBy *string    `json:"createdBy"`
}

// Apply merges the patch over p, leaving id and audit fields untouched.
func (patch *PropertyPatch) Apply(p *Property) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Area != nil {
		p.Area = *patch.Area
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.Sqft != nil {
		p.Sqft = *patch.Sqft
	}
	if patch.Images != nil {
		p.Images = *patch.Images
	}
	if patch.Features != nil {
		p.Features = *patch.Features
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}
