// Package catalog implements CRUD and search over the property listings
// stored under the "property:" namespace.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/models"
)

const keyPrefix = "property:"

// ErrNotFound is returned for operations on nonexistent property ids.
var ErrNotFound = errors.New("property not found")

// ErrInvalid is returned when a record fails boundary validation.
var ErrInvalid = errors.New("invalid property")

// Service maintains the property catalog.
type Service struct {
	store kvstore.Store
}

// NewService creates a catalog over the given store.
func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// List returns every property in store iteration order. Entries that do not
// decode are dropped.
func (s *Service) List(ctx context.Context) ([]models.Property, error) {
	entries, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("fetch properties: %w", err)
	}

	properties := make([]models.Property, 0, len(entries))
	for _, entry := range entries {
		var p models.Property
		if len(entry.Value) == 0 || json.Unmarshal(entry.Value, &p) != nil {
			continue
		}
		p.ID = strings.TrimPrefix(entry.Key, keyPrefix)
		properties = append(properties, p)
	}
	return properties, nil
}

// Get returns a single property by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Property, error) {
	raw, err := s.store.Get(ctx, keyPrefix+id)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch property: %w", err)
	}

	var p models.Property
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode property: %w", err)
	}
	p.ID = id
	return &p, nil
}

// Create validates and stores a new listing. The server owns id, audit
// fields and timestamps; createdAt equals updatedAt at creation.
func (s *Service) Create(ctx context.Context, p models.Property, callerID string) (*models.Property, error) {
	if err := validate(&p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.CreatedBy = callerID
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}

	if err := s.store.Set(ctx, keyPrefix+p.ID, p); err != nil {
		return nil, fmt.Errorf("store property: %w", err)
	}
	return &p, nil
}

// Update shallow-merges the patch over the stored record. The path id wins
// over anything in the body, and createdAt/createdBy never change. Any
// authenticated caller may update any property.
func (s *Service) Update(ctx context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(existing)
	existing.ID = id
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.Set(ctx, keyPrefix+id, existing); err != nil {
		return nil, fmt.Errorf("store property: %w", err)
	}
	return existing, nil
}

// Delete hard-deletes a property. Images referencing it are not cascaded.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, keyPrefix+id); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("fetch property: %w", err)
	}
	if err := s.store.Delete(ctx, keyPrefix+id); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	return nil
}

// Search lists the catalog and applies the query filters. An empty query
// returns the same set as List.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]models.Property, error) {
	properties, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterProperties(properties, q), nil
}

func validate(p *models.Property) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalid)
	case strings.TrimSpace(p.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalid)
	case strings.TrimSpace(p.City) == "":
		return fmt.Errorf("%w: city is required", ErrInvalid)
	case strings.TrimSpace(p.Type) == "":
		return fmt.Errorf("%w: type is required", ErrInvalid)
	case strings.TrimSpace(p.Status) == "":
		return fmt.Errorf("%w: status is required", ErrInvalid)
	case p.Price <= 0:
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalid)
	}
	return nil
}
