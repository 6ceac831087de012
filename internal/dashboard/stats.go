// Package dashboard computes admin-dashboard statistics on the fly from the
// other services' listings.
package dashboard

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"rainbow-properties/internal/catalog"
	"rainbow-properties/internal/gallery"
	"rainbow-properties/internal/models"
	"rainbow-properties/internal/siteconfig"
)

// Service aggregates counts across the catalog, gallery and admin directory.
// Nothing is cached; every call recomputes from full listings.
type Service struct {
	catalog *catalog.Service
	gallery *gallery.Service
	site    *siteconfig.Service
}

// NewService wires the dashboard over the three source services.
func NewService(cat *catalog.Service, gal *gallery.Service, site *siteconfig.Service) *Service {
	return &Service{catalog: cat, gallery: gal, site: site}
}

// Stats computes the dashboard counters. The admin count is floored at 1 so
// the dashboard never claims a locked-out system; property types are counted
// by their literal stored strings.
func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	properties, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	images, err := s.gallery.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("count images: %w", err)
	}
	admins, err := s.site.ListAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("count admins: %w", err)
	}

	types := make(map[string]int)
	prices := make([]float64, 0, len(properties))
	for _, p := range properties {
		if p.Type != "" {
			types[p.Type]++
		}
		prices = append(prices, float64(p.Price))
	}

	avg := 0.0
	if len(prices) > 0 {
		mean, err := stats.Mean(prices)
		if err != nil {
			return nil, fmt.Errorf("average price: %w", err)
		}
		avg = math.Round(mean)
	}

	totalAdmins := len(admins)
	if totalAdmins < 1 {
		totalAdmins = 1
	}

	return &models.DashboardStats{
		TotalProperties: len(properties),
		TotalImages:     len(images),
		TotalAdmins:     totalAdmins,
		PropertyTypes:   types,
		AvgPrice:        int(avg),
	}, nil
}
