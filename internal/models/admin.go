package models

import "time"

// AdminUser is a directory record paired with an auth-provider identity.
// Role and Permissions are stored for the dashboard UI but are not checked
// by any handler: authorization is binary (valid token or not).
type AdminUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// Admin roles presented by the dashboard.
const (
	RoleDeveloper  = "developer"
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
)

// SiteDocument is a single-document config record (site settings, SEO).
// Its schema is owned by the admin editors; writes replace the whole
// document, so callers must always send the complete document.
type SiteDocument map[string]interface{}

// DashboardStats is the aggregate computed on demand over the full catalog.
type DashboardStats struct {
	TotalProperties int            `json:"totalProperties"`
	TotalImages     int            `json:"totalImages"`
	TotalAdmins     int            `json:"totalAdmins"`
	PropertyTypes   map[string]int `json:"propertyTypes"`
	AvgPrice        int            `json:"avgPrice"`
}
