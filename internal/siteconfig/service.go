// Package siteconfig stores the single-document site settings and SEO
// records plus the admin-user directory.
package siteconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"rainbow-properties/internal/auth"
	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/models"
	"rainbow-properties/internal/reconcile"
)

const (
	settingsKey = "site:settings"
	seoKey      = "seo:settings"
	adminPrefix = "admin:"
)

// Seed identity created by the one-shot setup endpoint.
const (
	DeveloperEmail    = "developer@rainbowproperties.co.za"
	DeveloperPassword = "RainbowDev2024!"
)

// IdentityAdmin is the auth-provider surface needed for directory writes.
type IdentityAdmin interface {
	SignUp(ctx context.Context, email, password, name, role string) (*auth.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Service maintains site-wide configuration documents and the admin
// directory.
type Service struct {
	store    kvstore.Store
	users    IdentityAdmin
	recorder *reconcile.Recorder
}

// NewService creates a config service over the given store and provider.
func NewService(store kvstore.Store, users IdentityAdmin, recorder *reconcile.Recorder) *Service {
	return &Service{store: store, users: users, recorder: recorder}
}

// GetSettings returns the site settings document, or an empty document when
// none has been written yet.
func (s *Service) GetSettings(ctx context.Context) (models.SiteDocument, error) {
	return s.getDocument(ctx, settingsKey)
}

// SetSettings fully replaces the settings document — not a merge; callers
// must always send the complete document or prior fields are lost.
func (s *Service) SetSettings(ctx context.Context, doc models.SiteDocument, callerID string) (models.SiteDocument, error) {
	return s.setDocument(ctx, settingsKey, doc, callerID)
}

// GetSEO returns the SEO metadata document, or an empty document.
func (s *Service) GetSEO(ctx context.Context) (models.SiteDocument, error) {
	return s.getDocument(ctx, seoKey)
}

// SetSEO fully replaces the SEO document.
func (s *Service) SetSEO(ctx context.Context, doc models.SiteDocument, callerID string) (models.SiteDocument, error) {
	return s.setDocument(ctx, seoKey, doc, callerID)
}

func (s *Service) getDocument(ctx context.Context, key string) (models.SiteDocument, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return models.SiteDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	var doc models.SiteDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

func (s *Service) setDocument(ctx context.Context, key string, doc models.SiteDocument, callerID string) (models.SiteDocument, error) {
	if doc == nil {
		doc = models.SiteDocument{}
	}
	doc["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	doc["updatedBy"] = callerID

	if err := s.store.Set(ctx, key, doc); err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	return doc, nil
}

// ListAdmins returns the admin directory in store iteration order.
func (s *Service) ListAdmins(ctx context.Context) ([]models.AdminUser, error) {
	entries, err := s.store.GetByPrefix(ctx, adminPrefix)
	if err != nil {
		return nil, fmt.Errorf("fetch admin users: %w", err)
	}

	admins := make([]models.AdminUser, 0, len(entries))
	for _, entry := range entries {
		var admin models.AdminUser
		if len(entry.Value) == 0 || json.Unmarshal(entry.Value, &admin) != nil {
			continue
		}
		admin.ID = strings.TrimPrefix(entry.Key, adminPrefix)
		admins = append(admins, admin)
	}
	return admins, nil
}

// CreateAdminInput describes a new dashboard user. Role and permissions are
// stored but never enforced anywhere; access stays binary.
type CreateAdminInput struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// CreateAdmin creates the auth identity and then the directory record. A
// failed directory write is compensated by deleting the identity again; if
// that also fails, a reconciliation record keeps the two systems from
// drifting apart permanently.
func (s *Service) CreateAdmin(ctx context.Context, in CreateAdminInput, callerID string) (*models.AdminUser, error) {
	user, err := s.users.SignUp(ctx, in.Email, in.Password, in.Name, in.Role)
	if err != nil {
		return nil, err
	}

	admin := models.AdminUser{
		ID:          user.ID,
		Email:       in.Email,
		Name:        in.Name,
		Role:        in.Role,
		Permissions: in.Permissions,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   callerID,
	}

	if err := s.store.Set(ctx, adminPrefix+user.ID, admin); err != nil {
		if delErr := s.users.DeleteUser(ctx, user.ID); delErr != nil {
			zap.S().Errorw("failed to remove auth identity after directory write failure",
				"userId", user.ID, "error", delErr)
			s.recorder.Record(ctx, reconcile.ActionRemoveAuthUser, user.ID,
				"directory write failed after identity creation")
		}
		return nil, fmt.Errorf("store admin record: %w", err)
	}
	return &admin, nil
}

// SeedDeveloper creates the well-known developer identity. Returns
// created=false without error when the identity already exists.
func (s *Service) SeedDeveloper(ctx context.Context) (*models.AdminUser, bool, error) {
	user, err := s.users.SignUp(ctx, DeveloperEmail, DeveloperPassword, "Developer", models.RoleDeveloper)
	if errors.Is(err, auth.ErrUserExists) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	admin := models.AdminUser{
		ID:          user.ID,
		Email:       DeveloperEmail,
		Name:        "Developer",
		Role:        models.RoleDeveloper,
		Permissions: []string{"all"},
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   "system",
	}

	if err := s.store.Set(ctx, adminPrefix+user.ID, admin); err != nil {
		if delErr := s.users.DeleteUser(ctx, user.ID); delErr != nil {
			s.recorder.Record(ctx, reconcile.ActionRemoveAuthUser, user.ID,
				"directory write failed after developer seed")
		}
		return nil, false, fmt.Errorf("store developer record: %w", err)
	}
	return &admin, true, nil
}
