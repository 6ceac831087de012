// Package handlers exposes the HTTP API. Handlers translate between the
// JSON wire format and the services; all business rules live below.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rainbow-properties/internal/auth"
	"rainbow-properties/internal/catalog"
	"rainbow-properties/internal/dashboard"
	"rainbow-properties/internal/gallery"
	"rainbow-properties/internal/inbox"
	"rainbow-properties/internal/siteconfig"
)

// Authenticator is the auth-provider surface behind /auth/signup and
// /auth/login.
type Authenticator interface {
	SignUp(ctx context.Context, email, password, name, role string) (*auth.User, error)
	Login(ctx context.Context, email, password string) (string, *auth.User, error)
}

// API bundles the services the handlers dispatch to.
type API struct {
	Auth      Authenticator
	Catalog   *catalog.Service
	Gallery   *gallery.Service
	Inbox     *inbox.Service
	Site      *siteconfig.Service
	Dashboard *dashboard.Service
}

// Register mounts every route under basePath. Reads of the public site are
// unauthenticated; everything that mutates state (except the contact form
// and the one-shot developer seed) requires a bearer token.
func Register(r *gin.Engine, basePath string, api *API, verifier auth.TokenVerifier) {
	g := r.Group(basePath)

	g.GET("/health", healthCheck)

	// Public site surface.
	g.POST("/auth/signup", api.signup)
	g.POST("/auth/login", api.login)
	g.GET("/properties", api.listProperties)
	g.GET("/properties/search", api.searchProperties)
	g.GET("/properties/:id", api.getProperty)
	g.POST("/contact", api.submitContact)
	g.POST("/create-developer", api.createDeveloper)

	// Admin surface.
	authed := g.Group("", RequireAuth(verifier))
	authed.POST("/properties", api.createProperty)
	authed.PUT("/properties/:id", api.updateProperty)
	authed.DELETE("/properties/:id", api.deleteProperty)

	authed.POST("/images/upload", api.uploadImage)
	authed.GET("/images", api.listImages)
	authed.DELETE("/images/:fileName", api.deleteImage)

	authed.GET("/contact-messages", api.listContactMessages)
	authed.POST("/contact-messages/:id/status", api.updateContactStatus)
	authed.POST("/contact-messages/:id/reply", api.replyToContact)

	authed.GET("/site-settings", api.getSiteSettings)
	authed.POST("/site-settings", api.updateSiteSettings)
	authed.GET("/seo", api.getSEOSettings)
	authed.POST("/seo", api.updateSEOSettings)

	authed.GET("/admin-users", api.listAdminUsers)
	authed.POST("/admin-users", api.createAdminUser)

	authed.GET("/dashboard/stats", api.dashboardStats)

	authed.POST("/add-sample-properties", api.addSampleProperties)
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
