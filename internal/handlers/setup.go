package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rainbow-properties/internal/siteconfig"
)

// createDeveloper seeds the well-known developer account. It is deliberately
// unauthenticated so a fresh deployment can bootstrap its first login, and
// idempotent so repeat calls are harmless.
func (api *API) createDeveloper(c *gin.Context) {
	user, created, err := api.Site.SeedDeveloper(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Developer user already exists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Developer user created successfully",
		"user":    user,
		"credentials": gin.H{
			"email":    siteconfig.DeveloperEmail,
			"password": siteconfig.DeveloperPassword,
		},
	})
}

func (api *API) addSampleProperties(c *gin.Context) {
	count, err := api.Catalog.SeedSamples(c.Request.Context(), callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if count == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Properties already exist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Sample properties added successfully",
		"count":   count,
	})
}
