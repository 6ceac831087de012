package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rainbow-properties/internal/auth"
	"rainbow-properties/internal/models"
	"rainbow-properties/internal/siteconfig"
)

func (api *API) getSiteSettings(c *gin.Context) {
	doc, err := api.Site.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (api *API) updateSiteSettings(c *gin.Context) {
	var doc models.SiteDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := api.Site.SetSettings(c.Request.Context(), doc, callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": saved,
	})
}

func (api *API) getSEOSettings(c *gin.Context) {
	doc, err := api.Site.GetSEO(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (api *API) updateSEOSettings(c *gin.Context) {
	var doc models.SiteDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := api.Site.SetSEO(c.Request.Context(), doc, callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "SEO settings updated successfully",
		"data":    saved,
	})
}

func (api *API) listAdminUsers(c *gin.Context) {
	users, err := api.Site.ListAdmins(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (api *API) createAdminUser(c *gin.Context) {
	var in siteconfig.CreateAdminInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := api.Site.CreateAdmin(c.Request.Context(), in, callerID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin user created successfully",
		"user":    user,
	})
}
