package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"rainbow-properties/internal/catalog"
	"rainbow-properties/internal/models"
)

func (api *API) listProperties(c *gin.Context) {
	properties, err := api.Catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	opts := catalog.RefineOptions{
		Query:      c.Query("q"),
		Type:       c.Query("type"),
		Location:   c.Query("location"),
		PriceRange: c.Query("price_range"),
		SortBy:     c.Query("sort"),
	}
	if opts != (catalog.RefineOptions{}) {
		properties = catalog.Refine(properties, opts)
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

func (api *API) searchProperties(c *gin.Context) {
	q := catalog.SearchQuery{
		Location: c.Query("location"),
		Type:     c.Query("type"),
	}
	if v, ok := c.GetQuery("minPrice"); ok {
		n := cast.ToInt(v)
		q.MinPrice = &n
	}
	if v, ok := c.GetQuery("maxPrice"); ok {
		n := cast.ToInt(v)
		q.MaxPrice = &n
	}
	if v, ok := c.GetQuery("bedrooms"); ok {
		n := cast.ToInt(v)
		q.Bedrooms = &n
	}

	properties, err := api.Catalog.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

func (api *API) getProperty(c *gin.Context) {
	property, err := api.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": property})
}

func (api *API) createProperty(c *gin.Context) {
	var p models.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	created, err := api.Catalog.Create(c.Request.Context(), p, callerID(c))
	if err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Property created successfully",
		"property": created,
	})
}

func (api *API) updateProperty(c *gin.Context) {
	var patch models.PropertyPatch
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updated, err := api.Catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Property updated successfully",
		"property": updated,
	})
}

func (api *API) deleteProperty(c *gin.Context) {
	if err := api.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
