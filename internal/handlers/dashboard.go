package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (api *API) dashboardStats(c *gin.Context) {
	stats, err := api.Dashboard.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
