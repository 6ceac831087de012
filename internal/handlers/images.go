package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (api *API) uploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	image, err := api.Gallery.Upload(c.Request.Context(), fileHeader.Filename,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"), file, callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}

func (api *API) listImages(c *gin.Context) {
	images, err := api.Gallery.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"images": images})
}

func (api *API) deleteImage(c *gin.Context) {
	if err := api.Gallery.Delete(c.Request.Context(), c.Param("fileName")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
