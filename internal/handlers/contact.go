package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rainbow-properties/internal/inbox"
)

func (api *API) submitContact(c *gin.Context) {
	var in inbox.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	msg, err := api.Inbox.Submit(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, inbox.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message sent successfully",
		"id":      msg.ID,
	})
}

func (api *API) listContactMessages(c *gin.Context) {
	messages, err := api.Inbox.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (api *API) updateContactStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := api.Inbox.UpdateStatus(c.Request.Context(), c.Param("id"), body.Status); err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

func (api *API) replyToContact(c *gin.Context) {
	var body struct {
		Message   string `json:"message"`
		SendEmail bool   `json:"sendEmail"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := api.Inbox.Reply(c.Request.Context(), c.Param("id"), body.Message, body.SendEmail); err != nil {
		if errors.Is(err, inbox.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply sent successfully"})
}
