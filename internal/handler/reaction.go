package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fazletdinov/vidstream/internal/model"
	"github.com/fazletdinov/vidstream/internal/service"
)

type ReactionHandler struct {
	svc *service.ReactionService
}

func NewReactionHandler(svc *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{svc: svc}
}

func (h *ReactionHandler) Set(c *gin.Context) {
	user := CurrentUser(c)
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	var req model.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reaction, err := h.svc.Set(c.Request.Context(), user, videoID, req.Kind)
	if err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, reaction)
}

func (h *ReactionHandler) ListByVideo(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	reactions, err := h.svc.ListByVideo(c.Request.Context(), videoID)
	if err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, reactions)
}

func (h *ReactionHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	id, err := h.svc.Delete(c.Request.Context(), user, videoID)
	if err != nil {
		writeCommentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}
