package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fazletdinov/vidstream/internal/model"
	"github.com/fazletdinov/vidstream/internal/service"
)

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Upload godoc
// @Summary Upload a video with its preview image
// @Tags video
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} model.UploadResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /video/ [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")

	videoData, videoType, err := readFormFile(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	imageData, imageType, err := readFormFile(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	video, err := h.svc.Upload(c.Request.Context(), user, title, description, videoData, videoType, imageData, imageType)
	if err != nil {
		writeVideoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, model.UploadResponse{Status: "uploading", Video: video})
}

func (h *VideoHandler) Get(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	video, err := h.svc.Get(c.Request.Context(), videoID)
	if err != nil {
		writeVideoError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	videos, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeVideoError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	var req model.UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	video, err := h.svc.Update(c.Request.Context(), user, videoID, req)
	if err != nil {
		writeVideoError(c, err)
		return
	}
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	id, err := h.svc.Delete(c.Request.Context(), user, videoID)
	if err != nil {
		writeVideoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Stream godoc
// @Summary Serve one byte-range chunk of a video
// @Description Returns 206 with Content-Range; clients request subsequent ranges.
// @Tags video
// @Security BearerAuth
// @Produce octet-stream
// @Param id path int true "Video ID"
// @Param Range header string false "bytes=<start>-<end>"
// @Success 206 {string} binary
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /video/{id}/stream [get]
func (h *VideoHandler) Stream(c *gin.Context) {
	videoID, err := parseVideoID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video id"})
		return
	}

	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" {
		// some players probe without a Range header first
		rangeHeader = "bytes=0-"
	}

	chunk, err := h.svc.ServeChunk(c.Request.Context(), videoID, rangeHeader)
	if err != nil {
		writeVideoError(c, err)
		return
	}

	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", chunk.Start, chunk.End, chunk.Total))
	c.Header("Accept-Ranges", "bytes")
	c.Data(http.StatusPartialContent, "video/mp4", chunk.Data)
}

func parseVideoID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Header.Get("Content-Type"), nil
}

func writeVideoError(c *gin.Context, err error) {
	switch err {
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case service.ErrInvalidRange:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range"})
	case service.ErrEmptyUpdate:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "at least one field must be set"})
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
