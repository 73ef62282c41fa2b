package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fazletdinov/vidstream/internal/model"
	"github.com/fazletdinov/vidstream/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Email and password"
// @Success 201 {object} model.PublicUser
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /auth/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user.Public())
}

// Login godoc
// @Summary Login with form credentials
// @Description Issues an access token and sets the refresh token as an httponly cookie.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} model.TokenResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), email, password)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, model.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// Refresh godoc
// @Summary Mint a new token pair from the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} model.TokenResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().Name)
	pair, err := h.svc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	c.JSON(http.StatusOK, model.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "bearer",
	})
}

// Update godoc
// @Summary Update the current user
// @Description Applies only the provided fields; at least one must be set.
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 422 {object} model.ErrorResponse
// @Router /auth/update [patch]
func (h *AuthHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), user.ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated.Public())
}

// Deactivate godoc
// @Summary Deactivate the current user
// @Description Soft delete; idempotent.
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.DeactivateResponse
// @Router /auth/deactivate_user [delete]
func (h *AuthHandler) Deactivate(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := h.svc.Deactivate(c.Request.Context(), user.ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.DeactivateResponse{ID: id})
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.PublicUser
// @Failure 401 {object} model.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, user.Public())
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	cfg := h.svc.CookieConfig()
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, token, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func writeAuthError(c *gin.Context, err error) {
	switch err {
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case service.ErrInvalidCredentials:
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid email or password"})
	case service.ErrInactive:
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not active"})
	case service.ErrAlreadyExists:
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case service.ErrEmptyUpdate:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "at least one field must be set"})
	case service.ErrTokenExpired:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
	case service.ErrInvalidToken:
		c.JSON(http.StatusForbidden, gin.H{"error": "could not validate credentials"})
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
