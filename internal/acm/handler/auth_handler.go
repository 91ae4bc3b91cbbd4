package handler

import (
	"errors"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, token refresh and account operations.
type AuthHandler struct {
	svc *service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		// A failed credential check is 401, not 400.
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			Unauthorized(c, ve.Error())
			return
		}
		HandleServiceError(c, err)
		return
	}

	Success(c, gin.H{
		"user":  user,
		"token": pair,
	})
}

// RefreshToken POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		// A failed credential check is 401, not 400.
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			Unauthorized(c, ve.Error())
			return
		}
		HandleServiceError(c, err)
		return
	}
	Success(c, pair)
}

// Logout POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"logged_out": true})
}

// GetCurrentUser GET /auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.svc.GetCurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, user)
}

// ResetPassword POST /auth/reset-password (developer only)
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), &req); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"reset": true})
}
