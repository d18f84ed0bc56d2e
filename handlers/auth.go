package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-truck-api/middleware"
	"food-truck-api/models"
	"food-truck-api/service"
)

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp creates a new account and signs it in
func (h *Handler) SignUp(c *gin.Context) {
	var req service.SignUpInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, "Account created successfully", user)
}

// SignIn authenticates a user and returns a JWT
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

// SignOut revokes the caller's token
func (h *Handler) SignOut(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return
	}
	if err := h.tokens.Revoke(c.Request.Context(), claims); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.auth.Current(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.ProfileInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) respondWithToken(c *gin.Context, status int, message string, user *models.User) {
	token, expiresAt, err := h.tokens.GenerateToken(user)
	if err != nil {
		h.log.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, gin.H{
		"message":    message,
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}
