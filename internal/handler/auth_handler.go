package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkale/splitledger/internal/middleware"
	"github.com/mkale/splitledger/internal/models"
	"github.com/mkale/splitledger/internal/service"
)

// AuthHandler handles registration, login and the current-user endpoint.
type AuthHandler struct {
	auths *service.AuthService
}

func NewAuthHandler(auths *service.AuthService) *AuthHandler {
	return &AuthHandler{auths: auths}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name" validate:"required"`
	ImageURL string `json:"imageUrl"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, ImageURL: u.ImageURL}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auths.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{Token: result.Token, User: toUserResponse(result.User)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auths.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: result.Token, User: toUserResponse(result.User)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auths.GetCurrentUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.auths.UpdateProfile(c.Request.Context(), userID, req.Name, req.ImageURL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
