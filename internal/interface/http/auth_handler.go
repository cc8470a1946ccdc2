package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bagaswh/go-auth-service/internal/application"
	"github.com/bagaswh/go-auth-service/internal/interface/middleware"
	"github.com/bagaswh/go-auth-service/pkg/response"
	"github.com/bagaswh/go-auth-service/pkg/validation"
)

type AuthHandler struct {
	Svc         *application.AuthService
	Logger      *logrus.Logger
	TokenHeader string
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, tokenHeader string) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, TokenHeader: tokenHeader}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// loginResponse mirrors the original contract: the token plus the
// user's public fields, flattened into one object.
type loginResponse struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Signup POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToMessage(err))
		return
	}

	u, err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error(c, http.StatusBadRequest, "User with the same email already exists!")
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	response.JSON(c, http.StatusCreated, u.Public())
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToMessage(err))
		return
	}

	u, token, _, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusBadRequest, "Incorrect email or password!")
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	pub := u.Public()
	response.JSON(c, http.StatusOK, loginResponse{
		Token:     token,
		ID:        pub.ID,
		Name:      pub.Name,
		Email:     pub.Email,
		CreatedAt: pub.CreatedAt,
		UpdatedAt: pub.UpdatedAt,
	})
}

// TokenIsValid POST /tokenIsValid
// Replies with a bare JSON boolean; an invalid or missing token is a
// false result, never an error status.
func (h *AuthHandler) TokenIsValid(c *gin.Context) {
	ok, err := h.Svc.TokenIsValid(c.Request.Context(), c.GetHeader(h.TokenHeader))
	if err != nil {
		h.Logger.WithError(err).Error("token check failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}
	response.JSON(c, http.StatusOK, ok)
}

// Me GET / (protected)
// Returns the authenticated user's public fields plus the raw token.
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, "No auth token, access denied!")
			return
		}
		h.Logger.WithError(err).Error("profile lookup failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	pub := u.Public()
	response.JSON(c, http.StatusOK, gin.H{
		"id":         pub.ID,
		"name":       pub.Name,
		"email":      pub.Email,
		"created_at": pub.CreatedAt,
		"updated_at": pub.UpdatedAt,
		"token":      c.GetString(middleware.CtxTokenKey),
	})
}
