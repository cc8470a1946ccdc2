package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	repo "github.com/bagaswh/go-auth-service/internal/domain/repository"
	"github.com/bagaswh/go-auth-service/pkg/helpers"
	"github.com/bagaswh/go-auth-service/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxTokenKey  = "authToken"
)

// unauthorizedMsg is deliberately the same for a missing token, a bad
// signature, and a stale subject, so a caller cannot tell which check
// failed.
const unauthorizedMsg = "No auth token, access denied!"

// Auth gates protected routes: it reads the token header, verifies the
// signature before touching the store, resolves the subject, and puts
// the user id and raw token into the Gin context. It performs no writes
// and never logs token material.
func Auth(headerName string, jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(headerName)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, unauthorizedMsg)
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, unauthorizedMsg)
			return
		}

		if _, err := users.GetByID(c.Request.Context(), claims.UserID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				response.AbortError(c, http.StatusUnauthorized, unauthorizedMsg)
			} else {
				response.AbortError(c, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}
