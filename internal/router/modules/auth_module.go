package modules

import (
	"github.com/gin-gonic/gin"

	repo "github.com/bagaswh/go-auth-service/internal/domain/repository"
	handlers "github.com/bagaswh/go-auth-service/internal/interface/http"
	"github.com/bagaswh/go-auth-service/internal/interface/middleware"
	"github.com/bagaswh/go-auth-service/pkg/helpers"
)

// AuthModule wires the authentication routes.
// Public: POST /signup, POST /login, POST /tokenIsValid
// Protected: GET /
type AuthModule struct {
	Handler     *handlers.AuthHandler
	JWT         *helpers.JWTManager
	Users       repo.UserRepository
	TokenHeader string
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager, users repo.UserRepository, tokenHeader string) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt, Users: users, TokenHeader: tokenHeader}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", m.Handler.Signup)
	rg.POST("/login", m.Handler.Login)
	rg.POST("/tokenIsValid", m.Handler.TokenIsValid)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.TokenHeader, m.JWT, m.Users))
	{
		auth.GET("/", m.Handler.Me)
	}
}
