package router

import (
	"github.com/bagaswh/go-auth-service/internal/application"
	"github.com/bagaswh/go-auth-service/internal/container"
	pginfra "github.com/bagaswh/go-auth-service/internal/infrastructure/postgres"
	handlers "github.com/bagaswh/go-auth-service/internal/interface/http"
	"github.com/bagaswh/go-auth-service/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	service := application.NewAuthService(
		repo,
		container.GetJWT(),
		container.GetLogger(),
		cfg.BcryptCost,
	)

	handler := handlers.NewAuthHandler(service, container.GetLogger(), cfg.TokenHeader)

	r.Add(modules.NewAuthModule(handler, container.GetJWT(), repo, cfg.TokenHeader))
}
