package services

import (
	portsrepo "github.com/quickbill/quickbill_backend/internal/core/ports/repositories"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	renderer portssvc.DocumentRenderer,
	imageStore portssvc.ImageStoreFacade,
	notifier portssvc.Notifier,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Invoice = NewInvoiceService(renderer)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)
	container.PasswordReset = NewPasswordResetService(container.User, repos.ResetCodeRepo, notifier)

	container.ImageStore = imageStore

	return container
}
