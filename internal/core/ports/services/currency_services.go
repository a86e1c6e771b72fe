package services

import (
	"context"

	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"github.com/quickbill/quickbill_backend/internal/dto"
)

// CurrencySvcFacade defines the interface for currency management.
type CurrencySvcFacade interface {
	// CreateCurrency adds a new currency (admin operation).
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)

	// GetCurrencyByCode retrieves a currency by its 3-letter code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
