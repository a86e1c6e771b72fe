package services

import (
	"context"

	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"github.com/quickbill/quickbill_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// InvoiceReaderSvc defines read operations on invoice drafts. Every read
// recomputes totals from the current ledger and adjustments, so callers
// always see fresh derived figures.
type InvoiceReaderSvc interface {
	// GetDraft returns a snapshot of the draft with freshly computed totals.
	GetDraft(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error)

	// ComputeTotals recomputes the draft's totals and returns them with the
	// draft's currency symbol for display formatting.
	ComputeTotals(ctx context.Context, ownerUserID, draftID string) (domain.Totals, string, error)
}

// InvoiceWriterSvc defines mutations on invoice drafts. Each mutation
// returns the updated snapshot; previously computed totals are invalid
// after any mutation.
type InvoiceWriterSvc interface {
	// CreateDraft starts a new transient draft owned by the user.
	CreateDraft(ctx context.Context, ownerUserID string) (*domain.InvoiceSnapshot, error)

	// DeleteDraft discards the draft.
	DeleteDraft(ctx context.Context, ownerUserID, draftID string) error

	// UpdateDraft sets header, metadata, notes, images and amount-paid fields.
	UpdateDraft(ctx context.Context, ownerUserID, draftID string, req dto.UpdateDraftRequest) (*domain.InvoiceSnapshot, error)

	// AddItem appends a zeroed line item to the ledger.
	AddItem(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error)

	// UpdateItem updates fields of the line at index, recomputing its amount.
	UpdateItem(ctx context.Context, ownerUserID, draftID string, index int, req dto.UpdateItemRequest) (*domain.InvoiceSnapshot, error)

	// RemoveItem deletes the line at index, shifting subsequent lines down.
	RemoveItem(ctx context.Context, ownerUserID, draftID string, index int) (*domain.InvoiceSnapshot, error)

	// AddTax appends a named percentage tax.
	AddTax(ctx context.Context, ownerUserID, draftID string, req dto.AddTaxRequest) (*domain.InvoiceSnapshot, error)

	// RemoveTax deletes the tax at index.
	RemoveTax(ctx context.Context, ownerUserID, draftID string, index int) (*domain.InvoiceSnapshot, error)

	// SetDiscount sets the single discount percentage.
	SetDiscount(ctx context.Context, ownerUserID, draftID string, percent decimal.Decimal) (*domain.InvoiceSnapshot, error)

	// ClearDiscount removes the discount.
	ClearDiscount(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error)

	// SetShipping sets the single flat shipping charge.
	SetShipping(ctx context.Context, ownerUserID, draftID string, amount decimal.Decimal) (*domain.InvoiceSnapshot, error)

	// ClearShipping removes the shipping charge.
	ClearShipping(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error)

	// SetCurrency selects the display currency; only the code and symbol
	// change, numeric fields are untouched.
	SetCurrency(ctx context.Context, ownerUserID, draftID string, currencyCode string) (*domain.InvoiceSnapshot, error)
}

// InvoiceGeneratorSvc turns a draft snapshot into a rendered document.
type InvoiceGeneratorSvc interface {
	// GeneratePDF renders the draft to a PDF. Concurrent generation for the
	// same draft is rejected with apperrors.ErrGenerationInFlight; failures
	// leave the draft intact for retry.
	GeneratePDF(ctx context.Context, ownerUserID, draftID string) ([]byte, error)
}

// InvoiceSvcFacade combines all invoice draft service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceGeneratorSvc
}

// DocumentRenderer renders a fully resolved invoice snapshot into a
// paginated document in a single pass.
type DocumentRenderer interface {
	Render(snapshot *domain.InvoiceSnapshot) ([]byte, error)
}

// ImageStoreFacade converts an uploaded image into a displayable URL.
type ImageStoreFacade interface {
	// Upload stores the image bytes and returns a publicly displayable URL.
	Upload(ctx context.Context, fileName string, contentType string, data []byte) (string, error)
}
