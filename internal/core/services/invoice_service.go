package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	"github.com/quickbill/quickbill_backend/internal/core/domain"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/dto"
	"github.com/quickbill/quickbill_backend/internal/utils/currencies"
	"github.com/quickbill/quickbill_backend/internal/utils/invoicing"
)

const (
	defaultCurrencyCode = "USD"

	// Drafts are transient composer state; idle ones are evicted.
	defaultDraftTTL = 24 * time.Hour
)

// draftEntry wraps a draft with its eviction deadline and generation guard.
type draftEntry struct {
	model      domain.InvoiceModel
	expiresAt  time.Time
	generating bool
}

// invoiceService holds all live invoice drafts in process memory. Drafts are
// never persisted: they exist for the lifetime of one composing session and
// die with eviction, deletion or process exit.
type invoiceService struct {
	renderer portssvc.DocumentRenderer

	mu     sync.Mutex
	drafts map[string]*draftEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewInvoiceService creates the draft service with the given document renderer.
func NewInvoiceService(renderer portssvc.DocumentRenderer) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		renderer: renderer,
		drafts:   make(map[string]*draftEntry),
		ttl:      defaultDraftTTL,
		now:      time.Now,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// getEntryLocked fetches a live draft owned by the user. Caller holds s.mu.
func (s *invoiceService) getEntryLocked(ownerUserID, draftID string) (*draftEntry, error) {
	entry, ok := s.drafts[draftID]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.drafts, draftID)
		return nil, apperrors.ErrNotFound
	}
	if entry.model.OwnerUserID != ownerUserID {
		return nil, apperrors.ErrForbidden
	}
	return entry, nil
}

// snapshotLocked copies the draft and computes fresh totals. Caller holds s.mu.
func snapshotLocked(entry *draftEntry) *domain.InvoiceSnapshot {
	model := entry.model
	model.Items = append([]domain.LineItem(nil), entry.model.Items...)
	model.Adjustments.Taxes = append([]domain.Tax(nil), entry.model.Adjustments.Taxes...)
	if entry.model.Adjustments.DiscountPercent != nil {
		d := *entry.model.Adjustments.DiscountPercent
		model.Adjustments.DiscountPercent = &d
	}
	if entry.model.Adjustments.Shipping != nil {
		sh := *entry.model.Adjustments.Shipping
		model.Adjustments.Shipping = &sh
	}
	if entry.model.BankDetails != nil {
		bd := *entry.model.BankDetails
		model.BankDetails = &bd
	}

	return &domain.InvoiceSnapshot{
		InvoiceModel: model,
		Totals:       invoicing.ComputeTotals(model.Items, model.Adjustments, model.AmountPaid),
	}
}

// sweepExpiredLocked evicts every draft past its deadline so abandoned
// drafts do not accumulate. Entries mid-generation are left for the next
// sweep. Caller holds s.mu.
func (s *invoiceService) sweepExpiredLocked() {
	now := s.now()
	for id, entry := range s.drafts {
		if now.After(entry.expiresAt) && !entry.generating {
			delete(s.drafts, id)
		}
	}
}

// touchLocked refreshes the eviction deadline and update timestamp.
func (s *invoiceService) touchLocked(entry *draftEntry) {
	entry.expiresAt = s.now().Add(s.ttl)
	entry.model.LastUpdatedAt = s.now()
}

func (s *invoiceService) CreateDraft(ctx context.Context, ownerUserID string) (*domain.InvoiceSnapshot, error) {
	if ownerUserID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	now := s.now()
	model := domain.InvoiceModel{
		DraftID:        uuid.NewString(),
		OwnerUserID:    ownerUserID,
		CurrencyCode:   defaultCurrencyCode,
		CurrencySymbol: currencies.ResolveSymbol(defaultCurrencyCode),
		// The composer opens with a single empty line ready for input.
		Items:         []domain.LineItem{{}},
		AmountPaid:    decimal.Zero,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepExpiredLocked()
	entry := &draftEntry{model: model, expiresAt: now.Add(s.ttl)}
	s.drafts[model.DraftID] = entry
	return snapshotLocked(entry), nil
}

func (s *invoiceService) GetDraft(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}
	return snapshotLocked(entry), nil
}

func (s *invoiceService) ComputeTotals(ctx context.Context, ownerUserID, draftID string) (domain.Totals, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return domain.Totals{}, "", err
	}
	totals := invoicing.ComputeTotals(entry.model.Items, entry.model.Adjustments, entry.model.AmountPaid)
	return totals, entry.model.CurrencySymbol, nil
}

func (s *invoiceService) DeleteDraft(ctx context.Context, ownerUserID, draftID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.getEntryLocked(ownerUserID, draftID); err != nil {
		return err
	}
	delete(s.drafts, draftID)
	return nil
}

func (s *invoiceService) UpdateDraft(ctx context.Context, ownerUserID, draftID string, req dto.UpdateDraftRequest) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	m := &entry.model
	if req.From != nil {
		m.From = *req.From
	}
	if req.BillTo != nil {
		m.BillTo = *req.BillTo
	}
	if req.ShipTo != nil {
		m.ShipTo = *req.ShipTo
	}
	if req.InvoiceNumber != nil {
		m.InvoiceNumber = *req.InvoiceNumber
	}
	if req.InvoiceDate != nil {
		m.InvoiceDate = *req.InvoiceDate
	}
	if req.DueDate != nil {
		m.DueDate = *req.DueDate
	}
	if req.PONumber != nil {
		m.PONumber = *req.PONumber
	}
	if req.Terms != nil {
		m.Terms = *req.Terms
	}
	if req.AmountPaid != nil {
		m.AmountPaid = *req.AmountPaid
	}
	if req.BankDetails != nil {
		m.BankDetails = &domain.BankDetails{
			AccountName:   req.BankDetails.AccountName,
			BankName:      req.BankDetails.BankName,
			BranchCode:    req.BankDetails.BranchCode,
			AccountNumber: req.BankDetails.AccountNumber,
		}
	}
	if req.LogoURL != nil {
		m.LogoURL = *req.LogoURL
	}
	if req.SignatureURL != nil {
		m.SignatureURL = *req.SignatureURL
	}

	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) AddItem(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.Items = append(entry.model.Items, domain.LineItem{})
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) UpdateItem(ctx context.Context, ownerUserID, draftID string, index int, req dto.UpdateItemRequest) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entry.model.Items) {
		return nil, fmt.Errorf("%w: item index %d out of range", apperrors.ErrValidation, index)
	}

	item := &entry.model.Items[index]
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitRate != nil {
		item.UnitRate = *req.UnitRate
	}
	if req.Quantity != nil || req.UnitRate != nil {
		item.Recalculate()
	}

	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) RemoveItem(ctx context.Context, ownerUserID, draftID string, index int) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(entry.model.Items) {
		return nil, fmt.Errorf("%w: item index %d out of range", apperrors.ErrValidation, index)
	}

	entry.model.Items = append(entry.model.Items[:index], entry.model.Items[index+1:]...)
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) AddTax(ctx context.Context, ownerUserID, draftID string, req dto.AddTaxRequest) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.Adjustments.Taxes = append(entry.model.Adjustments.Taxes, domain.Tax{
		Name:    req.Name,
		Percent: req.Percent,
	})
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) RemoveTax(ctx context.Context, ownerUserID, draftID string, index int) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}
	taxes := entry.model.Adjustments.Taxes
	if index < 0 || index >= len(taxes) {
		return nil, fmt.Errorf("%w: tax index %d out of range", apperrors.ErrValidation, index)
	}

	entry.model.Adjustments.Taxes = append(taxes[:index], taxes[index+1:]...)
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) SetDiscount(ctx context.Context, ownerUserID, draftID string, percent decimal.Decimal) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.Adjustments.DiscountPercent = &percent
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) ClearDiscount(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.Adjustments.DiscountPercent = nil
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) SetShipping(ctx context.Context, ownerUserID, draftID string, amount decimal.Decimal) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.Adjustments.Shipping = &amount
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) ClearShipping(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.Adjustments.Shipping = nil
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

func (s *invoiceService) SetCurrency(ctx context.Context, ownerUserID, draftID string, currencyCode string) (*domain.InvoiceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		return nil, err
	}

	entry.model.CurrencyCode = currencyCode
	entry.model.CurrencySymbol = currencies.ResolveSymbol(currencyCode)
	s.touchLocked(entry)
	return snapshotLocked(entry), nil
}

// GeneratePDF renders the draft in a single pass. Only one generation may be
// in flight per draft; a failure leaves the draft intact so the user can fix
// the input and retry.
func (s *invoiceService) GeneratePDF(ctx context.Context, ownerUserID, draftID string) ([]byte, error) {
	s.mu.Lock()
	entry, err := s.getEntryLocked(ownerUserID, draftID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if entry.generating {
		s.mu.Unlock()
		return nil, apperrors.ErrGenerationInFlight
	}
	entry.generating = true
	snapshot := snapshotLocked(entry)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if e, ok := s.drafts[draftID]; ok {
			e.generating = false
		}
		s.mu.Unlock()
	}()

	pdfBytes, err := s.renderer.Render(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice document: %w", err)
	}
	return pdfBytes, nil
}
