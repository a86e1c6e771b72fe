package services

import (
	"time"

	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
)

// NewInvoiceServiceWithClock builds the draft service with a caller-supplied
// TTL and clock so tests can drive eviction deterministically.
func NewInvoiceServiceWithClock(renderer portssvc.DocumentRenderer, ttl time.Duration, now func() time.Time) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		renderer: renderer,
		drafts:   make(map[string]*draftEntry),
		ttl:      ttl,
		now:      now,
	}
}

// DraftCount reports how many drafts the service currently holds.
func DraftCount(svc portssvc.InvoiceSvcFacade) int {
	s := svc.(*invoiceService)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}
