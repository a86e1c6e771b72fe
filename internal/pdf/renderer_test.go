package pdf_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"github.com/quickbill/quickbill_backend/internal/pdf"
	"github.com/quickbill/quickbill_backend/internal/utils/invoicing"
)

func sampleSnapshot() *domain.InvoiceSnapshot {
	items := []domain.LineItem{
		{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitRate: decimal.NewFromInt(120), Amount: decimal.NewFromInt(1200)},
		{Description: "Hosting", Quantity: decimal.NewFromInt(1), UnitRate: decimal.NewFromFloat(49.99), Amount: decimal.NewFromFloat(49.99)},
	}
	discount := decimal.NewFromInt(5)
	shipping := decimal.NewFromInt(15)
	adjustments := domain.AdjustmentSet{
		Taxes:           []domain.Tax{{Name: "VAT", Percent: decimal.NewFromInt(15)}},
		DiscountPercent: &discount,
		Shipping:        &shipping,
	}
	amountPaid := decimal.NewFromInt(200)

	model := domain.InvoiceModel{
		DraftID:        "draft-1",
		From:           "QuickBill Ltd\n12 Main Road\nCape Town",
		BillTo:         "Acme Pty Ltd\n1 Long Street",
		ShipTo:         "Acme Warehouse\n9 Dock Road",
		InvoiceNumber:  "INV-0042",
		InvoiceDate:    "Aug 29, 2026",
		DueDate:        "Sep 28, 2026",
		PONumber:       "PO-77",
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		Items:          items,
		Adjustments:    adjustments,
		AmountPaid:     amountPaid,
		BankDetails: &domain.BankDetails{
			AccountName:   "QuickBill Ltd",
			BankName:      "First Bank",
			AccountNumber: "1234567890",
		},
		Terms: "Payment due within 30 days.",
	}

	return &domain.InvoiceSnapshot{
		InvoiceModel: model,
		Totals:       invoicing.ComputeTotals(items, adjustments, amountPaid),
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	renderer := pdf.NewRenderer()

	out, err := renderer.Render(sampleSnapshot())

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRender_MinimalDraft(t *testing.T) {
	renderer := pdf.NewRenderer()
	snapshot := &domain.InvoiceSnapshot{
		InvoiceModel: domain.InvoiceModel{
			CurrencyCode:   "USD",
			CurrencySymbol: "$",
			Items:          []domain.LineItem{{}},
		},
	}

	out, err := renderer.Render(snapshot)

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRender_BadImageFailsWhole(t *testing.T) {
	renderer := pdf.NewRenderer()
	snapshot := sampleSnapshot()
	snapshot.LogoURL = "data:image/png;base64,not-valid-base64!!"

	out, err := renderer.Render(snapshot)

	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "logo")
}
