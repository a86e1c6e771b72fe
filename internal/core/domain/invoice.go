package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single row of the invoice ledger.
// Amount is derived: it always equals Quantity * UnitRate and is recomputed
// whenever either factor changes. It is never edited independently.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unitRate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Recalculate refreshes the derived Amount from Quantity and UnitRate.
func (li *LineItem) Recalculate() {
	li.Amount = li.Quantity.Mul(li.UnitRate)
}

// Tax is a named percentage applied against the invoice subtotal.
// The resulting amount is not stored here: it is derived live from the
// current subtotal on every totals computation, so it can never go stale
// when line items change after the tax was added.
type Tax struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
}

// TaxLine is a computed tax row in the totals block.
type TaxLine struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Amount  decimal.Decimal `json:"amount"`
}

// AdjustmentSet holds the taxes, discount and shipping applied to a subtotal.
// Taxes keep insertion order (display order). Discount and shipping are
// scalar: at most one of each at a time, nil when absent.
type AdjustmentSet struct {
	Taxes           []Tax            `json:"taxes"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	Shipping        *decimal.Decimal `json:"shipping,omitempty"`
}

// BankDetails is the bank sub-record of the invoice notes block.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
	BranchCode    string `json:"branchCode"`
	AccountNumber string `json:"accountNumber"`
}

// InvoiceModel aggregates everything the invoice composer edits.
// It is transient: drafts live only in the in-process draft store and are
// never written to the database.
type InvoiceModel struct {
	DraftID     string `json:"draftID"`
	OwnerUserID string `json:"-"`

	From   string `json:"from"`
	BillTo string `json:"billTo"`
	ShipTo string `json:"shipTo,omitempty"`

	InvoiceNumber string `json:"invoiceNumber"`
	InvoiceDate   string `json:"invoiceDate"`
	DueDate       string `json:"dueDate,omitempty"`
	PONumber      string `json:"poNumber,omitempty"`

	CurrencyCode   string `json:"currencyCode"`
	CurrencySymbol string `json:"currencySymbol"`

	Items       []LineItem      `json:"items"`
	Adjustments AdjustmentSet   `json:"adjustments"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`

	BankDetails *BankDetails `json:"bankDetails,omitempty"`
	Terms       string       `json:"terms,omitempty"`

	LogoURL      string `json:"logoURL,omitempty"`
	SignatureURL string `json:"signatureURL,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// Totals carries every derived monetary figure for an invoice.
// All fields are full-precision; rounding happens at display time only.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxLines       []TaxLine       `json:"taxLines"`
	TaxTotal       decimal.Decimal `json:"taxTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ShippingAmount decimal.Decimal `json:"shippingAmount"`
	Total          decimal.Decimal `json:"total"`
	DueBalance     decimal.Decimal `json:"dueBalance"`
}

// InvoiceSnapshot is the read-only copy handed to the document renderer:
// the model plus its totals, fully resolved at snapshot time.
type InvoiceSnapshot struct {
	InvoiceModel
	Totals Totals `json:"totals"`
}
