package dto

import (
	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"github.com/quickbill/quickbill_backend/internal/utils/currencies"
	"github.com/shopspring/decimal"
)

// UpdateDraftRequest updates header and metadata fields on a draft.
// Pointers differentiate omitted fields from explicit zero values.
type UpdateDraftRequest struct {
	From          *string `json:"from"`
	BillTo        *string `json:"billTo"`
	ShipTo        *string `json:"shipTo"`
	InvoiceNumber *string `json:"invoiceNumber"`
	InvoiceDate   *string `json:"invoiceDate"`
	DueDate       *string `json:"dueDate"`
	PONumber      *string `json:"poNumber"`
	Terms         *string `json:"terms"`

	AmountPaid *decimal.Decimal `json:"amountPaid"`

	BankDetails *BankDetailsRequest `json:"bankDetails"`

	LogoURL      *string `json:"logoURL"`
	SignatureURL *string `json:"signatureURL"`
}

// BankDetailsRequest is the bank sub-record of the notes block.
type BankDetailsRequest struct {
	AccountName   string `json:"accountName"`
	BankName      string `json:"bankName"`
	BranchCode    string `json:"branchCode"`
	AccountNumber string `json:"accountNumber"`
}

// UpdateItemRequest updates one or more fields of a ledger line.
// Quantity/rate changes trigger an immediate amount recompute.
type UpdateItemRequest struct {
	Description *string          `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitRate    *decimal.Decimal `json:"unitRate"`
}

// AddTaxRequest appends a named percentage tax to the adjustment set.
type AddTaxRequest struct {
	Name    string          `json:"name" binding:"required"`
	Percent decimal.Decimal `json:"percent" binding:"required"`
}

// SetDiscountRequest sets the single discount percentage.
type SetDiscountRequest struct {
	Percent decimal.Decimal `json:"percent" binding:"required"`
}

// SetShippingRequest sets the single flat shipping charge.
type SetShippingRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SetCurrencyRequest selects the draft's display currency by code.
type SetCurrencyRequest struct {
	CurrencyCode string `json:"currencyCode" binding:"required"`
}

// TaxLineResponse is a computed tax row in the totals block.
type TaxLineResponse struct {
	Name    string          `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

// TotalsResponse carries the derived figures plus display strings formatted
// with the draft's currency symbol.
type TotalsResponse struct {
	Subtotal       decimal.Decimal   `json:"subtotal"`
	TaxLines       []TaxLineResponse `json:"taxLines"`
	TaxTotal       decimal.Decimal   `json:"taxTotal"`
	DiscountAmount decimal.Decimal   `json:"discountAmount"`
	ShippingAmount decimal.Decimal   `json:"shippingAmount"`
	Total          decimal.Decimal   `json:"total"`
	DueBalance     decimal.Decimal   `json:"dueBalance"`

	SubtotalDisplay   string `json:"subtotalDisplay"`
	TotalDisplay      string `json:"totalDisplay"`
	DueBalanceDisplay string `json:"dueBalanceDisplay"`
}

// DraftResponse is the full draft state returned after every mutation.
type DraftResponse struct {
	Draft  domain.InvoiceModel `json:"draft"`
	Totals TotalsResponse      `json:"totals"`
}

// ToTotalsResponse converts computed totals to the response DTO, formatting
// display strings with the given currency symbol.
func ToTotalsResponse(t domain.Totals, symbol string) TotalsResponse {
	taxLines := make([]TaxLineResponse, len(t.TaxLines))
	for i, tl := range t.TaxLines {
		taxLines[i] = TaxLineResponse{
			Name:    tl.Name,
			Percent: tl.Percent,
			Amount:  tl.Amount,
			Display: currencies.FormatAmount(tl.Amount, symbol),
		}
	}
	return TotalsResponse{
		Subtotal:          t.Subtotal,
		TaxLines:          taxLines,
		TaxTotal:          t.TaxTotal,
		DiscountAmount:    t.DiscountAmount,
		ShippingAmount:    t.ShippingAmount,
		Total:             t.Total,
		DueBalance:        t.DueBalance,
		SubtotalDisplay:   currencies.FormatAmount(t.Subtotal, symbol),
		TotalDisplay:      currencies.FormatAmount(t.Total, symbol),
		DueBalanceDisplay: currencies.FormatAmount(t.DueBalance, symbol),
	}
}

// ToDraftResponse pairs a draft with its freshly computed totals.
func ToDraftResponse(model domain.InvoiceModel, totals domain.Totals) DraftResponse {
	return DraftResponse{
		Draft:  model,
		Totals: ToTotalsResponse(totals, model.CurrencySymbol),
	}
}
