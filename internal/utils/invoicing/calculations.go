package invoicing

import (
	"github.com/quickbill/quickbill_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives every monetary figure of an invoice from its line
// items, adjustments and amount paid. It is pure and idempotent: callers may
// invoke it after any mutation without side effects.
//
// Each tax is computed independently off the same subtotal, never compounded
// on previously applied taxes. Absent discount/shipping count as zero.
// Negative quantities and rates are accepted as-is.
func ComputeTotals(items []domain.LineItem, adjustments domain.AdjustmentSet, amountPaid decimal.Decimal) domain.Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}

	taxLines := make([]domain.TaxLine, 0, len(adjustments.Taxes))
	taxTotal := decimal.Zero
	for _, tax := range adjustments.Taxes {
		amount := subtotal.Mul(tax.Percent).Div(oneHundred)
		taxLines = append(taxLines, domain.TaxLine{
			Name:    tax.Name,
			Percent: tax.Percent,
			Amount:  amount,
		})
		taxTotal = taxTotal.Add(amount)
	}

	discountAmount := decimal.Zero
	if adjustments.DiscountPercent != nil {
		discountAmount = subtotal.Mul(*adjustments.DiscountPercent).Div(oneHundred)
	}

	shippingAmount := decimal.Zero
	if adjustments.Shipping != nil {
		shippingAmount = *adjustments.Shipping
	}

	total := subtotal.Add(taxTotal).Sub(discountAmount).Add(shippingAmount)

	return domain.Totals{
		Subtotal:       subtotal,
		TaxLines:       taxLines,
		TaxTotal:       taxTotal,
		DiscountAmount: discountAmount,
		ShippingAmount: shippingAmount,
		Total:          total,
		DueBalance:     total.Sub(amountPaid),
	}
}
