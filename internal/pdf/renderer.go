// Package pdf renders invoice snapshots into A4 PDF documents.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/quickbill/quickbill_backend/internal/core/domain"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/utils/currencies"
)

const (
	pageMargin  = 15.0
	lineHeight  = 6.0
	imageMaxW   = 40.0
	fontFamily  = "Arial"
	fetchWindow = 10 * time.Second
)

type renderer struct {
	httpClient *http.Client
}

// NewRenderer creates a gofpdf-backed invoice renderer.
func NewRenderer() portssvc.DocumentRenderer {
	return &renderer{
		httpClient: &http.Client{Timeout: fetchWindow},
	}
}

var _ portssvc.DocumentRenderer = (*renderer)(nil)

// Render produces the full document in a single pass. Any failure, including
// an unreadable logo or signature image, aborts the render with no partial
// output.
func (r *renderer) Render(snapshot *domain.InvoiceSnapshot) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.AddPage()

	if err := r.writeHeader(doc, snapshot); err != nil {
		return nil, err
	}
	r.writeParties(doc, snapshot)
	r.writeMeta(doc, snapshot)
	r.writeItemsTable(doc, snapshot)
	r.writeTotals(doc, snapshot)
	if err := r.writeSignature(doc, snapshot); err != nil {
		return nil, err
	}
	r.writeFooter(doc, snapshot)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) writeHeader(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) error {
	topY := doc.GetY()

	if snapshot.LogoURL != "" {
		if err := r.placeImage(doc, snapshot.LogoURL, "logo", pageMargin, topY, imageMaxW); err != nil {
			return err
		}
		doc.SetY(topY + 22)
	}

	doc.SetFont(fontFamily, "", 10)
	doc.MultiCell(90, 5, snapshot.From, "", "L", false)

	pageW, _ := doc.GetPageSize()
	doc.SetXY(pageW-pageMargin-80, topY)
	doc.SetFont(fontFamily, "B", 22)
	doc.CellFormat(80, 10, "INVOICE", "", 1, "R", false, 0, "")
	if snapshot.InvoiceNumber != "" {
		doc.SetX(pageW - pageMargin - 80)
		doc.SetFont(fontFamily, "", 11)
		doc.CellFormat(80, 6, "# "+snapshot.InvoiceNumber, "", 1, "R", false, 0, "")
	}

	doc.SetY(doc.GetY() + 8)
	return nil
}

func (r *renderer) writeParties(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) {
	startY := doc.GetY()

	doc.SetFont(fontFamily, "B", 10)
	doc.CellFormat(90, lineHeight, "Bill To", "", 1, "L", false, 0, "")
	doc.SetFont(fontFamily, "", 10)
	doc.MultiCell(90, 5, snapshot.BillTo, "", "L", false)
	billToEndY := doc.GetY()

	if snapshot.ShipTo != "" {
		doc.SetXY(pageMargin+95, startY)
		doc.SetFont(fontFamily, "B", 10)
		doc.CellFormat(90, lineHeight, "Ship To", "", 1, "L", false, 0, "")
		doc.SetX(pageMargin + 95)
		doc.SetFont(fontFamily, "", 10)
		doc.MultiCell(90, 5, snapshot.ShipTo, "", "L", false)
		if doc.GetY() > billToEndY {
			billToEndY = doc.GetY()
		}
	}

	doc.SetY(billToEndY + 6)
}

func (r *renderer) writeMeta(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) {
	metaRow := func(label, value string) {
		if value == "" {
			return
		}
		doc.SetFont(fontFamily, "B", 10)
		doc.CellFormat(35, lineHeight, label, "", 0, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 10)
		doc.CellFormat(60, lineHeight, value, "", 1, "L", false, 0, "")
	}

	metaRow("Invoice Date:", snapshot.InvoiceDate)
	metaRow("Due Date:", snapshot.DueDate)
	metaRow("PO Number:", snapshot.PONumber)
	doc.SetY(doc.GetY() + 4)
}

func (r *renderer) writeItemsTable(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) {
	pageW, _ := doc.GetPageSize()
	usable := pageW - 2*pageMargin
	wDesc := usable * 0.46
	wQty := usable * 0.14
	wRate := usable * 0.20
	wAmount := usable * 0.20

	doc.SetFillColor(40, 40, 40)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont(fontFamily, "B", 10)
	doc.CellFormat(wDesc, 8, "Item", "", 0, "L", true, 0, "")
	doc.CellFormat(wQty, 8, "Quantity", "", 0, "R", true, 0, "")
	doc.CellFormat(wRate, 8, "Rate", "", 0, "R", true, 0, "")
	doc.CellFormat(wAmount, 8, "Amount", "", 1, "R", true, 0, "")
	doc.SetTextColor(0, 0, 0)

	doc.SetFont(fontFamily, "", 10)
	for _, item := range snapshot.Items {
		doc.CellFormat(wDesc, 7, item.Description, "B", 0, "L", false, 0, "")
		doc.CellFormat(wQty, 7, item.Quantity.String(), "B", 0, "R", false, 0, "")
		doc.CellFormat(wRate, 7, currencies.FormatAmount(item.UnitRate, snapshot.CurrencySymbol), "B", 0, "R", false, 0, "")
		doc.CellFormat(wAmount, 7, currencies.FormatAmount(item.Amount, snapshot.CurrencySymbol), "B", 1, "R", false, 0, "")
	}
	doc.SetY(doc.GetY() + 4)
}

func (r *renderer) writeTotals(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) {
	pageW, _ := doc.GetPageSize()
	labelX := pageW - pageMargin - 90
	symbol := snapshot.CurrencySymbol
	totals := snapshot.Totals

	row := func(label string, amount decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		doc.SetX(labelX)
		doc.SetFont(fontFamily, style, 10)
		doc.CellFormat(50, lineHeight, label, "", 0, "R", false, 0, "")
		doc.CellFormat(40, lineHeight, currencies.FormatAmount(amount, symbol), "", 1, "R", false, 0, "")
	}

	row("Subtotal", totals.Subtotal, false)
	for _, taxLine := range totals.TaxLines {
		row(fmt.Sprintf("%s (%s%%)", taxLine.Name, taxLine.Percent.String()), taxLine.Amount, false)
	}
	if !totals.DiscountAmount.IsZero() {
		row("Discount", totals.DiscountAmount.Neg(), false)
	}
	if !totals.ShippingAmount.IsZero() {
		row("Shipping", totals.ShippingAmount, false)
	}
	row("Total", totals.Total, true)
	if !snapshot.AmountPaid.IsZero() {
		row("Amount Paid", snapshot.AmountPaid, false)
		row("Balance Due", totals.DueBalance, true)
	}
	doc.SetY(doc.GetY() + 8)
}

func (r *renderer) writeSignature(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) error {
	if snapshot.SignatureURL == "" {
		return nil
	}
	y := doc.GetY()
	if err := r.placeImage(doc, snapshot.SignatureURL, "signature", pageMargin, y, imageMaxW); err != nil {
		return err
	}
	doc.SetY(y + 22)
	doc.SetFont(fontFamily, "", 9)
	doc.CellFormat(60, 5, "Authorized Signature", "T", 1, "L", false, 0, "")
	doc.SetY(doc.GetY() + 4)
	return nil
}

func (r *renderer) writeFooter(doc *gofpdf.Fpdf, snapshot *domain.InvoiceSnapshot) {
	if bd := snapshot.BankDetails; bd != nil {
		doc.SetFont(fontFamily, "B", 10)
		doc.CellFormat(0, lineHeight, "Bank Details", "", 1, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 9)
		detail := func(label, value string) {
			if value == "" {
				return
			}
			doc.CellFormat(0, 5, label+": "+value, "", 1, "L", false, 0, "")
		}
		detail("Account Name", bd.AccountName)
		detail("Bank", bd.BankName)
		detail("Branch Code", bd.BranchCode)
		detail("Account Number", bd.AccountNumber)
		doc.SetY(doc.GetY() + 4)
	}

	if snapshot.Terms != "" {
		doc.SetFont(fontFamily, "B", 10)
		doc.CellFormat(0, lineHeight, "Terms & Conditions", "", 1, "L", false, 0, "")
		doc.SetFont(fontFamily, "", 9)
		doc.MultiCell(0, 5, snapshot.Terms, "", "L", false)
	}
}

// placeImage loads an image from an http(s) URL or a base64 data URL and
// draws it at the given position, scaled to the given width.
func (r *renderer) placeImage(doc *gofpdf.Fpdf, src, name string, x, y, width float64) error {
	data, imageType, err := r.loadImage(src)
	if err != nil {
		return fmt.Errorf("failed to load %s image: %w", name, err)
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if doc.Err() {
		return fmt.Errorf("failed to decode %s image: %s", name, doc.Error())
	}
	doc.ImageOptions(name, x, y, width, 0, false, opts, 0, "")
	if doc.Err() {
		return fmt.Errorf("failed to place %s image: %s", name, doc.Error())
	}
	return nil
}

func (r *renderer) loadImage(src string) ([]byte, string, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURL(src)
	}

	resp, err := r.httpClient.Get(src)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d fetching image", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, imageTypeFromMIME(resp.Header.Get("Content-Type")), nil
}

func decodeDataURL(src string) ([]byte, string, error) {
	rest := strings.TrimPrefix(src, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("unsupported data URL format")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return data, imageTypeFromMIME(mimeType), nil
}

func imageTypeFromMIME(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "png"):
		return "PNG"
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return "JPG"
	case strings.Contains(mimeType, "gif"):
		return "GIF"
	default:
		// gofpdf infers the type from the registered name extension when blank.
		return ""
	}
}
