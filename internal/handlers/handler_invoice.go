package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/dto"
	"github.com/quickbill/quickbill_backend/internal/middleware"
)

// invoiceHandler handles HTTP requests for invoice drafts.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(is portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: is}
}

// RegisterInvoiceRoutes registers all invoice draft routes.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createDraft)
		invoices.GET("/:id", h.getDraft)
		invoices.PATCH("/:id", h.updateDraft)
		invoices.DELETE("/:id", h.deleteDraft)

		invoices.POST("/:id/items", h.addItem)
		invoices.PATCH("/:id/items/:index", h.updateItem)
		invoices.DELETE("/:id/items/:index", h.removeItem)

		invoices.POST("/:id/taxes", h.addTax)
		invoices.DELETE("/:id/taxes/:index", h.removeTax)

		invoices.PUT("/:id/discount", h.setDiscount)
		invoices.DELETE("/:id/discount", h.clearDiscount)
		invoices.PUT("/:id/shipping", h.setShipping)
		invoices.DELETE("/:id/shipping", h.clearShipping)
		invoices.PUT("/:id/currency", h.setCurrency)

		invoices.GET("/:id/totals", h.getTotals)
		invoices.GET("/:id/pdf", h.generatePDF)
	}
}

// respondDraftError maps draft service errors to HTTP responses.
func respondDraftError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Draft not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "A PDF is already being generated for this draft"})
	default:
		logger.Error("Draft operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Draft operation failed"})
	}
}

func (h *invoiceHandler) requireOwner(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

func itemIndexParam(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, fmt.Errorf("%w: index must be an integer", apperrors.ErrValidation)
	}
	return index, nil
}

// createDraft godoc
// @Summary Start a new invoice draft
// @Description Creates a transient draft with one empty line item and USD as display currency
// @Tags invoices
// @Produce  json
// @Success 201 {object} dto.DraftResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createDraft(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	snapshot, err := h.invoiceService.CreateDraft(c.Request.Context(), userID)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// getDraft godoc
// @Summary Get an invoice draft
// @Description Returns the draft with freshly computed totals
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getDraft(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	snapshot, err := h.invoiceService.GetDraft(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// updateDraft godoc
// @Summary Update draft header fields
// @Description Updates any subset of header, metadata, notes and image fields
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   draft body dto.UpdateDraftRequest true "Fields to update"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [patch]
func (h *invoiceHandler) updateDraft(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.invoiceService.UpdateDraft(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// deleteDraft godoc
// @Summary Discard an invoice draft
// @Tags invoices
// @Param   id path string true "Draft ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteDraft(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	if err := h.invoiceService.DeleteDraft(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondDraftError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addItem godoc
// @Summary Append an empty line item
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/items [post]
func (h *invoiceHandler) addItem(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	snapshot, err := h.invoiceService.AddItem(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// updateItem godoc
// @Summary Update a line item
// @Description Updates fields of the line at the given index; quantity or rate changes recompute the line amount
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   index path int true "Line index (0-based)"
// @Param   item body dto.UpdateItemRequest true "Fields to update"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/items/{index} [patch]
func (h *invoiceHandler) updateItem(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	index, err := itemIndexParam(c)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.invoiceService.UpdateItem(c.Request.Context(), userID, c.Param("id"), index, req)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// removeItem godoc
// @Summary Remove a line item
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   index path int true "Line index (0-based)"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/items/{index} [delete]
func (h *invoiceHandler) removeItem(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	index, err := itemIndexParam(c)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	snapshot, err := h.invoiceService.RemoveItem(c.Request.Context(), userID, c.Param("id"), index)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// addTax godoc
// @Summary Add a tax line
// @Description Appends a named percentage tax; every tax applies to the subtotal independently
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   tax body dto.AddTaxRequest true "Tax name and percent"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/taxes [post]
func (h *invoiceHandler) addTax(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req dto.AddTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.invoiceService.AddTax(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// removeTax godoc
// @Summary Remove a tax line
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   index path int true "Tax index (0-based)"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/taxes/{index} [delete]
func (h *invoiceHandler) removeTax(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	index, err := itemIndexParam(c)
	if err != nil {
		respondDraftError(c, err)
		return
	}

	snapshot, err := h.invoiceService.RemoveTax(c.Request.Context(), userID, c.Param("id"), index)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// setDiscount godoc
// @Summary Set the discount percentage
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   discount body dto.SetDiscountRequest true "Discount percent"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/discount [put]
func (h *invoiceHandler) setDiscount(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req dto.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.invoiceService.SetDiscount(c.Request.Context(), userID, c.Param("id"), req.Percent)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// clearDiscount godoc
// @Summary Remove the discount
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/discount [delete]
func (h *invoiceHandler) clearDiscount(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	snapshot, err := h.invoiceService.ClearDiscount(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// setShipping godoc
// @Summary Set the flat shipping charge
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   shipping body dto.SetShippingRequest true "Shipping amount"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/shipping [put]
func (h *invoiceHandler) setShipping(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req dto.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.invoiceService.SetShipping(c.Request.Context(), userID, c.Param("id"), req.Amount)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// clearShipping godoc
// @Summary Remove the shipping charge
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Success 200 {object} dto.DraftResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/shipping [delete]
func (h *invoiceHandler) clearShipping(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	snapshot, err := h.invoiceService.ClearShipping(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// setCurrency godoc
// @Summary Set the display currency
// @Description Changes only the currency code and symbol; numeric values are untouched
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Draft ID"
// @Param   currency body dto.SetCurrencyRequest true "Currency code"
// @Success 200 {object} dto.DraftResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/currency [put]
func (h *invoiceHandler) setCurrency(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	var req dto.SetCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	snapshot, err := h.invoiceService.SetCurrency(c.Request.Context(), userID, c.Param("id"), req.CurrencyCode)
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDraftResponse(snapshot.InvoiceModel, snapshot.Totals))
}

// getTotals godoc
// @Summary Get draft totals
// @Description Recomputes and returns the derived figures with display strings
// @Tags invoices
// @Produce  json
// @Param   id path string true "Draft ID"
// @Success 200 {object} dto.TotalsResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/totals [get]
func (h *invoiceHandler) getTotals(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	totals, symbol, err := h.invoiceService.ComputeTotals(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTotalsResponse(totals, symbol))
}

// generatePDF godoc
// @Summary Download the draft as a PDF
// @Description Renders the draft in one pass; concurrent generation for the same draft is rejected
// @Tags invoices
// @Produce  application/pdf
// @Param   id path string true "Draft ID"
// @Success 200 {file} binary
// @Failure 409 {object} ErrorResponse "Generation already in progress"
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) generatePDF(c *gin.Context) {
	userID, ok := h.requireOwner(c)
	if !ok {
		return
	}

	pdfBytes, err := h.invoiceService.GeneratePDF(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondDraftError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
