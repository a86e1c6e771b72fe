package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	"github.com/quickbill/quickbill_backend/internal/core/domain"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/dto"
	"github.com/quickbill/quickbill_backend/internal/handlers"
	"github.com/quickbill/quickbill_backend/internal/middleware"
)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) GetDraft(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) ComputeTotals(ctx context.Context, ownerUserID, draftID string) (domain.Totals, string, error) {
	args := m.Called(ctx, ownerUserID, draftID)
	return args.Get(0).(domain.Totals), args.String(1), args.Error(2)
}
func (m *MockInvoiceService) CreateDraft(ctx context.Context, ownerUserID string) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) DeleteDraft(ctx context.Context, ownerUserID, draftID string) error {
	args := m.Called(ctx, ownerUserID, draftID)
	return args.Error(0)
}
func (m *MockInvoiceService) UpdateDraft(ctx context.Context, ownerUserID, draftID string, req dto.UpdateDraftRequest) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) AddItem(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) UpdateItem(ctx context.Context, ownerUserID, draftID string, index int, req dto.UpdateItemRequest) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, index, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) RemoveItem(ctx context.Context, ownerUserID, draftID string, index int) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) AddTax(ctx context.Context, ownerUserID, draftID string, req dto.AddTaxRequest) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) RemoveTax(ctx context.Context, ownerUserID, draftID string, index int) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) SetDiscount(ctx context.Context, ownerUserID, draftID string, percent decimal.Decimal) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, percent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) ClearDiscount(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) SetShipping(ctx context.Context, ownerUserID, draftID string, amount decimal.Decimal) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) ClearShipping(ctx context.Context, ownerUserID, draftID string) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) SetCurrency(ctx context.Context, ownerUserID, draftID string, currencyCode string) (*domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ownerUserID, draftID, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceSnapshot), args.Error(1)
}
func (m *MockInvoiceService) GeneratePDF(ctx context.Context, ownerUserID, draftID string) ([]byte, error) {
	args := m.Called(ctx, ownerUserID, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Test Suite ---
type InvoiceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockInvoiceService *MockInvoiceService
	jwtSecret          string
}

func (suite *InvoiceHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "quickbill-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *InvoiceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockInvoiceService = new(MockInvoiceService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterInvoiceRoutes(v1, suite.mockInvoiceService)
}

func (suite *InvoiceHandlerTestSuite) doRequest(method, url, userID string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testSnapshot(userID, draftID string) *domain.InvoiceSnapshot {
	subtotal := decimal.NewFromInt(150)
	return &domain.InvoiceSnapshot{
		InvoiceModel: domain.InvoiceModel{
			DraftID:        draftID,
			OwnerUserID:    userID,
			CurrencyCode:   "USD",
			CurrencySymbol: "$",
			Items: []domain.LineItem{
				{Description: "Consulting", Quantity: decimal.NewFromInt(3), UnitRate: decimal.NewFromInt(50), Amount: subtotal},
			},
			CreatedAt:     time.Now(),
			LastUpdatedAt: time.Now(),
		},
		Totals: domain.Totals{
			Subtotal:   subtotal,
			Total:      subtotal,
			DueBalance: subtotal,
		},
	}
}

// --- Test Cases ---

func (suite *InvoiceHandlerTestSuite) TestCreateDraft_Success() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("CreateDraft",
		mock.AnythingOfType("*context.valueCtx"), userID,
	).Return(testSnapshot(userID, draftID), nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/invoices", userID, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.DraftResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(draftID, body.Draft.DraftID)
	suite.Equal("$150.00", body.Totals.TotalDisplay)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGetDraft_NotFound() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("GetDraft",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID,
	).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices/"+draftID, userID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGetDraft_Forbidden() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("GetDraft",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID,
	).Return(nil, apperrors.ErrForbidden).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/invoices/"+draftID, userID, nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestUpdateItem_Success() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("UpdateItem",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID, 0,
		mock.MatchedBy(func(req dto.UpdateItemRequest) bool {
			return req.Quantity != nil && req.Quantity.Equal(decimal.NewFromInt(3))
		}),
	).Return(testSnapshot(userID, draftID), nil).Once()

	payload := []byte(`{"quantity": "3"}`)
	w := suite.doRequest(http.MethodPatch, fmt.Sprintf("/api/v1/invoices/%s/items/0", draftID), userID, payload)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestUpdateItem_NonNumericIndex() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	payload := []byte(`{"quantity": "3"}`)
	w := suite.doRequest(http.MethodPatch, fmt.Sprintf("/api/v1/invoices/%s/items/abc", draftID), userID, payload)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "UpdateItem")
}

func (suite *InvoiceHandlerTestSuite) TestRemoveItem_IndexOutOfRange() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("RemoveItem",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID, 5,
	).Return(nil, fmt.Errorf("%w: item index 5 out of range", apperrors.ErrValidation)).Once()

	w := suite.doRequest(http.MethodDelete, fmt.Sprintf("/api/v1/invoices/%s/items/5", draftID), userID, nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestAddTax_Success() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("AddTax",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID,
		mock.MatchedBy(func(req dto.AddTaxRequest) bool {
			return req.Name == "VAT" && req.Percent.Equal(decimal.NewFromInt(15))
		}),
	).Return(testSnapshot(userID, draftID), nil).Once()

	payload := []byte(`{"name": "VAT", "percent": "15"}`)
	w := suite.doRequest(http.MethodPost, fmt.Sprintf("/api/v1/invoices/%s/taxes", draftID), userID, payload)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGetTotals_Success() {
	userID := uuid.NewString()
	draftID := uuid.NewString()
	totals := domain.Totals{
		Subtotal:   decimal.NewFromInt(200),
		TaxTotal:   decimal.NewFromInt(30),
		Total:      decimal.NewFromInt(230),
		DueBalance: decimal.NewFromInt(230),
	}

	suite.mockInvoiceService.On("ComputeTotals",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID,
	).Return(totals, "$", nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s/totals", draftID), userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.TotalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("$230.00", body.TotalDisplay)
	suite.True(body.Subtotal.Equal(decimal.NewFromInt(200)))
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGeneratePDF_Success() {
	userID := uuid.NewString()
	draftID := uuid.NewString()
	pdfBytes := []byte("%PDF-1.4 fake content")

	suite.mockInvoiceService.On("GeneratePDF",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID,
	).Return(pdfBytes, nil).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s/pdf", draftID), userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("application/pdf", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment")
	suite.Equal(pdfBytes, w.Body.Bytes())
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestGeneratePDF_AlreadyInFlight() {
	userID := uuid.NewString()
	draftID := uuid.NewString()

	suite.mockInvoiceService.On("GeneratePDF",
		mock.AnythingOfType("*context.valueCtx"), userID, draftID,
	).Return(nil, apperrors.ErrGenerationInFlight).Once()

	w := suite.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s/pdf", draftID), userID, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.mockInvoiceService.AssertExpectations(suite.T())
}

func (suite *InvoiceHandlerTestSuite) TestDraftRoutes_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/invoices", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockInvoiceService.AssertNotCalled(suite.T(), "CreateDraft")
}

// --- Run Test Suite ---
func TestInvoiceHandler(t *testing.T) {
	suite.Run(t, new(InvoiceHandlerTestSuite))
}
