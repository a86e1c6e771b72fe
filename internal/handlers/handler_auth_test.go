package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/handlers"
)

// --- Mock PasswordResetService ---
type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, emailOrPhone string) error {
	args := m.Called(ctx, emailOrPhone)
	return args.Error(0)
}
func (m *MockPasswordResetService) VerifyCode(ctx context.Context, emailOrPhone string, code string) error {
	args := m.Called(ctx, emailOrPhone, code)
	return args.Error(0)
}
func (m *MockPasswordResetService) ResetPassword(ctx context.Context, emailOrPhone string, code string, newPassword string) error {
	args := m.Called(ctx, emailOrPhone, code, newPassword)
	return args.Error(0)
}

var _ portssvc.PasswordResetSvcFacade = (*MockPasswordResetService)(nil)

// --- Test Suite ---
type AuthHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockPasswordSvc *MockPasswordResetService
}

func (suite *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockPasswordSvc = new(MockPasswordResetService)

	h := handlers.NewAuthHandler(&portssvc.ServiceContainer{
		PasswordReset: suite.mockPasswordSvc,
	})

	suite.router = gin.New()
	suite.router.POST("/api/v1/auth/verify-reset-code", h.VerifyResetCode)
}

func (suite *AuthHandlerTestSuite) postJSON(url string, body string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) TestVerifyResetCode_Valid() {
	suite.mockPasswordSvc.On("VerifyCode",
		mock.Anything, "reset@example.com", "123456",
	).Return(nil).Once()

	w := suite.postJSON("/api/v1/auth/verify-reset-code", `{"emailOrPhone": "reset@example.com", "code": "123456"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockPasswordSvc.AssertExpectations(suite.T())
}

func (suite *AuthHandlerTestSuite) TestVerifyResetCode_WrongCode() {
	suite.mockPasswordSvc.On("VerifyCode",
		mock.Anything, "reset@example.com", "654321",
	).Return(apperrors.NewBadRequestError("invalid or expired reset code")).Once()

	w := suite.postJSON("/api/v1/auth/verify-reset-code", `{"emailOrPhone": "reset@example.com", "code": "654321"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "invalid or expired reset code")
}

func (suite *AuthHandlerTestSuite) TestVerifyResetCode_StoreFailureIsServerError() {
	suite.mockPasswordSvc.On("VerifyCode",
		mock.Anything, "reset@example.com", "123456",
	).Return(errors.New("failed to read reset code: connection refused")).Once()

	w := suite.postJSON("/api/v1/auth/verify-reset-code", `{"emailOrPhone": "reset@example.com", "code": "123456"}`)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "connection refused")
}

func (suite *AuthHandlerTestSuite) TestVerifyResetCode_MalformedBody() {
	w := suite.postJSON("/api/v1/auth/verify-reset-code", `{"emailOrPhone": "reset@example.com"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPasswordSvc.AssertNotCalled(suite.T(), "VerifyCode")
}

func TestAuthHandler(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
