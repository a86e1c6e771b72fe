package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	"github.com/quickbill/quickbill_backend/internal/core/domain"
	portssvc "github.com/quickbill/quickbill_backend/internal/core/ports/services"
	"github.com/quickbill/quickbill_backend/internal/core/services"
)

// --- Mock ResetCodeRepository ---
type MockResetCodeRepository struct {
	mock.Mock
}

func (m *MockResetCodeRepository) StoreCode(ctx context.Context, emailOrPhone string, code string, ttl time.Duration) error {
	args := m.Called(ctx, emailOrPhone, code, ttl)
	return args.Error(0)
}

func (m *MockResetCodeRepository) GetCode(ctx context.Context, emailOrPhone string) (string, error) {
	args := m.Called(ctx, emailOrPhone)
	return args.String(0), args.Error(1)
}

func (m *MockResetCodeRepository) DeleteCode(ctx context.Context, emailOrPhone string) error {
	args := m.Called(ctx, emailOrPhone)
	return args.Error(0)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendResetCode(ctx context.Context, user *domain.User, code string) error {
	args := m.Called(ctx, user, code)
	return args.Error(0)
}

// --- Test Suite ---
type PasswordResetServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockCodeRepo *MockResetCodeRepository
	mockNotifier *MockNotifier
	service      portssvc.PasswordResetSvcFacade
}

func (suite *PasswordResetServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockCodeRepo = new(MockResetCodeRepository)
	suite.mockNotifier = new(MockNotifier)
	userService := services.NewUserService(suite.mockUserRepo)
	suite.service = services.NewPasswordResetService(userService, suite.mockCodeRepo, suite.mockNotifier)
}

// --- RequestReset ---

func (suite *PasswordResetServiceTestSuite) TestRequestReset_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "reset@example.com"}

	suite.mockUserRepo.On("FindUserByContact", ctx, user.Email).Return(user, nil).Once()
	suite.mockCodeRepo.On("StoreCode", ctx, user.Email, mock.MatchedBy(func(code string) bool {
		return len(code) == 6
	}), mock.AnythingOfType("time.Duration")).Return(nil).Once()
	suite.mockNotifier.On("SendResetCode", ctx, user, mock.AnythingOfType("string")).Return(nil).Once()

	err := suite.service.RequestReset(ctx, user.Email)

	suite.Require().NoError(err)
	suite.mockCodeRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestRequestReset_UnknownContactSilentlySucceeds() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByContact", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RequestReset(ctx, "ghost@example.com")

	suite.Require().NoError(err)
	suite.mockCodeRepo.AssertNotCalled(suite.T(), "StoreCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendResetCode", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PasswordResetServiceTestSuite) TestRequestReset_DeliveryFailure() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Phone: "+27821234567"}

	suite.mockUserRepo.On("FindUserByContact", ctx, user.Phone).Return(user, nil).Once()
	suite.mockCodeRepo.On("StoreCode", ctx, user.Phone, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("SendResetCode", ctx, user, mock.Anything).Return(assert.AnError).Once()

	err := suite.service.RequestReset(ctx, user.Phone)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
}

// --- VerifyCode ---

func (suite *PasswordResetServiceTestSuite) TestVerifyCode_Match() {
	ctx := context.Background()

	suite.mockCodeRepo.On("GetCode", ctx, "reset@example.com").Return("123456", nil).Once()

	err := suite.service.VerifyCode(ctx, "reset@example.com", "123456")

	suite.Require().NoError(err)
}

func (suite *PasswordResetServiceTestSuite) TestVerifyCode_Mismatch() {
	ctx := context.Background()

	suite.mockCodeRepo.On("GetCode", ctx, "reset@example.com").Return("123456", nil).Once()

	err := suite.service.VerifyCode(ctx, "reset@example.com", "654321")

	suite.Require().Error(err)
}

func (suite *PasswordResetServiceTestSuite) TestVerifyCode_Expired() {
	ctx := context.Background()

	suite.mockCodeRepo.On("GetCode", ctx, "reset@example.com").Return("", apperrors.ErrNotFound).Once()

	err := suite.service.VerifyCode(ctx, "reset@example.com", "123456")

	suite.Require().Error(err)
}

// --- ResetPassword ---

func (suite *PasswordResetServiceTestSuite) TestResetPassword_Success() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString(), Email: "reset@example.com"}

	suite.mockCodeRepo.On("GetCode", ctx, user.Email).Return("123456", nil).Once()
	suite.mockUserRepo.On("FindUserByContact", ctx, user.Email).Return(user, nil).Once()
	suite.mockCodeRepo.On("DeleteCode", ctx, user.Email).Return(nil).Once()
	suite.mockUserRepo.On("UpdatePasswordHash", ctx, user.UserID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ResetPassword(ctx, user.Email, "123456", "fresh-password")

	suite.Require().NoError(err)
	suite.mockCodeRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *PasswordResetServiceTestSuite) TestResetPassword_BadCode() {
	ctx := context.Background()

	suite.mockCodeRepo.On("GetCode", ctx, "reset@example.com").Return("123456", nil).Once()

	err := suite.service.ResetPassword(ctx, "reset@example.com", "000000", "fresh-password")

	suite.Require().Error(err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockCodeRepo.AssertNotCalled(suite.T(), "DeleteCode", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestPasswordResetService(t *testing.T) {
	suite.Run(t, new(PasswordResetServiceTestSuite))
}
