package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/core/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/handlers"
	"github.com/falconsoft3d/falconerp/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SequenceService ---
type MockSequenceService struct {
	mock.Mock
}

var _ portssvc.SequenceSvcFacade = (*MockSequenceService)(nil)

func (m *MockSequenceService) Allocate(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	args := m.Called(ctx, companyID, docType)
	return args.String(0), args.Error(1)
}

func (m *MockSequenceService) Peek(ctx context.Context, companyID string, docType domain.DocumentType, requestingUserID string) (*domain.NumberingSeries, error) {
	args := m.Called(ctx, companyID, docType, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NumberingSeries), args.Error(1)
}

// --- Test Suite ---
type SeriesHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockSequenceService *MockSequenceService
	jwtSecret           string
}

func (suite *SeriesHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "falconerp-test",
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

func (suite *SeriesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSequenceService = new(MockSequenceService)

	v1 := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterSeriesRoutes(v1, suite.mockSequenceService)
}

func (suite *SeriesHandlerTestSuite) getSeries(companyID, docType, token string) *httptest.ResponseRecorder {
	url := fmt.Sprintf("/api/v1/companies/%s/series/%s", companyID, docType)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *SeriesHandlerTestSuite) TestGetSeries_Success() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	expected := &domain.NumberingSeries{
		CompanyID:    companyID,
		DocumentType: domain.DocTypeSalesInvoice,
		Prefix:       "INV",
		Padding:      4,
		NextNumber:   8,
	}
	suite.mockSequenceService.On("Peek",
		mock.AnythingOfType("*context.valueCtx"), companyID, domain.DocTypeSalesInvoice, userID,
	).Return(expected, nil).Once()

	w := suite.getSeries(companyID, "SALES_INVOICE", suite.generateTestToken(userID))

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.NumberingSeriesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV", resp.Prefix)
	suite.Equal(int64(8), resp.NextNumber)
	suite.Equal("SALES_INVOICE", resp.DocumentType)

	suite.mockSequenceService.AssertExpectations(suite.T())
}

func (suite *SeriesHandlerTestSuite) TestGetSeries_UnknownType_Returns400() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockSequenceService.On("Peek",
		mock.AnythingOfType("*context.valueCtx"), companyID, domain.DocumentType("RECEIPT"), userID,
	).Return(nil, fmt.Errorf("%w: RECEIPT", services.ErrInvalidDocumentType)).Once()

	w := suite.getSeries(companyID, "RECEIPT", suite.generateTestToken(userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSequenceService.AssertExpectations(suite.T())
}

func (suite *SeriesHandlerTestSuite) TestGetSeries_NotAMember_Returns403() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockSequenceService.On("Peek",
		mock.AnythingOfType("*context.valueCtx"), companyID, domain.DocTypeJournal, userID,
	).Return(nil, apperrors.ErrForbidden).Once()

	w := suite.getSeries(companyID, "JOURNAL", suite.generateTestToken(userID))

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockSequenceService.AssertExpectations(suite.T())
}

func (suite *SeriesHandlerTestSuite) TestGetSeries_MissingToken_Returns401() {
	companyID := uuid.NewString()

	w := suite.getSeries(companyID, "JOURNAL", "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockSequenceService.AssertNotCalled(suite.T(), "Peek", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSeriesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SeriesHandlerTestSuite))
}
