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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerService) GetJournalByID(ctx context.Context, companyID string, journalID string, requestingUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID, journalID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerService) ListJournals(ctx context.Context, companyID string, userID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalsResponse), args.Error(1)
}

func (m *MockLedgerService) UpdateJournal(ctx context.Context, companyID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error) {
	args := m.Called(ctx, companyID, journalID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockLedgerService) ListLinesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error) {
	args := m.Called(ctx, companyID, accountID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalLinesResponse), args.Error(1)
}

func (m *MockLedgerService) ValidateBalance(lines []domain.JournalLine) error {
	args := m.Called(lines)
	return args.Error(0)
}

// --- Test Suite ---
type JournalHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	jwtSecret         string
}

func (suite *JournalHandlerTestSuite) generateTestToken(userID string) string {
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

func (suite *JournalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockLedgerService = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1/companies/:company_id")
	handlers.RegisterJournalRoutes(v1, suite.mockLedgerService)
}

func (suite *JournalHandlerTestSuite) postJSON(url string, body any, token string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *JournalHandlerTestSuite) TestCreateJournal_Success() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateJournalRequest{
		Date:        time.Now().UTC(),
		Description: "Office rent",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(500)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(500)},
		},
	}
	expected := &domain.Journal{
		JournalID:   uuid.NewString(),
		CompanyID:   companyID,
		Number:      "JRN0001",
		Description: reqBody.Description,
		Status:      domain.Posted,
	}

	suite.mockLedgerService.On("CreateJournal",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		mock.MatchedBy(func(r dto.CreateJournalRequest) bool {
			return r.Description == reqBody.Description && len(r.Lines) == 2
		}),
		userID,
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/journals", companyID)
	w := suite.postJSON(url, reqBody, suite.generateTestToken(userID))

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.JournalResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("JRN0001", resp.Number)
	suite.Equal(companyID, resp.CompanyID)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_Unbalanced_Returns400() {
	companyID := uuid.NewString()
	userID := uuid.NewString()

	reqBody := dto.CreateJournalRequest{
		Date:        time.Now().UTC(),
		Description: "Does not balance",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: uuid.NewString(), Debit: decimal.NewFromInt(100)},
			{AccountID: uuid.NewString(), Credit: decimal.NewFromInt(90)},
		},
	}

	imbalance := &services.ImbalanceError{
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(90),
		Diff:        decimal.NewFromInt(10),
	}
	suite.mockLedgerService.On("CreateJournal",
		mock.AnythingOfType("*context.valueCtx"), companyID, mock.AnythingOfType("dto.CreateJournalRequest"), userID,
	).Return(nil, imbalance).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/journals", companyID)
	w := suite.postJSON(url, reqBody, suite.generateTestToken(userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *JournalHandlerTestSuite) TestCreateJournal_MissingToken_Returns401() {
	companyID := uuid.NewString()
	url := fmt.Sprintf("/api/v1/companies/%s/journals", companyID)

	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "CreateJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalHandlerTestSuite) TestGetJournal_NotFound_Returns404() {
	companyID := uuid.NewString()
	journalID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLedgerService.On("GetJournalByID",
		mock.AnythingOfType("*context.valueCtx"), companyID, journalID, userID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/journals/%s", companyID, journalID)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *JournalHandlerTestSuite) TestListAccountLines_Success() {
	companyID := uuid.NewString()
	accountID := uuid.NewString()
	userID := uuid.NewString()
	limit := 10

	expected := &dto.ListJournalLinesResponse{
		Lines: []dto.JournalLineResponse{
			{LineID: uuid.NewString(), AccountID: accountID, Debit: decimal.NewFromInt(100), RunningBalance: decimal.NewFromInt(100)},
			{LineID: uuid.NewString(), AccountID: accountID, Credit: decimal.NewFromInt(40), RunningBalance: decimal.NewFromInt(60)},
		},
	}

	suite.mockLedgerService.On("ListLinesByAccount",
		mock.AnythingOfType("*context.valueCtx"),
		companyID,
		accountID,
		userID,
		mock.MatchedBy(func(p dto.ListJournalLinesParams) bool { return p.Limit == limit }),
	).Return(expected, nil).Once()

	url := fmt.Sprintf("/api/v1/companies/%s/accounts/%s/lines?limit=%d", companyID, accountID, limit)
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ListJournalLinesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Lines, 2)

	suite.mockLedgerService.AssertExpectations(suite.T())
}

func TestJournalHandler(t *testing.T) {
	suite.Run(t, new(JournalHandlerTestSuite))
}
