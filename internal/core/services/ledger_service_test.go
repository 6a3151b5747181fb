package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/core/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, journal, lines, balanceChanges)
	return args.Error(0)
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournalsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Journal), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) UpdateJournal(ctx context.Context, journal domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListLinesByAccountID(ctx context.Context, companyID, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := m.Called(ctx, companyID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalLine), returnedNextToken, args.Error(2)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByIDs(ctx context.Context, companyID string, accountIDs []string, requestingUserID string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, requestingUserID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, requestingUserID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	args := m.Called(ctx, companyID, accountID, requestingUserID)
	return args.Error(0)
}

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)

func (m *MockCompanyService) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) ListUserCompanies(ctx context.Context, userID string, includeDisabled bool) ([]domain.Company, error) {
	args := m.Called(ctx, userID, includeDisabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyService) ListCompanyUsers(ctx context.Context, companyID string, requestingUserID string) ([]domain.UserCompany, error) {
	args := m.Called(ctx, companyID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserCompany), args.Error(1)
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) UpdateCompany(ctx context.Context, companyID string, req dto.UpdateCompanyRequest, requestingUserID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) DeactivateCompany(ctx context.Context, companyID string, requestingUserID string) error {
	args := m.Called(ctx, companyID, requestingUserID)
	return args.Error(0)
}

func (m *MockCompanyService) AddUserToCompany(ctx context.Context, addingUserID, targetUserID, companyID string, role domain.UserCompanyRole) error {
	args := m.Called(ctx, addingUserID, targetUserID, companyID, role)
	return args.Error(0)
}

func (m *MockCompanyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	args := m.Called(ctx, userID, companyID, requiredRole)
	return args.Error(0)
}

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

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockJournalRepo  *MockJournalRepository
	mockAccountSvc   *MockAccountService
	mockCompanySvc   *MockCompanyService
	mockSequenceSvc  *MockSequenceService
	service          portssvc.LedgerSvcFacade
	assetAccount     domain.Account
	liabilityAccount domain.Account
	companyID        string
	userID           string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.mockSequenceSvc = new(MockSequenceService)
	suite.service = services.NewLedgerService(suite.mockJournalRepo, suite.mockAccountSvc, suite.mockCompanySvc, suite.mockSequenceSvc)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.assetAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1000",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.liabilityAccount = domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "2000",
		AccountType: domain.Liability,
		IsActive:    true,
	}
}

func (suite *LedgerServiceTestSuite) balancedRequest() dto.CreateJournalRequest {
	return dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Opening balance",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: suite.liabilityAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *LedgerServiceTestSuite) accountsMap() map[string]domain.Account {
	return map[string]domain.Account{
		suite.assetAccount.AccountID:     suite.assetAccount,
		suite.liabilityAccount.AccountID: suite.liabilityAccount,
	}
}

// --- ValidateBalance ---

func (suite *LedgerServiceTestSuite) TestValidateBalance_Balanced() {
	lines := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		{AccountID: "b", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
	}
	suite.NoError(suite.service.ValidateBalance(lines))
}

func (suite *LedgerServiceTestSuite) TestValidateBalance_WithinTolerance() {
	lines := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.RequireFromString("100.00"), Credit: decimal.Zero},
		{AccountID: "b", Debit: decimal.Zero, Credit: decimal.RequireFromString("99.99")},
	}
	suite.NoError(suite.service.ValidateBalance(lines))
}

func (suite *LedgerServiceTestSuite) TestValidateBalance_BeyondTolerance() {
	lines := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.RequireFromString("100.00"), Credit: decimal.Zero},
		{AccountID: "b", Debit: decimal.Zero, Credit: decimal.RequireFromString("99.98")},
	}
	err := suite.service.ValidateBalance(lines)
	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrJournalUnbalanced)

	var imbalance *services.ImbalanceError
	suite.Require().True(errors.As(err, &imbalance))
	suite.True(imbalance.TotalDebit.Equal(decimal.RequireFromString("100.00")))
	suite.True(imbalance.TotalCredit.Equal(decimal.RequireFromString("99.98")))
	suite.True(imbalance.Diff.Equal(decimal.RequireFromString("0.02")))
}

func (suite *LedgerServiceTestSuite) TestValidateBalance_TooFewLines() {
	lines := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
	}
	suite.ErrorIs(suite.service.ValidateBalance(lines), services.ErrJournalMinLines)
}

func (suite *LedgerServiceTestSuite) TestValidateBalance_NegativeAmount() {
	lines := []domain.JournalLine{
		{AccountID: "a", Debit: decimal.NewFromInt(-100), Credit: decimal.Zero},
		{AccountID: "b", Debit: decimal.Zero, Credit: decimal.NewFromInt(-100)},
	}
	suite.ErrorIs(suite.service.ValidateBalance(lines), services.ErrNegativeAmount)
}

// --- CreateJournal ---

func (suite *LedgerServiceTestSuite) TestCreateJournal_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.companyID, []string{suite.assetAccount.AccountID, suite.liabilityAccount.AccountID}, suite.userID).Return(suite.accountsMap(), nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeJournal).Return("JRN0001", nil).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.JournalID)
	suite.Equal("JRN0001", created.Number)
	suite.Equal(suite.companyID, created.CompanyID)
	suite.Equal(domain.Posted, created.Status)
	suite.Equal(suite.userID, created.CreatedBy)
	suite.Nil(created.Lines)

	suite.mockCompanySvc.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockSequenceSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_BalanceChangesSigns() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string"), suite.userID).Return(suite.accountsMap(), nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeJournal).Return("JRN0001", nil).Once()

	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)
	suite.Require().NoError(err)

	// Debit to an asset and credit to a liability both increase the balance.
	suite.True(capturedChanges[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(100)))
	suite.True(capturedChanges[suite.liabilityAccount.AccountID].Equal(decimal.NewFromInt(100)))
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_MixedSideLines() {
	ctx := context.Background()

	secondAsset := domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   suite.companyID,
		Code:        "1010",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	accounts := map[string]domain.Account{
		suite.assetAccount.AccountID: suite.assetAccount,
		secondAsset.AccountID:        secondAsset,
	}

	// Lines carrying both sides are accepted; only the net per line may
	// reach the balances. 50/30 against 30/50 moves 20 between the accounts.
	req := dto.CreateJournalRequest{
		Date:        time.Now(),
		Description: "Netting transfer",
		Lines: []dto.CreateJournalLineRequest{
			{AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(30)},
			{AccountID: secondAsset.AccountID, Debit: decimal.NewFromInt(30), Credit: decimal.NewFromInt(50)},
		},
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string"), suite.userID).Return(accounts, nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeJournal).Return("JRN0001", nil).Once()

	var capturedChanges map[string]decimal.Decimal
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.AnythingOfType("domain.Journal"), mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			capturedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)
	suite.Require().NoError(err)

	suite.True(capturedChanges[suite.assetAccount.AccountID].Equal(decimal.NewFromInt(20)),
		"first account change: %s", capturedChanges[suite.assetAccount.AccountID])
	suite.True(capturedChanges[secondAsset.AccountID].Equal(decimal.NewFromInt(-20)),
		"second account change: %s", capturedChanges[secondAsset.AccountID])
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_Unbalanced_ConsumesNoNumber() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(90)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, services.ErrJournalUnbalanced)

	// A rejected entry must not touch the allocator or the repository.
	suite.mockSequenceSvc.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_TooFewLines() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)
	suite.ErrorIs(err, services.ErrJournalMinLines)
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_SingleAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].AccountID = suite.assetAccount.AccountID

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)
	suite.ErrorIs(err, services.ErrJournalMinAccounts)
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_MissingDescription() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Description = ""

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)
	suite.ErrorIs(err, services.ErrDescriptionMissing)
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_AccountFromOtherCompany() {
	ctx := context.Background()
	req := suite.balancedRequest()

	foreign := suite.liabilityAccount
	foreign.CompanyID = uuid.NewString()
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID: suite.assetAccount,
		foreign.AccountID:            foreign,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string"), suite.userID).Return(accountsMap, nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAccountNotFound)
	suite.mockSequenceSvc.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	inactive := suite.liabilityAccount
	inactive.IsActive = false
	accountsMap := map[string]domain.Account{
		suite.assetAccount.AccountID: suite.assetAccount,
		inactive.AccountID:           inactive,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string"), suite.userID).Return(accountsMap, nil).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_NumberCollisionRetriesOnce() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockAccountSvc.On("GetAccountByIDs", ctx, suite.companyID, mock.AnythingOfType("[]string"), suite.userID).Return(suite.accountsMap(), nil).Once()

	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeJournal).Return("JRN0001", nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeJournal).Return("JRN0002", nil).Once()

	suite.mockJournalRepo.On("SaveJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool { return j.Number == "JRN0001" }), mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockJournalRepo.On("SaveJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool { return j.Number == "JRN0002" }), mock.Anything, mock.Anything).Return(nil).Once()

	created, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JRN0002", created.Number)
	suite.mockSequenceSvc.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateJournal_AuthorizationFailure() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()

	_, err := suite.service.CreateJournal(ctx, suite.companyID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockSequenceSvc.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
}

// --- GetJournalByID ---

func (suite *LedgerServiceTestSuite) TestGetJournalByID_WrongCompany() {
	ctx := context.Background()
	journalID := uuid.NewString()
	journal := &domain.Journal{JournalID: journalID, CompanyID: uuid.NewString()}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(journal, nil).Once()

	result, err := suite.service.GetJournalByID(ctx, suite.companyID, journalID, suite.userID)

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestGetJournalByID_Success() {
	ctx := context.Background()
	journalID := uuid.NewString()
	journal := &domain.Journal{JournalID: journalID, CompanyID: suite.companyID, Number: "JRN0005"}
	lines := []domain.JournalLine{
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.assetAccount.AccountID, Debit: decimal.NewFromInt(50)},
		{LineID: uuid.NewString(), JournalID: journalID, AccountID: suite.liabilityAccount.AccountID, Credit: decimal.NewFromInt(50)},
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("FindLinesByJournalID", ctx, journalID).Return(lines, nil).Once()

	result, err := suite.service.GetJournalByID(ctx, suite.companyID, journalID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JRN0005", result.Number)
	suite.Len(result.Lines, 2)
}

// --- UpdateJournal ---

func (suite *LedgerServiceTestSuite) TestUpdateJournal_NumberImmutable() {
	ctx := context.Background()
	journalID := uuid.NewString()
	journal := &domain.Journal{JournalID: journalID, CompanyID: suite.companyID, Number: "JRN0003", Description: "before"}
	newDescription := "after"

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockJournalRepo.On("FindJournalByID", ctx, journalID).Return(journal, nil).Once()
	suite.mockJournalRepo.On("UpdateJournal", ctx, mock.MatchedBy(func(j domain.Journal) bool {
		return j.Number == "JRN0003" && j.Description == newDescription
	})).Return(nil).Once()

	updated, err := suite.service.UpdateJournal(ctx, suite.companyID, journalID, dto.UpdateJournalRequest{Description: &newDescription}, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("JRN0003", updated.Number)
	suite.Equal(newDescription, updated.Description)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
