package services_test

import (
	"context"
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

// --- Mock InvoiceRepository ---
type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem) error {
	args := m.Called(ctx, invoice, items)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoicesByCompany(ctx context.Context, companyID string, kind *domain.InvoiceKind, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, companyID, kind, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Invoice), returnedNextToken, args.Error(2)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedByUserID string) error {
	args := m.Called(ctx, invoiceID, status, updatedByUserID)
	return args.Error(0)
}

// --- Test Suite Setup ---
type InvoiceServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceRepository
	mockCompanySvc  *MockCompanyService
	mockSequenceSvc *MockSequenceService
	service         portssvc.InvoiceSvcFacade
	companyID       string
	userID          string
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.mockSequenceSvc = new(MockSequenceService)
	suite.service = services.NewInvoiceService(suite.mockInvoiceRepo, suite.mockCompanySvc, suite.mockSequenceSvc)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *InvoiceServiceTestSuite) salesRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Kind:        "SALES",
		PartnerName: "Acme Corp",
		Date:        time.Now(),
		Items: []dto.CreateItemRequest{
			{Description: "Consulting", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("100.00"), TaxRate: decimal.NewFromInt(21)},
			{Description: "Travel", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("50.00"), TaxRate: decimal.Zero},
		},
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_Success() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeSalesInvoice).Return("INV0001", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem")).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal("INV0001", created.Number)
	suite.Equal(domain.SalesInvoice, created.Kind)
	suite.Equal(domain.InvoiceDraft, created.Status)

	// 3 x 100.00 at 21% plus 1 x 50.00 untaxed.
	suite.True(created.Subtotal.Equal(decimal.RequireFromString("350.00")), "subtotal %s", created.Subtotal)
	suite.True(created.TaxTotal.Equal(decimal.RequireFromString("63.00")), "tax %s", created.TaxTotal)
	suite.True(created.Total.Equal(decimal.RequireFromString("413.00")), "total %s", created.Total)

	suite.Require().Len(created.Items, 2)
	suite.Equal(0, created.Items[0].Position)
	suite.Equal(1, created.Items[1].Position)
	suite.True(created.Items[0].TaxAmount.Equal(decimal.RequireFromString("63.00")))

	suite.mockSequenceSvc.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_PurchaseUsesBillSeries() {
	ctx := context.Background()
	req := suite.salesRequest()
	req.Kind = "PURCHASE"

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypePurchaseInvoice).Return("BILL0001", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.AnythingOfType("domain.Invoice"), mock.AnythingOfType("[]domain.InvoiceItem")).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("BILL0001", created.Number)
	suite.Equal(domain.PurchaseInvoice, created.Kind)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_InvalidKind() {
	ctx := context.Background()
	req := suite.salesRequest()
	req.Kind = "CREDIT_NOTE"

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSequenceSvc.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_RejectedItems_ConsumeNoNumber() {
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*dto.CreateInvoiceRequest)
	}{
		{"Zero quantity", func(r *dto.CreateInvoiceRequest) { r.Items[0].Quantity = decimal.Zero }},
		{"Negative unit price", func(r *dto.CreateInvoiceRequest) { r.Items[0].UnitPrice = decimal.NewFromInt(-5) }},
		{"Negative tax rate", func(r *dto.CreateInvoiceRequest) { r.Items[1].TaxRate = decimal.NewFromInt(-1) }},
		{"No items", func(r *dto.CreateInvoiceRequest) { r.Items = nil }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			req := suite.salesRequest()
			tc.mutate(&req)

			suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()

			_, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.mockSequenceSvc.AssertNotCalled(suite.T(), "Allocate", mock.Anything, mock.Anything, mock.Anything)
			suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "SaveInvoice", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func (suite *InvoiceServiceTestSuite) TestCreateInvoice_NumberCollisionRetriesOnce() {
	ctx := context.Background()
	req := suite.salesRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeSalesInvoice).Return("INV0001", nil).Once()
	suite.mockSequenceSvc.On("Allocate", ctx, suite.companyID, domain.DocTypeSalesInvoice).Return("INV0002", nil).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv domain.Invoice) bool { return inv.Number == "INV0001" }), mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockInvoiceRepo.On("SaveInvoice", ctx, mock.MatchedBy(func(inv domain.Invoice) bool { return inv.Number == "INV0002" }), mock.Anything).Return(nil).Once()

	created, err := suite.service.CreateInvoice(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal("INV0002", created.Number)
	suite.mockSequenceSvc.AssertExpectations(suite.T())
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestGetInvoiceByID_WrongCompany() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{InvoiceID: invoiceID, CompanyID: uuid.NewString()}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()

	result, err := suite.service.GetInvoiceByID(ctx, suite.companyID, invoiceID, suite.userID)

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_ValidTransition() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	invoice := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: domain.InvoiceDraft}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()
	suite.mockInvoiceRepo.On("UpdateInvoiceStatus", ctx, invoiceID, domain.InvoicePosted, suite.userID).Return(nil).Once()

	updated, err := suite.service.UpdateInvoiceStatus(ctx, suite.companyID, invoiceID, domain.InvoicePosted, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InvoicePosted, updated.Status)
}

func (suite *InvoiceServiceTestSuite) TestUpdateInvoiceStatus_InvalidTransition() {
	ctx := context.Background()

	testCases := []struct {
		name string
		from domain.InvoiceStatus
		to   domain.InvoiceStatus
	}{
		{"Paid back to draft", domain.InvoicePaid, domain.InvoiceDraft},
		{"Draft straight to paid", domain.InvoiceDraft, domain.InvoicePaid},
		{"Cancelled to posted", domain.InvoiceCancelled, domain.InvoicePosted},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			invoiceID := uuid.NewString()
			invoice := &domain.Invoice{InvoiceID: invoiceID, CompanyID: suite.companyID, Status: tc.from}

			suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
			suite.mockInvoiceRepo.On("FindInvoiceByID", ctx, invoiceID).Return(invoice, nil).Once()

			_, err := suite.service.UpdateInvoiceStatus(ctx, suite.companyID, invoiceID, tc.to, suite.userID)

			suite.ErrorIs(err, apperrors.ErrConflict)
			suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "UpdateInvoiceStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
