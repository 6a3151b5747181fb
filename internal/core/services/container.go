package services

import (
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/platform/config"
)

// NewServiceContainer wires all services with their repository dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	companySvc := NewCompanyService(repos.CompanyRepo, repos.UserRepo)
	accountSvc := NewAccountService(repos.AccountRepo, companySvc)
	sequenceSvc := NewSequenceService(repos.SequenceRepo, companySvc)
	ledgerSvc := NewLedgerService(repos.JournalRepo, accountSvc, companySvc, sequenceSvc)
	invoiceSvc := NewInvoiceService(repos.InvoiceRepo, companySvc, sequenceSvc)
	quoteSvc := NewQuoteService(repos.QuoteRepo, companySvc, sequenceSvc)
	workOrderSvc := NewWorkOrderService(repos.WorkOrderRepo, companySvc, sequenceSvc)
	userSvc := NewUserService(repos.UserRepo)
	authSvc := NewAuthService(repos.UserRepo, cfg)

	return &portssvc.ServiceContainer{
		Company:   companySvc,
		Account:   accountSvc,
		Ledger:    ledgerSvc,
		Sequence:  sequenceSvc,
		Invoice:   invoiceSvc,
		Quote:     quoteSvc,
		WorkOrder: workOrderSvc,
		User:      userSvc,
		Auth:      authSvc,
	}
}
