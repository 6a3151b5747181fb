package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Company   CompanySvcFacade
	Account   AccountSvcFacade
	Ledger    LedgerSvcFacade
	Sequence  SequenceSvcFacade
	Invoice   InvoiceSvcFacade
	Quote     QuoteSvcFacade
	WorkOrder WorkOrderSvcFacade
	User      UserSvcFacade
	Auth      AuthSvcFacade
}
