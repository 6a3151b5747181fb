package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/dto"
	"github.com/falconsoft3d/falconerp/internal/middleware"
	"github.com/falconsoft3d/falconerp/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

var (
	ErrJournalUnbalanced  = errors.New("journal debits and credits do not balance")
	ErrJournalMinLines    = errors.New("journal must have at least two lines")
	ErrJournalMinAccounts = errors.New("journal must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNegativeAmount     = errors.New("debit and credit amounts must be non-negative")
	ErrDescriptionMissing = errors.New("journal description is required")
)

// ImbalanceError reports the diverging totals of a rejected journal.
type ImbalanceError struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Diff        decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%v: total debit is %s, total credit is %s, difference %s",
		ErrJournalUnbalanced, e.TotalDebit.String(), e.TotalCredit.String(), e.Diff.String())
}

func (e *ImbalanceError) Unwrap() error {
	return ErrJournalUnbalanced
}

// ledgerService provides journal posting and the balance invariant check.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	companySvc  portssvc.CompanySvcFacade
	sequenceSvc portssvc.SequenceSvcFacade
}

// NewLedgerService creates a new LedgerSvcFacade.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, companySvc portssvc.CompanySvcFacade, sequenceSvc portssvc.SequenceSvcFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
		sequenceSvc: sequenceSvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// ValidateBalance checks the fundamental double-entry invariant on candidate lines.
// Accepts iff there are at least two lines, both sides of every line are
// non-negative, and |sum(debit) - sum(credit)| <= accounting.BalanceTolerance.
func (s *ledgerService) ValidateBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return ErrJournalMinLines
	}

	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: account %s", ErrNegativeAmount, line.AccountID)
		}
	}

	totalDebit, totalCredit := accounting.SumSides(lines)
	diff := totalDebit.Sub(totalCredit).Abs()
	if diff.GreaterThan(accounting.BalanceTolerance) {
		return &ImbalanceError{TotalDebit: totalDebit, TotalCredit: totalCredit, Diff: diff}
	}

	return nil
}

// CreateJournal creates a new journal entry with its lines after validation.
// The document number is allocated only after all validation passes, so a
// rejected entry never consumes a counter value or mutates any state.
func (s *ledgerService) CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateJournal", slog.String("user_id", creatorUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	// --- Basic Validation ---
	if len(req.Lines) < 2 {
		return nil, ErrJournalMinLines
	}

	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	// Lines must involve at least 2 different accounts
	accountSet := make(map[string]bool)
	for _, line := range req.Lines {
		accountSet[line.AccountID] = true
	}
	if len(accountSet) < 2 {
		return nil, ErrJournalMinAccounts
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	domainLines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		domainLines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			AccountID:   lineReq.AccountID,
			Debit:       lineReq.Debit,
			Credit:      lineReq.Credit,
			Description: lineReq.Description,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
			// RunningBalance is calculated and set by the repository
		}
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	// Balance invariant (double-entry check)
	if err := s.ValidateBalance(domainLines); err != nil {
		return nil, err
	}

	// --- Fetch Accounts and Validate Further ---
	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, companyID, uniqueAccountIDs, creatorUserID)
	if err != nil {
		logger.Error("Failed to fetch accounts for journal creation", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType)
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if acc.CompanyID != companyID {
			logger.Warn("Account used in journal belongs to a different company", slog.String("journal_company", companyID), slog.String("account_id", id), slog.String("account_company", acc.CompanyID))
			return nil, fmt.Errorf("%w: account %s does not belong to company %s", ErrAccountNotFound, id, companyID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		accountTypes[id] = acc.AccountType
	}

	// --- Calculate Net Balance Changes for Accounts ---
	balanceChanges := make(map[string]decimal.Decimal)
	for _, line := range domainLines {
		accountType := accountTypes[line.AccountID]
		signedAmount, err := accounting.CalculateSignedAmount(line, accountType)
		if err != nil {
			logger.Error("Error calculating signed amount during balance change calculation", slog.String("error", err.Error()), slog.String("line_id", line.LineID))
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(signedAmount)
	}

	domainJournal := domain.Journal{
		JournalID:   journalID,
		CompanyID:   companyID,
		JournalDate: req.Date,
		Reference:   req.Reference,
		Description: req.Description,
		Status:      domain.Posted,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	// --- Number Allocation + Persistence ---
	// The unique constraint on (company_id, number) is the safety net behind the
	// atomic allocator; a collision gets one fresh allocation before giving up.
	for attempt := 0; attempt < 2; attempt++ {
		number, err := s.sequenceSvc.Allocate(ctx, companyID, domain.DocTypeJournal)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate journal number: %w", err)
		}
		domainJournal.Number = number
		for i := range domainLines {
			domainLines[i].JournalID = domainJournal.JournalID
		}

		err = s.journalRepo.SaveJournal(ctx, domainJournal, domainLines, balanceChanges)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt == 0 {
			logger.Warn("Journal number collision, retrying allocation", slog.String("company_id", companyID), slog.String("number", number))
			continue
		}
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal created successfully", slog.String("journal_id", domainJournal.JournalID), slog.String("number", domainJournal.Number), slog.String("company_id", companyID))
	domainJournal.Lines = nil
	return &domainJournal, nil
}

// GetJournalByID retrieves a specific journal entry with its lines.
func (s *ledgerService) GetJournalByID(ctx context.Context, companyID string, journalID string, requestingUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetJournalByID", slog.String("user_id", requestingUserID), slog.String("company_id", companyID), slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, err
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal by ID", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}

	// Ensure the found journal actually belongs to the requested company
	if journal.CompanyID != companyID {
		logger.Warn("Journal found but belongs to different company", slog.String("journal_id", journalID), slog.String("journal_company", journal.CompanyID), slog.String("requested_company", companyID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch lines for journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, err)
	}
	journal.Lines = lines

	logger.Debug("Journal and lines retrieved successfully", slog.String("journal_id", journalID), slog.Int("line_count", len(lines)))
	return journal, nil
}

// ListJournals retrieves a paginated list of journals for a specific company.
func (s *ledgerService) ListJournals(ctx context.Context, companyID string, userID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListJournals", "error", err)
		return nil, err
	}

	journals, nextToken, err := s.journalRepo.ListJournalsByCompany(ctx, companyID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list journals from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	journalResponses := make([]dto.JournalResponse, len(journals))
	for i, journal := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journal.JournalID)
			if err != nil {
				logger.Warn("Failed to fetch lines for journal", "journal_id", journal.JournalID, "error", err)
			} else {
				journal.Lines = lines
			}
		}
		journalResponses[i] = dto.ToJournalResponse(&journal)
	}

	resp := &dto.ListJournalsResponse{
		Journals:  journalResponses,
		NextToken: nextToken,
	}

	logger.Info("Journals listed successfully", "count", len(journals))
	return resp, nil
}

// UpdateJournal updates the description, reference and date of a journal entry.
// The number and the lines are immutable once posted.
func (s *ledgerService) UpdateJournal(ctx context.Context, companyID string, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateJournal", slog.String("user_id", requestingUserID), slog.String("company_id", companyID), slog.String("journal_id", journalID), slog.String("error", err.Error()))
		return nil, err
	}

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal not found for update", slog.String("journal_id", journalID), slog.String("company_id", companyID))
		} else {
			logger.Error("Failed to find journal for update", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, err
	}

	if journal.CompanyID != companyID {
		logger.Warn("Attempt to update journal from wrong company", slog.String("journal_id", journalID), slog.String("journal_company", journal.CompanyID), slog.String("requested_company", companyID))
		return nil, apperrors.ErrNotFound
	}

	updated := false
	if req.Date != nil {
		journal.JournalDate = *req.Date
		updated = true
	}
	if req.Reference != nil {
		journal.Reference = *req.Reference
		updated = true
	}
	if req.Description != nil {
		if *req.Description == "" {
			return nil, ErrDescriptionMissing
		}
		journal.Description = *req.Description
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for journal update", slog.String("journal_id", journalID))
		return journal, nil
	}

	now := time.Now().UTC()
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.UpdateJournal(ctx, *journal); err != nil {
		logger.Error("Failed to save journal update to repository", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to save journal update: %w", err)
	}

	logger.Info("Journal updated successfully", slog.String("journal_id", journalID))
	journal.Lines = nil
	return journal, nil
}

// ListLinesByAccount retrieves lines posted against a specific account within a company.
func (s *ledgerService) ListLinesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListJournalLinesParams) (*dto.ListJournalLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListLinesByAccount", "error", err)
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20 // Default limit
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, companyID, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list lines by account from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journal lines: %w", err)
	}

	resp := &dto.ListJournalLinesResponse{
		Lines:     dto.ToJournalLineResponses(lines),
		NextToken: nextToken,
	}

	logger.Info("Journal lines listed successfully for account", "count", len(lines))
	return resp, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
