package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/falconsoft3d/falconerp/internal/apperrors"
	"github.com/falconsoft3d/falconerp/internal/core/domain"
	portsrepo "github.com/falconsoft3d/falconerp/internal/core/ports/repositories"
	portssvc "github.com/falconsoft3d/falconerp/internal/core/ports/services"
	"github.com/falconsoft3d/falconerp/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSequenceRepository is an in-memory SequenceRepository whose AllocateNext
// mirrors the single-statement increment semantics of the real one: callers
// serialize on the mutex and each observes a distinct counter value.
type fakeSequenceRepository struct {
	mu     sync.Mutex
	series map[string]*domain.NumberingSeries
}

var _ portsrepo.SequenceRepository = (*fakeSequenceRepository)(nil)

func newFakeSequenceRepository(companyID string) *fakeSequenceRepository {
	repo := &fakeSequenceRepository{series: make(map[string]*domain.NumberingSeries)}
	for _, s := range domain.DefaultSeries(companyID) {
		copied := s
		repo.series[companyID+"/"+string(s.DocumentType)] = &copied
	}
	return repo
}

func (f *fakeSequenceRepository) AllocateNext(_ context.Context, companyID string, docType domain.DocumentType) (domain.NumberingSeries, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.series[companyID+"/"+string(docType)]
	if !ok {
		return domain.NumberingSeries{}, 0, apperrors.ErrNotFound
	}
	allocated := s.NextNumber
	s.NextNumber++
	return *s, allocated, nil
}

func (f *fakeSequenceRepository) FindSeries(_ context.Context, companyID string, docType domain.DocumentType) (*domain.NumberingSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.series[companyID+"/"+string(docType)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

// seriesMemberID is the only user fakeCompanyAuthorizer accepts.
const seriesMemberID = "user-1"

// fakeCompanyAuthorizer admits seriesMemberID and rejects everyone else.
type fakeCompanyAuthorizer struct{}

func (fakeCompanyAuthorizer) AuthorizeUserAction(_ context.Context, userID, _ string, _ domain.UserCompanyRole) error {
	if userID == seriesMemberID {
		return nil
	}
	return apperrors.ErrForbidden
}

func newSequenceService(companyID string) portssvc.SequenceSvcFacade {
	return services.NewSequenceService(newFakeSequenceRepository(companyID), fakeCompanyAuthorizer{})
}

func TestSequenceAllocate_FormatsNumbers(t *testing.T) {
	ctx := context.Background()
	companyID := "co-1"
	svc := newSequenceService(companyID)

	first, err := svc.Allocate(ctx, companyID, domain.DocTypeSalesInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV0001", first)

	second, err := svc.Allocate(ctx, companyID, domain.DocTypeSalesInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV0002", second)

	year := time.Now().UTC().Year()
	quote, err := svc.Allocate(ctx, companyID, domain.DocTypeQuote)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("COT-%d-001", year), quote)
}

func TestSequenceAllocate_SeriesAreIndependent(t *testing.T) {
	ctx := context.Background()
	companyID := "co-1"
	svc := newSequenceService(companyID)

	for i := 0; i < 3; i++ {
		_, err := svc.Allocate(ctx, companyID, domain.DocTypeSalesInvoice)
		require.NoError(t, err)
	}

	// Other series are unaffected by the invoice allocations.
	bill, err := svc.Allocate(ctx, companyID, domain.DocTypePurchaseInvoice)
	require.NoError(t, err)
	assert.Equal(t, "BILL0001", bill)

	journal, err := svc.Allocate(ctx, companyID, domain.DocTypeJournal)
	require.NoError(t, err)
	assert.Equal(t, "JRN0001", journal)
}

func TestSequenceAllocate_InvalidDocumentType(t *testing.T) {
	ctx := context.Background()
	svc := newSequenceService("co-1")

	_, err := svc.Allocate(ctx, "co-1", domain.DocumentType("RECEIPT"))
	assert.ErrorIs(t, err, services.ErrInvalidDocumentType)
}

func TestSequenceAllocate_SeriesNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newSequenceService("co-1")

	_, err := svc.Allocate(ctx, "other-company", domain.DocTypeSalesInvoice)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSequenceAllocate_ConcurrentAllocationsAreDistinct(t *testing.T) {
	ctx := context.Background()
	companyID := "co-1"
	svc := newSequenceService(companyID)

	const workers = 50
	results := make(chan string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			number, err := svc.Allocate(ctx, companyID, domain.DocTypeWorkOrder)
			assert.NoError(t, err)
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, workers)
	for number := range results {
		assert.False(t, seen[number], "number %s allocated twice", number)
		seen[number] = true
	}
	require.Len(t, seen, workers)

	// Gap-free: exactly the numbers 1..workers were handed out.
	for n := 1; n <= workers; n++ {
		expected := fmt.Sprintf("OT%04d", n)
		assert.True(t, seen[expected], "missing %s", expected)
	}
}

func TestSequencePeek_DoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	companyID := "co-1"
	svc := newSequenceService(companyID)

	before, err := svc.Peek(ctx, companyID, domain.DocTypeQuote, seriesMemberID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), before.NextNumber)

	after, err := svc.Peek(ctx, companyID, domain.DocTypeQuote, seriesMemberID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), after.NextNumber)
}

func TestSequencePeek_RequiresMembership(t *testing.T) {
	ctx := context.Background()
	companyID := "co-1"
	svc := newSequenceService(companyID)

	_, err := svc.Peek(ctx, companyID, domain.DocTypeQuote, "intruder")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSequencePeek_ReflectsAllocations(t *testing.T) {
	ctx := context.Background()
	companyID := "co-1"
	svc := newSequenceService(companyID)

	_, err := svc.Allocate(ctx, companyID, domain.DocTypeSalesInvoice)
	require.NoError(t, err)

	series, err := svc.Peek(ctx, companyID, domain.DocTypeSalesInvoice, seriesMemberID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), series.NextNumber)
}
