package domain_test

import (
	"testing"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberingSeriesFormat(t *testing.T) {
	testCases := []struct {
		name     string
		series   domain.NumberingSeries
		counter  int64
		year     int
		expected string
	}{
		{
			name:     "Invoice padding four",
			series:   domain.NumberingSeries{Prefix: "INV", Padding: 4},
			counter:  7,
			year:     2025,
			expected: "INV0007",
		},
		{
			name:     "Invoice large counter exceeds padding",
			series:   domain.NumberingSeries{Prefix: "INV", Padding: 4},
			counter:  12345,
			year:     2025,
			expected: "INV12345",
		},
		{
			name:     "Quote embeds year",
			series:   domain.NumberingSeries{Prefix: "COT", Padding: 3, EmbedYear: true},
			counter:  7,
			year:     2025,
			expected: "COT-2025-007",
		},
		{
			name:     "Quote counter continues across year change",
			series:   domain.NumberingSeries{Prefix: "COT", Padding: 3, EmbedYear: true},
			counter:  42,
			year:     2026,
			expected: "COT-2026-042",
		},
		{
			name:     "Work order prefix",
			series:   domain.NumberingSeries{Prefix: "OT", Padding: 4},
			counter:  1,
			year:     2025,
			expected: "OT0001",
		},
		{
			name:     "Journal prefix",
			series:   domain.NumberingSeries{Prefix: "JRN", Padding: 4},
			counter:  99,
			year:     2025,
			expected: "JRN0099",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.series.Format(tc.counter, tc.year))
		})
	}
}

func TestDefaultSeries(t *testing.T) {
	companyID := "company-123"
	series := domain.DefaultSeries(companyID)

	require.Len(t, series, 5)

	byType := make(map[domain.DocumentType]domain.NumberingSeries, len(series))
	for _, s := range series {
		assert.Equal(t, companyID, s.CompanyID)
		assert.Equal(t, int64(1), s.NextNumber)
		byType[s.DocumentType] = s
	}

	assert.Equal(t, "INV", byType[domain.DocTypeSalesInvoice].Prefix)
	assert.Equal(t, "BILL", byType[domain.DocTypePurchaseInvoice].Prefix)
	assert.Equal(t, "COT", byType[domain.DocTypeQuote].Prefix)
	assert.Equal(t, "OT", byType[domain.DocTypeWorkOrder].Prefix)
	assert.Equal(t, "JRN", byType[domain.DocTypeJournal].Prefix)

	assert.True(t, byType[domain.DocTypeQuote].EmbedYear)
	assert.Equal(t, 3, byType[domain.DocTypeQuote].Padding)
	assert.False(t, byType[domain.DocTypeSalesInvoice].EmbedYear)
	assert.Equal(t, 4, byType[domain.DocTypeSalesInvoice].Padding)
}

func TestValidDocumentType(t *testing.T) {
	assert.True(t, domain.ValidDocumentType(domain.DocTypeSalesInvoice))
	assert.True(t, domain.ValidDocumentType(domain.DocTypeJournal))
	assert.False(t, domain.ValidDocumentType(domain.DocumentType("RECEIPT")))
	assert.False(t, domain.ValidDocumentType(domain.DocumentType("")))
}
