package accounting_test

import (
	"testing"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/falconsoft3d/falconerp/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSumSides(t *testing.T) {
	lines := []domain.JournalLine{
		{Debit: d("100.50"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: d("75.25")},
		{Debit: d("24.75"), Credit: decimal.Zero},
		{Debit: decimal.Zero, Credit: d("50.00")},
	}

	totalDebit, totalCredit := accounting.SumSides(lines)
	assert.True(t, d("125.25").Equal(totalDebit), "total debit mismatch: %s", totalDebit)
	assert.True(t, d("125.25").Equal(totalCredit), "total credit mismatch: %s", totalCredit)
}

func TestSumSidesEmpty(t *testing.T) {
	totalDebit, totalCredit := accounting.SumSides(nil)
	assert.True(t, totalDebit.IsZero())
	assert.True(t, totalCredit.IsZero())
}

func TestCalculateSignedAmount(t *testing.T) {
	debitLine := domain.JournalLine{Debit: d("100"), Credit: decimal.Zero}
	creditLine := domain.JournalLine{Debit: decimal.Zero, Credit: d("100")}

	testCases := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    string
	}{
		{"Debit to asset increases", debitLine, domain.Asset, "100"},
		{"Credit to asset decreases", creditLine, domain.Asset, "-100"},
		{"Debit to expense increases", debitLine, domain.Expense, "100"},
		{"Credit to expense decreases", creditLine, domain.Expense, "-100"},
		{"Debit to liability decreases", debitLine, domain.Liability, "-100"},
		{"Credit to liability increases", creditLine, domain.Liability, "100"},
		{"Debit to equity decreases", debitLine, domain.Equity, "-100"},
		{"Credit to equity increases", creditLine, domain.Equity, "100"},
		{"Debit to income decreases", debitLine, domain.Income, "-100"},
		{"Credit to income increases", creditLine, domain.Income, "100"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := accounting.CalculateSignedAmount(tc.line, tc.accountType)
			require.NoError(t, err)
			assert.True(t, d(tc.expected).Equal(signed), "expected %s, got %s", tc.expected, signed)
		})
	}
}

func TestCalculateSignedAmountBothSides(t *testing.T) {
	// Lines carrying both a debit and a credit are legal input; only the
	// difference may reach the account balance.
	mixedDebitHeavy := domain.JournalLine{Debit: d("50"), Credit: d("30")}
	mixedCreditHeavy := domain.JournalLine{Debit: d("30"), Credit: d("50")}
	mixedEven := domain.JournalLine{Debit: d("40"), Credit: d("40")}

	testCases := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		expected    string
	}{
		{"Net debit to asset", mixedDebitHeavy, domain.Asset, "20"},
		{"Net credit to asset", mixedCreditHeavy, domain.Asset, "-20"},
		{"Net debit to liability", mixedDebitHeavy, domain.Liability, "-20"},
		{"Net credit to liability", mixedCreditHeavy, domain.Liability, "20"},
		{"Net debit to income", mixedDebitHeavy, domain.Income, "-20"},
		{"Even sides to asset", mixedEven, domain.Asset, "0"},
		{"Even sides to equity", mixedEven, domain.Equity, "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			signed, err := accounting.CalculateSignedAmount(tc.line, tc.accountType)
			require.NoError(t, err)
			assert.True(t, d(tc.expected).Equal(signed), "expected %s, got %s", tc.expected, signed)
		})
	}
}

func TestCalculateSignedAmountUnknownType(t *testing.T) {
	line := domain.JournalLine{AccountID: "acc-1", Debit: d("10"), Credit: decimal.Zero}
	_, err := accounting.CalculateSignedAmount(line, domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestComputeLineTotals(t *testing.T) {
	testCases := []struct {
		name             string
		quantity         string
		unitPrice        string
		taxRate          string
		expectedSubtotal string
		expectedTax      string
		expectedTotal    string
	}{
		{"Simple no tax", "2", "10.00", "0", "20.00", "0.00", "20.00"},
		{"With 21 percent tax", "3", "100.00", "21", "300.00", "63.00", "363.00"},
		{"Fractional quantity", "1.5", "9.99", "10", "14.99", "1.50", "16.49"},
		{"Rounding on subtotal", "0.333", "3.00", "0", "1.00", "0.00", "1.00"},
		{"Rounding on tax", "1", "10.05", "15", "10.05", "1.51", "11.56"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			subtotal, tax, total := accounting.ComputeLineTotals(d(tc.quantity), d(tc.unitPrice), d(tc.taxRate))
			assert.True(t, d(tc.expectedSubtotal).Equal(subtotal), "subtotal: expected %s, got %s", tc.expectedSubtotal, subtotal)
			assert.True(t, d(tc.expectedTax).Equal(tax), "tax: expected %s, got %s", tc.expectedTax, tax)
			assert.True(t, d(tc.expectedTotal).Equal(total), "total: expected %s, got %s", tc.expectedTotal, total)
		})
	}
}

func TestBalanceTolerance(t *testing.T) {
	assert.True(t, accounting.BalanceTolerance.Equal(d("0.01")))
}
