package accounting

import (
	"fmt"

	"github.com/falconsoft3d/falconerp/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum permitted difference between total debits
// and total credits of a journal. Amounts are decimals, so balanced entries
// normally match exactly; the tolerance absorbs rounding from upstream
// currency arithmetic. It is applied uniformly regardless of entry size.
var BalanceTolerance = decimal.RequireFromString("0.01")

// SumSides returns the total debit and total credit across the given lines.
func SumSides(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// CalculateSignedAmount converts a line into the signed amount it contributes
// to the account's balance. The line's net (debit minus credit) is used, so a
// line carrying both sides counts only for its difference.
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func CalculateSignedAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	net := line.Net()

	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Income:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
}

// ComputeLineTotals calculates subtotal, tax and total for a priced line.
// TaxRate is a percentage (21 means 21%). Results are rounded to 2 decimal places.
func ComputeLineTotals(quantity, unitPrice, taxRate decimal.Decimal) (subtotal, taxAmount, total decimal.Decimal) {
	subtotal = quantity.Mul(unitPrice).Round(2)
	taxAmount = subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total = subtotal.Add(taxAmount)
	return subtotal, taxAmount, total
}
