package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// coverageTolerance absorbs decimal rounding at boundary amounts: an invoice
// is treated as fully covered when the applied amount is within one cent of
// the total due.
var coverageTolerance = decimal.NewFromFloat(0.01)

// CoveragePeriod is the date range during which a lease account's advance
// balance is eligible to be applied to invoices. The range is half-open:
// an invoice dated exactly at End is not covered.
type CoveragePeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the given date falls inside [Start, End).
func (p CoveragePeriod) Contains(date time.Time) bool {
	return !date.Before(p.Start) && date.Before(p.End)
}

// Coverage is the result of checking a single invoice date against a lease
// account's advance-rent state.
type Coverage struct {
	Covered         bool            `json:"covered"`
	Remaining       decimal.Decimal `json:"remaining"`
	MonthsRemaining int             `json:"monthsRemaining"`
	CanFullyCover   bool            `json:"canFullyCover"`
}

// ComputeCoveragePeriod returns the advance-rent coverage window for the
// account, or nil when no advance rent has been collected. End is Start plus
// the collected number of calendar months; AddDate normalizes month-length
// overflow (Jan 31 + 1 month rolls into March).
func ComputeCoveragePeriod(account LeaseAccount) *CoveragePeriod {
	if account.AdvanceRentMonths <= 0 || account.AdvanceRentCollectedDate == nil {
		return nil
	}
	start := *account.AdvanceRentCollectedDate
	return &CoveragePeriod{
		Start: start,
		End:   start.AddDate(0, account.AdvanceRentMonths, 0),
	}
}

// CheckCoverage reports whether the invoice date is inside the account's
// coverage period and how much balance is left to apply. Pure: it never
// mutates the account.
func CheckCoverage(account LeaseAccount, invoiceDate time.Time) Coverage {
	remaining := account.AdvanceRentRemaining()
	period := ComputeCoveragePeriod(account)
	if period == nil || !period.Contains(invoiceDate) {
		return Coverage{Remaining: remaining}
	}

	monthsRemaining := 0
	for d := invoiceDate; d.Before(period.End); d = d.AddDate(0, 1, 0) {
		monthsRemaining++
	}

	return Coverage{
		Covered:         true,
		Remaining:       remaining,
		MonthsRemaining: monthsRemaining,
		CanFullyCover:   remaining.IsPositive(),
	}
}

// FullyCovers reports whether applied satisfies due within the coverage
// tolerance.
func FullyCovers(applied, due decimal.Decimal) bool {
	return applied.GreaterThanOrEqual(due.Sub(coverageTolerance))
}
