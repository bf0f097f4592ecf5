package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents a row of the ledger_entries table. Rows are
// append-only; the application never updates or deletes them.
type LedgerEntry struct {
	LedgerEntryID   string          `db:"ledger_entry_id"`
	LandlordID      string          `db:"landlord_id"`
	LeaseAccountID  *string         `db:"lease_account_id"` // Nullable
	Type            string          `db:"type"`
	Category        string          `db:"category"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`
	Description     string          `db:"description"`
	TransactionDate time.Time       `db:"transaction_date"`
	PaidDate        time.Time       `db:"paid_date"`
	PaymentMethod   string          `db:"payment_method"`
	ReferenceNumber string          `db:"reference_number"`
	Status          string          `db:"status"`

	AuditFields
}
