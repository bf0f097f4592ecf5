package models

import "time"

// Landlord represents a row of the landlords table joined with its
// auto-invoice settings columns.
type Landlord struct {
	LandlordID string `db:"landlord_id"`
	Name       string `db:"name"`

	AutoInvoiceEnabled    bool       `db:"auto_invoice_enabled"`
	AutoInvoiceDayOfMonth int        `db:"auto_invoice_day_of_month"`
	DefaultDueDays        int        `db:"default_due_days"`
	LastRunAt             *time.Time `db:"last_run_at"`      // Nullable
	LastRunStatus         *string    `db:"last_run_status"`  // Nullable
	LastRunMessage        *string    `db:"last_run_message"` // Nullable

	AuditFields
}
