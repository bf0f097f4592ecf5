package domain

import "time"

// RunStatus is the outcome of an automated invoice-generation run.
type RunStatus string

const (
	RunSuccess RunStatus = "SUCCESS"
	RunFailed  RunStatus = "FAILED"
)

// AutoInvoiceSettings is a landlord's automated invoice-generation
// configuration. The engine reads Enabled, DayOfMonth and DefaultDueDays;
// the batch scheduler writes the LastRun fields as a best-effort side effect
// and never reads them back.
type AutoInvoiceSettings struct {
	Enabled        bool       `json:"enabled"`
	DayOfMonth     int        `json:"dayOfMonth"`     // 1-31, clamped to the current month's length at run time
	DefaultDueDays int        `json:"defaultDueDays"` // days between invoice date and due date
	LastRunAt      *time.Time `json:"lastRunAt,omitempty"`
	LastRunStatus  *RunStatus `json:"lastRunStatus,omitempty"`
	LastRunMessage *string    `json:"lastRunMessage,omitempty"`
}

// DefaultDueDays is applied when a landlord has no configured payment terms.
const DefaultDueDays = 30

// Landlord is the owning party of lease accounts and invoices.
type Landlord struct {
	LandlordID  string              `json:"landlordID"`
	Name        string              `json:"name"`
	AutoInvoice AutoInvoiceSettings `json:"autoInvoice"`

	AuditFields
}
