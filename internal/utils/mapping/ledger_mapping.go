package mapping

import (
	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/leasepay/lease_management_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		LedgerEntryID:   d.LedgerEntryID,
		LandlordID:      d.LandlordID,
		LeaseAccountID:  d.LeaseAccountID,
		Type:            string(d.Type),
		Category:        string(d.Category),
		Amount:          d.Amount,
		CurrencyCode:    d.CurrencyCode,
		Description:     d.Description,
		TransactionDate: d.TransactionDate,
		PaidDate:        d.PaidDate,
		PaymentMethod:   string(d.PaymentMethod),
		ReferenceNumber: d.ReferenceNumber,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerEntryID:   m.LedgerEntryID,
		LandlordID:      m.LandlordID,
		LeaseAccountID:  m.LeaseAccountID,
		Type:            domain.LedgerEntryType(m.Type),
		Category:        domain.LedgerCategory(m.Category),
		Amount:          m.Amount,
		CurrencyCode:    m.CurrencyCode,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
		PaidDate:        m.PaidDate,
		PaymentMethod:   domain.PaymentMethod(m.PaymentMethod),
		ReferenceNumber: m.ReferenceNumber,
		Status:          domain.LedgerEntryStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLandlord converts a model Landlord row to a domain Landlord.
func ToDomainLandlord(m models.Landlord) domain.Landlord {
	var status *domain.RunStatus
	if m.LastRunStatus != nil {
		s := domain.RunStatus(*m.LastRunStatus)
		status = &s
	}
	return domain.Landlord{
		LandlordID: m.LandlordID,
		Name:       m.Name,
		AutoInvoice: domain.AutoInvoiceSettings{
			Enabled:        m.AutoInvoiceEnabled,
			DayOfMonth:     m.AutoInvoiceDayOfMonth,
			DefaultDueDays: m.DefaultDueDays,
			LastRunAt:      m.LastRunAt,
			LastRunStatus:  status,
			LastRunMessage: m.LastRunMessage,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
