package mapping

import (
	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/leasepay/lease_management_app/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	var method *string
	if d.PaymentMethod != nil {
		m := string(*d.PaymentMethod)
		method = &m
	}
	return models.Invoice{
		InvoiceID:          d.InvoiceID,
		LeaseAccountID:     d.LeaseAccountID,
		LandlordID:         d.LandlordID,
		InvoiceNumber:      d.InvoiceNumber,
		InvoiceDate:        d.InvoiceDate,
		DueDate:            d.DueDate,
		RentAmount:         d.RentAmount,
		LateFee:            d.LateFee,
		CurrencyCode:       d.CurrencyCode,
		Status:             models.InvoiceStatus(d.Status),
		PaidDate:           d.PaidDate,
		PaymentMethod:      method,
		AdvanceRentApplied: d.AdvanceRentApplied,
		IsAdvanceCovered:   d.IsAdvanceCovered,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	var method *domain.PaymentMethod
	if m.PaymentMethod != nil {
		pm := domain.PaymentMethod(*m.PaymentMethod)
		method = &pm
	}
	return domain.Invoice{
		InvoiceID:          m.InvoiceID,
		LeaseAccountID:     m.LeaseAccountID,
		LandlordID:         m.LandlordID,
		InvoiceNumber:      m.InvoiceNumber,
		InvoiceDate:        m.InvoiceDate,
		DueDate:            m.DueDate,
		RentAmount:         m.RentAmount,
		LateFee:            m.LateFee,
		CurrencyCode:       m.CurrencyCode,
		Status:             domain.InvoiceStatus(m.Status),
		PaidDate:           m.PaidDate,
		PaymentMethod:      method,
		AdvanceRentApplied: m.AdvanceRentApplied,
		IsAdvanceCovered:   m.IsAdvanceCovered,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
