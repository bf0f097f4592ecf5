package mapping

import (
	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/leasepay/lease_management_app/internal/models"
)

// ToModelLeaseAccount converts a domain LeaseAccount to a model LeaseAccount
func ToModelLeaseAccount(d domain.LeaseAccount) models.LeaseAccount {
	return models.LeaseAccount{
		LeaseAccountID:           d.LeaseAccountID,
		LandlordID:               d.LandlordID,
		TenantID:                 d.TenantID,
		UnitID:                   d.UnitID,
		MonthlyRent:              d.MonthlyRent,
		CurrencyCode:             d.CurrencyCode,
		Status:                   models.LeaseStatus(d.Status),
		AdvanceRentMonths:        d.AdvanceRentMonths,
		AdvanceRentAmount:        d.AdvanceRentAmount,
		AdvanceRentUsed:          d.AdvanceRentUsed,
		AdvanceRentCollectedDate: d.AdvanceRentCollectedDate,
		AuditFields:              ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLeaseAccount converts a model LeaseAccount to a domain LeaseAccount
func ToDomainLeaseAccount(m models.LeaseAccount) domain.LeaseAccount {
	return domain.LeaseAccount{
		LeaseAccountID:           m.LeaseAccountID,
		LandlordID:               m.LandlordID,
		TenantID:                 m.TenantID,
		UnitID:                   m.UnitID,
		MonthlyRent:              m.MonthlyRent,
		CurrencyCode:             m.CurrencyCode,
		Status:                   domain.LeaseStatus(m.Status),
		AdvanceRentMonths:        m.AdvanceRentMonths,
		AdvanceRentAmount:        m.AdvanceRentAmount,
		AdvanceRentUsed:          m.AdvanceRentUsed,
		AdvanceRentCollectedDate: m.AdvanceRentCollectedDate,
		AuditFields:              ToDomainAuditFields(m.AuditFields),
	}
}
