package dto

import (
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
)

// AutoInvoiceSettingsResponse mirrors a landlord's automated generation
// configuration, including the outcome of the most recent run.
type AutoInvoiceSettingsResponse struct {
	Enabled        bool       `json:"enabled"`
	DayOfMonth     int        `json:"dayOfMonth"`
	DefaultDueDays int        `json:"defaultDueDays"`
	LastRunAt      *time.Time `json:"lastRunAt,omitempty"`
	LastRunStatus  *string    `json:"lastRunStatus,omitempty"`
	LastRunMessage *string    `json:"lastRunMessage,omitempty"`
}

// LandlordResponse defines the data returned for a landlord.
type LandlordResponse struct {
	LandlordID  string                      `json:"landlordID"`
	Name        string                      `json:"name"`
	AutoInvoice AutoInvoiceSettingsResponse `json:"autoInvoice"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

// ToLandlordResponse converts a domain.Landlord to a response DTO
func ToLandlordResponse(l *domain.Landlord) LandlordResponse {
	resp := LandlordResponse{
		LandlordID: l.LandlordID,
		Name:       l.Name,
		AutoInvoice: AutoInvoiceSettingsResponse{
			Enabled:        l.AutoInvoice.Enabled,
			DayOfMonth:     l.AutoInvoice.DayOfMonth,
			DefaultDueDays: l.AutoInvoice.DefaultDueDays,
			LastRunAt:      l.AutoInvoice.LastRunAt,
			LastRunMessage: l.AutoInvoice.LastRunMessage,
		},
		CreatedAt: l.CreatedAt,
	}
	if l.AutoInvoice.LastRunStatus != nil {
		status := string(*l.AutoInvoice.LastRunStatus)
		resp.AutoInvoice.LastRunStatus = &status
	}
	return resp
}

// ToListLandlordResponse converts a slice of domain.Landlord to DTOs
func ToListLandlordResponse(landlords []domain.Landlord) []LandlordResponse {
	res := make([]LandlordResponse, len(landlords))
	for i, l := range landlords {
		res[i] = ToLandlordResponse(&l)
	}
	return res
}
