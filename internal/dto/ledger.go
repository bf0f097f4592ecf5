package dto

import (
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	LedgerEntryID   string                   `json:"ledgerEntryID"`
	LandlordID      string                   `json:"landlordID"`
	LeaseAccountID  *string                  `json:"leaseAccountID,omitempty"`
	Type            domain.LedgerEntryType   `json:"type"`
	Category        domain.LedgerCategory    `json:"category"`
	Amount          decimal.Decimal          `json:"amount"`
	CurrencyCode    string                   `json:"currencyCode"`
	Description     string                   `json:"description"`
	TransactionDate time.Time                `json:"transactionDate"`
	PaidDate        time.Time                `json:"paidDate"`
	PaymentMethod   domain.PaymentMethod     `json:"paymentMethod"`
	ReferenceNumber string                   `json:"referenceNumber"`
	Status          domain.LedgerEntryStatus `json:"status"`
}

// ListLedgerEntriesResponse wraps a paginated ledger listing.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to a response DTO
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerEntryID:   e.LedgerEntryID,
		LandlordID:      e.LandlordID,
		LeaseAccountID:  e.LeaseAccountID,
		Type:            e.Type,
		Category:        e.Category,
		Amount:          e.Amount,
		CurrencyCode:    e.CurrencyCode,
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		PaidDate:        e.PaidDate,
		PaymentMethod:   e.PaymentMethod,
		ReferenceNumber: e.ReferenceNumber,
		Status:          e.Status,
	}
}

// ToListLedgerEntriesResponse converts domain entries plus a pagination token.
func ToListLedgerEntriesResponse(entries []domain.LedgerEntry, nextToken *string) ListLedgerEntriesResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToLedgerEntryResponse(&e)
	}
	return ListLedgerEntriesResponse{Entries: res, NextToken: nextToken}
}
