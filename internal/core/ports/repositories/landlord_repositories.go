package repositories

import (
	"context"
	"time"

	"github.com/leasepay/lease_management_app/internal/core/domain"
)

// LandlordReader defines read operations for landlord configuration
type LandlordReader interface {
	// FindLandlordByID retrieves a landlord with its auto-invoice settings.
	FindLandlordByID(ctx context.Context, landlordID string) (*domain.Landlord, error)

	// ListLandlords retrieves all landlords with their auto-invoice settings.
	ListLandlords(ctx context.Context) ([]domain.Landlord, error)
}

// LandlordWriter defines write operations for landlord configuration
type LandlordWriter interface {
	// UpdateLastRunStatus persists the outcome of an automated generation run
	// for a landlord. Callers treat failures as non-fatal.
	UpdateLastRunStatus(ctx context.Context, landlordID string, runAt time.Time, status domain.RunStatus, message string) error
}

// LandlordRepositoryFacade combines the landlord repository interfaces
type LandlordRepositoryFacade interface {
	LandlordReader
	LandlordWriter
}
