package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")

// Repository is the storage surface the import pipeline and the delinquency
// engine share. Upserts are keyed by each entity's identity fields so
// re-importing the same export updates rather than duplicates.
type Repository interface {
	FindPropertyByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*Property, error)
	GetProperty(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Property, error)
	UpsertProperty(ctx context.Context, db *gorm.DB, property *Property) error

	FindUnit(ctx context.Context, db *gorm.DB, orgID, propertyID snowflake.ID, unitNumber string) (*Unit, error)
	GetUnit(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Unit, error)
	UpsertUnit(ctx context.Context, db *gorm.DB, unit *Unit) error

	FindTenantByEmail(ctx context.Context, db *gorm.DB, orgID snowflake.ID, email string) (*Tenant, error)
	GetTenant(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	UpsertTenant(ctx context.Context, db *gorm.DB, tenant *Tenant) error

	FindLease(ctx context.Context, db *gorm.DB, orgID, unitID, tenantID snowflake.ID) (*Lease, error)
	GetLease(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Lease, error)
	UpsertLease(ctx context.Context, db *gorm.DB, lease *Lease) error

	FindVendorByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*Vendor, error)
	UpsertVendor(ctx context.Context, db *gorm.DB, vendor *Vendor) error

	CreateMaintenanceRequest(ctx context.Context, db *gorm.DB, request *MaintenanceRequest) error
	CreateTransaction(ctx context.Context, db *gorm.DB, transaction *RentTransaction) error

	// DeleteImportBatch removes every row tagged with the batch ID, across
	// all importable tables, and reports how many rows went away.
	DeleteImportBatch(ctx context.Context, db *gorm.DB, orgID snowflake.ID, batchID string) (int64, error)

	ListOverduePayments(ctx context.Context, db *gorm.DB, now time.Time) ([]Payment, error)
	GetSmsPreferences(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*SmsPreference, error)
}
