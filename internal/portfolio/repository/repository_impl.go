package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindPropertyByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*domain.Property, error) {
	var property domain.Property
	err := db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repo) GetProperty(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Property, error) {
	var property domain.Property
	err := db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// UpsertProperty keys on (org, name). An existing row keeps its ID,
// created_at and original import batch tag; everything else is overwritten
// from the incoming record.
func (r *repo) UpsertProperty(ctx context.Context, db *gorm.DB, property *domain.Property) error {
	existing, err := r.FindPropertyByName(ctx, db, property.OrgID, property.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Create(property).Error
	}
	property.ID = existing.ID
	property.CreatedAt = existing.CreatedAt
	property.ImportBatchID = existing.ImportBatchID
	return db.WithContext(ctx).Save(property).Error
}

func (r *repo) FindUnit(ctx context.Context, db *gorm.DB, orgID, propertyID snowflake.ID, unitNumber string) (*domain.Unit, error) {
	var unit domain.Unit
	err := db.WithContext(ctx).
		Where("org_id = ? AND property_id = ? AND unit_number = ?", orgID, propertyID, unitNumber).
		First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *repo) GetUnit(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Unit, error) {
	var unit domain.Unit
	err := db.WithContext(ctx).Where("id = ?", id).First(&unit).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// UpsertUnit keys on the (org, property, unit number) composite.
func (r *repo) UpsertUnit(ctx context.Context, db *gorm.DB, unit *domain.Unit) error {
	existing, err := r.FindUnit(ctx, db, unit.OrgID, unit.PropertyID, unit.UnitNumber)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Create(unit).Error
	}
	unit.ID = existing.ID
	unit.CreatedAt = existing.CreatedAt
	unit.ImportBatchID = existing.ImportBatchID
	return db.WithContext(ctx).Save(unit).Error
}

func (r *repo) FindTenantByEmail(ctx context.Context, db *gorm.DB, orgID snowflake.ID, email string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).
		Where("org_id = ? AND email = ?", orgID, email).
		First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) GetTenant(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).Where("id = ?", id).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *repo) UpsertTenant(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	existing, err := r.FindTenantByEmail(ctx, db, tenant.OrgID, tenant.Email)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Create(tenant).Error
	}
	tenant.ID = existing.ID
	tenant.CreatedAt = existing.CreatedAt
	tenant.ImportBatchID = existing.ImportBatchID
	return db.WithContext(ctx).Save(tenant).Error
}

func (r *repo) FindLease(ctx context.Context, db *gorm.DB, orgID, unitID, tenantID snowflake.ID) (*domain.Lease, error) {
	var lease domain.Lease
	err := db.WithContext(ctx).
		Where("org_id = ? AND unit_id = ? AND tenant_id = ?", orgID, unitID, tenantID).
		First(&lease).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *repo) GetLease(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Lease, error) {
	var lease domain.Lease
	err := db.WithContext(ctx).Where("id = ?", id).First(&lease).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *repo) UpsertLease(ctx context.Context, db *gorm.DB, lease *domain.Lease) error {
	existing, err := r.FindLease(ctx, db, lease.OrgID, lease.UnitID, lease.TenantID)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Create(lease).Error
	}
	lease.ID = existing.ID
	lease.CreatedAt = existing.CreatedAt
	lease.ImportBatchID = existing.ImportBatchID
	return db.WithContext(ctx).Save(lease).Error
}

func (r *repo) FindVendorByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repo) UpsertVendor(ctx context.Context, db *gorm.DB, vendor *domain.Vendor) error {
	existing, err := r.FindVendorByName(ctx, db, vendor.OrgID, vendor.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Create(vendor).Error
	}
	vendor.ID = existing.ID
	vendor.CreatedAt = existing.CreatedAt
	vendor.ImportBatchID = existing.ImportBatchID
	return db.WithContext(ctx).Save(vendor).Error
}

func (r *repo) CreateMaintenanceRequest(ctx context.Context, db *gorm.DB, request *domain.MaintenanceRequest) error {
	return db.WithContext(ctx).Create(request).Error
}

func (r *repo) CreateTransaction(ctx context.Context, db *gorm.DB, transaction *domain.RentTransaction) error {
	return db.WithContext(ctx).Create(transaction).Error
}

func (r *repo) DeleteImportBatch(ctx context.Context, db *gorm.DB, orgID snowflake.ID, batchID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children before parents to keep foreign keys satisfied.
		for _, model := range []any{
			&domain.RentTransaction{},
			&domain.MaintenanceRequest{},
			&domain.Lease{},
			&domain.Tenant{},
			&domain.Unit{},
			&domain.Vendor{},
			&domain.Property{},
		} {
			result := tx.Where("org_id = ? AND import_batch_id = ?", orgID, batchID).Delete(model)
			if result.Error != nil {
				return result.Error
			}
			total += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) ListOverduePayments(ctx context.Context, db *gorm.DB, now time.Time) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).
		Where("status = ? AND due_date < ?", domain.PaymentStatusPending, now).
		Order("due_date asc, id asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) GetSmsPreferences(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.SmsPreference, error) {
	var prefs domain.SmsPreference
	err := db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}
