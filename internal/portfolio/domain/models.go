package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus is the lifecycle state of a rent payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

type Property struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	Name          string            `gorm:"not null" json:"name"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	ZipCode       string            `json:"zip_code"`
	PropertyType  string            `json:"property_type"`
	YearBuilt     string            `json:"year_built,omitempty"`
	Description   string            `json:"description,omitempty"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	ImportBatchID string            `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null" json:"updated_at"`
}

type Unit struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PropertyID    snowflake.ID `gorm:"not null;index" json:"property_id"`
	UnitNumber    string       `gorm:"not null" json:"unit_number"`
	UnitType      string       `json:"unit_type"`
	Bedrooms      float64      `json:"bedrooms"`
	Bathrooms     float64      `json:"bathrooms"`
	SquareFeet    float64      `json:"square_feet"`
	MonthlyRent   float64      `json:"monthly_rent"`
	Deposit       float64      `json:"deposit"`
	Status        string       `gorm:"not null;default:vacant" json:"status"`
	ImportBatchID string       `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

type Tenant struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID  `gorm:"not null;index" json:"organization_id"`
	FirstName     string        `gorm:"not null" json:"first_name"`
	LastName      string        `gorm:"not null" json:"last_name"`
	Email         string        `gorm:"not null;index" json:"email"`
	Phone         string        `json:"phone,omitempty"`
	PropertyID    snowflake.ID  `gorm:"index" json:"property_id,omitempty"`
	UnitID        snowflake.ID  `gorm:"index" json:"unit_id,omitempty"`
	MoveInDate    *time.Time    `json:"move_in_date,omitempty"`
	MonthlyRent   float64       `json:"monthly_rent"`
	Balance       float64       `json:"balance"`
	ImportBatchID string        `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

type Lease struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PropertyID    snowflake.ID `gorm:"not null;index" json:"property_id"`
	UnitID        snowflake.ID `gorm:"not null;index" json:"unit_id"`
	TenantID      snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	StartDate     time.Time    `gorm:"not null" json:"start_date"`
	EndDate       *time.Time   `json:"end_date,omitempty"`
	MonthlyRent   float64      `json:"monthly_rent"`
	Deposit       float64      `json:"deposit"`
	Status        string       `gorm:"not null;default:active" json:"status"`
	ImportBatchID string       `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

type Vendor struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Name          string       `gorm:"not null" json:"name"`
	ContactName   string       `json:"contact_name,omitempty"`
	Email         string       `json:"email,omitempty"`
	Phone         string       `json:"phone,omitempty"`
	Category      string       `json:"category,omitempty"`
	Address       string       `json:"address,omitempty"`
	City          string       `json:"city,omitempty"`
	State         string       `json:"state,omitempty"`
	ZipCode       string       `json:"zip_code,omitempty"`
	IsActive      bool         `gorm:"not null;default:true" json:"is_active"`
	ImportBatchID string       `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

type MaintenanceRequest struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PropertyID    snowflake.ID `gorm:"not null;index" json:"property_id"`
	UnitID        snowflake.ID `gorm:"index" json:"unit_id,omitempty"`
	Title         string       `gorm:"not null" json:"title"`
	Description   string       `json:"description,omitempty"`
	Priority      string       `gorm:"not null;default:medium" json:"priority"`
	Status        string       `gorm:"not null;default:open" json:"status"`
	Category      string       `json:"category,omitempty"`
	ReportedAt    *time.Time   `json:"reported_at,omitempty"`
	VendorID      snowflake.ID `gorm:"index" json:"vendor_id,omitempty"`
	Cost          float64      `json:"cost"`
	ImportBatchID string       `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

type RentTransaction struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PropertyID    snowflake.ID `gorm:"not null;index" json:"property_id"`
	UnitID        snowflake.ID `gorm:"index" json:"unit_id,omitempty"`
	TenantID      snowflake.ID `gorm:"index" json:"tenant_id,omitempty"`
	Type          string       `gorm:"not null" json:"type"`
	Amount        float64      `gorm:"not null" json:"amount"`
	Date          time.Time    `gorm:"not null" json:"date"`
	Description   string       `json:"description,omitempty"`
	Category      string       `json:"category,omitempty"`
	ImportBatchID string       `gorm:"index" json:"import_batch_id,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

type Payment struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID  `gorm:"not null;index" json:"organization_id"`
	LeaseID   snowflake.ID  `gorm:"not null;index" json:"lease_id"`
	TenantID  snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	Amount    float64       `gorm:"not null" json:"amount"`
	DueDate   time.Time     `gorm:"not null;index" json:"due_date"`
	PaidAt    *time.Time    `json:"paid_at,omitempty"`
	Status    PaymentStatus `gorm:"not null;default:pending;index" json:"status"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`
}

// SmsPreference gates outbound rent reminders per tenant.
type SmsPreference struct {
	TenantID      snowflake.ID `gorm:"primaryKey" json:"tenant_id"`
	OrgID         snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PhoneNumber   string       `json:"phone_number,omitempty"`
	OptedIn       bool         `gorm:"not null;default:false" json:"opted_in"`
	RentReminders bool         `gorm:"not null;default:true" json:"rent_reminders"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
}

func (RentTransaction) TableName() string { return "rent_transactions" }
