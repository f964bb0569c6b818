package domain

import (
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	ActionTypeSMS = "sms"

	ActionStatusSent    = "sent"
	ActionStatusFailed  = "failed"
	ActionStatusSkipped = "skipped"
)

// ReminderInterval fires once a payment has been overdue for at least Days
// days. The message template may reference {tenantName}, {amount},
// {daysOverdue}, {dueDate} and {propertyName}.
type ReminderInterval struct {
	Days            int    `json:"days"`
	ActionType      string `json:"action_type"`
	MessageTemplate string `json:"message_template"`
}

// DelinquencyPlaybook escalates one overdue payment over time. A nil
// PropertyID scopes the playbook to the whole organization; otherwise only
// payments under that property are evaluated against it.
type DelinquencyPlaybook struct {
	ID                snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID             snowflake.ID   `gorm:"not null;index" json:"organization_id"`
	PropertyID        *snowflake.ID  `gorm:"index" json:"property_id,omitempty"`
	Name              string         `gorm:"not null" json:"name"`
	Description       string         `json:"description,omitempty"`
	GracePeriodDays   int            `gorm:"not null;default:0" json:"grace_period_days"`
	ReminderIntervals datatypes.JSON `gorm:"type:jsonb" json:"reminder_intervals"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

// Intervals decodes the stored reminder schedule.
func (p *DelinquencyPlaybook) Intervals() ([]ReminderInterval, error) {
	if len(p.ReminderIntervals) == 0 {
		return nil, nil
	}
	var intervals []ReminderInterval
	if err := json.Unmarshal(p.ReminderIntervals, &intervals); err != nil {
		return nil, err
	}
	return intervals, nil
}

// DelinquencyAction is an append-only record of one escalation attempt.
type DelinquencyAction struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID        snowflake.ID `gorm:"not null;index" json:"organization_id"`
	PaymentID    snowflake.ID `gorm:"not null;index" json:"payment_id"`
	PlaybookID   snowflake.ID `gorm:"not null;index" json:"playbook_id"`
	TenantID     snowflake.ID `gorm:"index" json:"tenant_id"`
	IntervalDays int          `gorm:"not null" json:"interval_days"`
	ActionType   string       `gorm:"not null" json:"action_type"`
	Status       string       `gorm:"not null" json:"status"`
	Message      string       `json:"message,omitempty"`
	Detail       string       `json:"detail,omitempty"`
	SentAt       *time.Time   `json:"sent_at,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;index" json:"created_at"`
}
