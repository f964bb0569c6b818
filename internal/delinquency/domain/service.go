package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
)

type CreatePlaybookRequest struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	PropertyID        string             `json:"property_id"`
	GracePeriodDays   int                `json:"grace_period_days"`
	ReminderIntervals []ReminderInterval `json:"reminder_intervals"`
	IsActive          *bool              `json:"is_active"`
}

// UpdatePlaybookRequest changes only the fields that are set. An empty
// PropertyID clears the property scope, making the playbook global.
type UpdatePlaybookRequest struct {
	ID                string             `json:"-"`
	Name              *string            `json:"name"`
	Description       *string            `json:"description"`
	PropertyID        *string            `json:"property_id"`
	GracePeriodDays   *int               `json:"grace_period_days"`
	ReminderIntervals []ReminderInterval `json:"reminder_intervals"`
	IsActive          *bool              `json:"is_active"`
}

type GetPlaybookRequest struct {
	ID string
}

type DeletePlaybookRequest struct {
	ID string
}

type ListPlaybooksRequest struct {
	ActiveOnly bool
	PropertyID string
}

type ListPlaybooksResponse struct {
	Playbooks []DelinquencyPlaybook `json:"playbooks"`
}

type ListActionsRequest struct {
	PaymentID string
	PageToken string
	PageSize  int32
}

type ListActionsResponse struct {
	pagination.PageInfo
	Actions []DelinquencyAction `json:"actions"`
}

// PaymentError records a payment the sweep could not fully process.
type PaymentError struct {
	PaymentID string `json:"payment_id"`
	Error     string `json:"error"`
}

// SweepResult summarizes one run over all overdue payments.
type SweepResult struct {
	PaymentsChecked int            `json:"payments_checked"`
	ActionsSent     int            `json:"actions_sent"`
	ActionsFailed   int            `json:"actions_failed"`
	Errors          []PaymentError `json:"errors,omitempty"`
}

type Service interface {
	CreatePlaybook(context.Context, CreatePlaybookRequest) (DelinquencyPlaybook, error)
	UpdatePlaybook(context.Context, UpdatePlaybookRequest) (DelinquencyPlaybook, error)
	GetPlaybook(context.Context, GetPlaybookRequest) (DelinquencyPlaybook, error)
	ListPlaybooks(context.Context, ListPlaybooksRequest) (ListPlaybooksResponse, error)
	DeletePlaybook(context.Context, DeletePlaybookRequest) error
	ListActions(context.Context, ListActionsRequest) (ListActionsResponse, error)

	// ProcessDelinquentPayments walks every overdue payment across all
	// organizations and fires any playbook intervals that are due.
	ProcessDelinquentPayments(ctx context.Context) (SweepResult, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidGracePeriod  = errors.New("invalid_grace_period")
	ErrInvalidIntervals    = errors.New("invalid_intervals")
)
