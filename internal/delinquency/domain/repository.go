package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

// ListPlaybooksFilter narrows a playbook listing. A nil PropertyID places
// no property constraint.
type ListPlaybooksFilter struct {
	ActiveOnly bool
	PropertyID *snowflake.ID
}

type Repository interface {
	InsertPlaybook(ctx context.Context, db *gorm.DB, playbook *DelinquencyPlaybook) error
	UpdatePlaybook(ctx context.Context, db *gorm.DB, playbook *DelinquencyPlaybook) error
	FindPlaybookByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*DelinquencyPlaybook, error)
	ListPlaybooks(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListPlaybooksFilter) ([]DelinquencyPlaybook, error)
	DeletePlaybook(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)

	// ListActivePlaybooks returns active playbooks across every organization
	// for the sweep.
	ListActivePlaybooks(ctx context.Context, db *gorm.DB) ([]DelinquencyPlaybook, error)

	InsertAction(ctx context.Context, db *gorm.DB, action *DelinquencyAction) error
	// HasRecentAction reports whether the same (payment, playbook, interval,
	// action type) tuple was already recorded at or after the cutoff.
	HasRecentAction(ctx context.Context, db *gorm.DB, paymentID, playbookID snowflake.ID, intervalDays int, actionType string, since time.Time) (bool, error)
	ListActionsByPayment(ctx context.Context, db *gorm.DB, orgID, paymentID snowflake.ID, page pagination.Pagination) ([]*DelinquencyAction, error)
}
