package seed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	delinquencydomain "github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	organizationdomain "github.com/smallbiznis/rentfolio/internal/organization/domain"
	"gorm.io/gorm"
)

const (
	defaultOrgName = "Main"
	defaultOrgSlug = "main"

	defaultPlaybookName = "Standard Rent Reminders"
)

// EnsureMainOrg seeds the default organization for startup bootstrap.
func EnsureMainOrg(db *gorm.DB) error {
	return ensureMainOrg(db, 0)
}

// EnsureMainOrgWithID seeds the default organization with a fixed id so
// self-hosted deployments keep a stable org id across resets.
func EnsureMainOrgWithID(db *gorm.DB, orgID int64) error {
	return ensureMainOrg(db, orgID)
}

func ensureMainOrg(db *gorm.DB, orgID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureMainOrgTx(ctx, tx, node, orgID)
		if err != nil {
			return err
		}
		return ensureDefaultPlaybookTx(ctx, tx, node, org.ID)
	})
}

func ensureMainOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID int64) (organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", defaultOrgSlug).First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}

	id := node.Generate()
	if orgID != 0 {
		id = snowflake.ID(orgID)
	}
	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        id,
		Name:      defaultOrgName,
		Slug:      defaultOrgSlug,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, nil
}

// ensureDefaultPlaybookTx gives a fresh install a working escalation policy
// so overdue payments start generating reminders without any setup.
func ensureDefaultPlaybookTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&delinquencydomain.DelinquencyPlaybook{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	intervals := []delinquencydomain.ReminderInterval{
		{
			Days:            3,
			ActionType:      delinquencydomain.ActionTypeSMS,
			MessageTemplate: "Hi {tenantName}, your rent payment of {amount} was due on {dueDate}. Please pay at your earliest convenience.",
		},
		{
			Days:            7,
			ActionType:      delinquencydomain.ActionTypeSMS,
			MessageTemplate: "Hi {tenantName}, your rent payment of {amount} for {propertyName} is now {daysOverdue} days late. Please contact the office.",
		},
		{
			Days:            14,
			ActionType:      delinquencydomain.ActionTypeSMS,
			MessageTemplate: "Final notice: your rent payment of {amount} is {daysOverdue} days overdue. Further action may be taken.",
		},
	}
	raw, err := json.Marshal(intervals)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	playbook := delinquencydomain.DelinquencyPlaybook{
		ID:                node.Generate(),
		OrgID:             orgID,
		Name:              defaultPlaybookName,
		Description:       "Reminds tenants by SMS at 3, 7 and 14 days overdue.",
		GracePeriodDays:   3,
		ReminderIntervals: raw,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	return tx.WithContext(ctx).Create(&playbook).Error
}
