package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertPlaybook(ctx context.Context, db *gorm.DB, playbook *domain.DelinquencyPlaybook) error {
	return db.WithContext(ctx).Create(playbook).Error
}

func (r *repo) UpdatePlaybook(ctx context.Context, db *gorm.DB, playbook *domain.DelinquencyPlaybook) error {
	playbook.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(playbook).Error
}

func (r *repo) FindPlaybookByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.DelinquencyPlaybook, error) {
	var playbook domain.DelinquencyPlaybook
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&playbook).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &playbook, nil
}

func (r *repo) ListPlaybooks(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListPlaybooksFilter) ([]domain.DelinquencyPlaybook, error) {
	var playbooks []domain.DelinquencyPlaybook
	stmt := db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	if filter.PropertyID != nil {
		stmt = stmt.Where("property_id = ? OR property_id IS NULL", *filter.PropertyID)
	}
	err := stmt.Order("created_at asc, id asc").Find(&playbooks).Error
	if err != nil {
		return nil, err
	}
	return playbooks, nil
}

func (r *repo) DeletePlaybook(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Delete(&domain.DelinquencyPlaybook{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) ListActivePlaybooks(ctx context.Context, db *gorm.DB) ([]domain.DelinquencyPlaybook, error) {
	var playbooks []domain.DelinquencyPlaybook
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("org_id asc, created_at asc").
		Find(&playbooks).Error
	if err != nil {
		return nil, err
	}
	return playbooks, nil
}

func (r *repo) InsertAction(ctx context.Context, db *gorm.DB, action *domain.DelinquencyAction) error {
	return db.WithContext(ctx).Create(action).Error
}

func (r *repo) HasRecentAction(ctx context.Context, db *gorm.DB, paymentID, playbookID snowflake.ID, intervalDays int, actionType string, since time.Time) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.DelinquencyAction{}).
		Where("payment_id = ? AND playbook_id = ? AND interval_days = ? AND action_type = ? AND created_at >= ?",
			paymentID, playbookID, intervalDays, actionType, since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) ListActionsByPayment(ctx context.Context, db *gorm.DB, orgID, paymentID snowflake.ID, page pagination.Pagination) ([]*domain.DelinquencyAction, error) {
	var actions []*domain.DelinquencyAction
	stmt := db.WithContext(ctx).
		Model(&domain.DelinquencyAction{}).
		Where("org_id = ? AND payment_id = ?", orgID, paymentID)

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			createdAt, createdAt, cursor.ID,
		)
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}
