package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/importer/domain"
	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, job *domain.ImportJob) error {
	return db.WithContext(ctx).Create(job).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.ImportJob, error) {
	var job domain.ImportJob
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, job *domain.ImportJob) error {
	job.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Save(job).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListImportJobsFilter, page pagination.Pagination) ([]*domain.ImportJob, error) {
	var jobs []*domain.ImportJob
	stmt := db.WithContext(ctx).
		Model(&domain.ImportJob{}).
		Where("org_id = ?", orgID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.DataType != "" {
		stmt = stmt.Where("data_type = ?", filter.DataType)
	}

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
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) TransitionStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status) (bool, error) {
	if !domain.CanTransition(from, to) {
		return false, nil
	}
	result := db.WithContext(ctx).
		Model(&domain.ImportJob{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) FailStale(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.ImportJob{}).
		Where("status IN ? AND updated_at < ?",
			[]domain.Status{domain.StatusParsing, domain.StatusValidating, domain.StatusImporting},
			cutoff,
		).
		Updates(map[string]any{
			"status":        domain.StatusFailed,
			"error_message": "stalled",
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
