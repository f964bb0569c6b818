package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, job *ImportJob) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*ImportJob, error)
	Update(ctx context.Context, db *gorm.DB, job *ImportJob) error
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListImportJobsFilter, page pagination.Pagination) ([]*ImportJob, error)

	// TransitionStatus moves the job from one status to another only if it is
	// still in the expected state, and reports whether the claim won.
	TransitionStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status) (bool, error)

	// FailStale marks jobs stuck mid-pipeline since before the cutoff as
	// failed and returns how many were recovered.
	FailStale(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
