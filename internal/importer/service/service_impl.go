package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/rentfolio/internal/clock"
	"github.com/smallbiznis/rentfolio/internal/config"
	"github.com/smallbiznis/rentfolio/internal/fieldmap"
	"github.com/smallbiznis/rentfolio/internal/importer/domain"
	"github.com/smallbiznis/rentfolio/internal/observability/metrics"
	"github.com/smallbiznis/rentfolio/internal/orgcontext"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	previewRows       = 10
	counterFlushEvery = 100
)

// errDryRunRollback unwinds the dry run transaction after the row loop has
// collected its results.
var errDryRunRollback = errors.New("dry_run_rollback")

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Config    config.Config
	Repo      domain.Repository
	Portfolio portfoliodomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	cfg       config.Config
	repo      domain.Repository
	portfolio portfoliodomain.Repository
	metrics   *metrics.ImportMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("importer.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		cfg:       p.Config,
		repo:      p.Repo,
		portfolio: p.Portfolio,
		metrics:   metrics.Import(),
	}
}

func (s *Service) Upload(ctx context.Context, req domain.UploadRequest) (domain.UploadResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.UploadResponse{}, domain.ErrInvalidOrganization
	}

	dataType, ok := fieldmap.ValidDataType(req.DataType)
	if !ok {
		return domain.UploadResponse{}, domain.ErrInvalidDataType
	}
	source, ok := fieldmap.ValidSource(req.Source)
	if !ok {
		return domain.UploadResponse{}, domain.ErrInvalidSource
	}
	fileName := strings.TrimSpace(req.FileName)
	if _, err := detectFormat(fileName); err != nil {
		return domain.UploadResponse{}, err
	}

	path, err := saveUpload(req.File, fileName, s.cfg.ImportMaxUploadBytes)
	if err != nil {
		return domain.UploadResponse{}, err
	}

	headers, rows, err := parseFile(path, fileName)
	if err != nil {
		return domain.UploadResponse{}, err
	}
	if len(rows) == 0 {
		return domain.UploadResponse{}, domain.ErrEmptyFile
	}

	mapping := fieldmap.AutoDetect(headers, dataType, source)
	validation := fieldmap.Validate(mapping, dataType)

	now := s.clock.Now()
	job := domain.ImportJob{
		ID:           s.genID.Generate(),
		OrgID:        orgID,
		DataType:     string(dataType),
		Source:       string(source),
		FileName:     fileName,
		FilePath:     path,
		Status:       domain.StatusPending,
		TotalRows:    len(rows),
		FieldMapping: mappingToJSON(mapping),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &job); err != nil {
		return domain.UploadResponse{}, err
	}

	s.log.Info("import file uploaded",
		zap.String("job_id", job.ID.String()),
		zap.String("data_type", job.DataType),
		zap.String("source", job.Source),
		zap.Int("total_rows", job.TotalRows),
		zap.Int("mapped_fields", len(mapping)),
	)

	return domain.UploadResponse{
		Job:           job,
		Mapping:       mapping,
		MissingFields: validation.MissingFields,
		Headers:       headers,
		Preview:       buildPreview(headers, rows),
	}, nil
}

func (s *Service) UpdateMapping(ctx context.Context, req domain.UpdateMappingRequest) (domain.ImportJob, error) {
	job, err := s.loadJob(ctx, req.ID)
	if err != nil {
		return domain.ImportJob{}, err
	}
	if job.Status != domain.StatusPending {
		return domain.ImportJob{}, domain.ErrJobNotEditable
	}

	dataType := fieldmap.DataType(job.DataType)
	known := make(map[string]bool)
	for _, def := range fieldmap.Fields(dataType) {
		known[def.Name] = true
	}
	headers, _, err := parseFile(job.FilePath, job.FileName)
	if err != nil {
		return domain.ImportJob{}, err
	}
	present := make(map[string]bool, len(headers))
	for _, header := range headers {
		present[header] = true
	}
	for field, header := range req.Mapping {
		if !known[field] || !present[header] {
			return domain.ImportJob{}, domain.ErrInvalidMapping
		}
	}

	job.FieldMapping = mappingToJSON(req.Mapping)
	if err := s.repo.Update(ctx, s.db, job); err != nil {
		return domain.ImportJob{}, err
	}
	return *job, nil
}

func (s *Service) Execute(ctx context.Context, req domain.ExecuteRequest) (domain.ImportJob, error) {
	job, err := s.loadJob(ctx, req.ID)
	if err != nil {
		return domain.ImportJob{}, err
	}

	claimed, err := s.repo.TransitionStatus(ctx, s.db, job.ID, domain.StatusPending, domain.StatusParsing)
	if err != nil {
		return domain.ImportJob{}, err
	}
	if !claimed {
		return domain.ImportJob{}, domain.ErrJobNotExecutable
	}

	started := s.clock.Now()
	job.Status = domain.StatusParsing
	job.DryRun = req.DryRun
	job.StartedAt = &started
	// A job re-executed after a dry run starts its counters over.
	job.ProcessedRows = 0
	job.SuccessfulRows = 0
	job.FailedRows = 0
	job.ValidationErrors = nil
	job.ErrorMessage = ""
	defer func() {
		s.metrics.ObserveExecute(job.DataType, job.DryRun, time.Since(started))
		s.metrics.IncJob(job.DataType, string(job.Status))
	}()

	headers, rows, err := parseFile(job.FilePath, job.FileName)
	if err != nil {
		return s.markFailed(ctx, job, "parse failed: "+err.Error())
	}
	job.TotalRows = len(rows)

	job.Status = domain.StatusValidating
	mapping := job.Mapping()
	validation := fieldmap.Validate(mapping, fieldmap.DataType(job.DataType))
	if !validation.Valid {
		return s.markFailed(ctx, job, "unmapped required fields: "+strings.Join(validation.MissingFields, ", "))
	}

	// A dry run stops at validating; its rows are written inside a
	// transaction that always rolls back.
	if !req.DryRun {
		job.Status = domain.StatusImporting
		job.ImportBatchID = uuid.NewString()
		if err := s.repo.Update(ctx, s.db, job); err != nil {
			return domain.ImportJob{}, err
		}
	}

	var rowErrors []domain.RowError
	run := func(tx *gorm.DB) error {
		errs, err := s.runRows(ctx, tx, job, mapping, headers, rows)
		rowErrors = errs
		return err
	}

	if req.DryRun {
		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := run(tx); err != nil {
				return err
			}
			return errDryRunRollback
		})
		if errors.Is(err, errDryRunRollback) {
			err = nil
		}
	} else {
		err = run(s.db)
	}
	if err != nil {
		return s.markFailed(ctx, job, err.Error())
	}

	if encoded, err := json.Marshal(rowErrors); err == nil {
		job.ValidationErrors = datatypes.JSON(encoded)
	}
	if req.DryRun {
		// The counts stay visible on the job, but it returns to pending so
		// a real execute can follow.
		job.Status = domain.StatusPending
		job.StartedAt = nil
	} else {
		job.Status = domain.StatusCompleted
		completed := s.clock.Now()
		job.CompletedAt = &completed
	}
	if err := s.repo.Update(ctx, s.db, job); err != nil {
		return domain.ImportJob{}, err
	}

	s.metrics.AddRows(job.DataType, "success", job.SuccessfulRows)
	s.metrics.AddRows(job.DataType, "failed", job.FailedRows)
	s.log.Info("import finished",
		zap.String("job_id", job.ID.String()),
		zap.String("data_type", job.DataType),
		zap.Bool("dry_run", job.DryRun),
		zap.Int("total_rows", job.TotalRows),
		zap.Int("successful_rows", job.SuccessfulRows),
		zap.Int("failed_rows", job.FailedRows),
	)
	return *job, nil
}

// runRows walks the data rows, normalizing and writing each one. Row-level
// problems are collected; only infrastructure errors abort the run.
func (s *Service) runRows(ctx context.Context, tx *gorm.DB, job *domain.ImportJob, mapping map[string]string, headers []string, rows [][]string) ([]domain.RowError, error) {
	dataType := fieldmap.DataType(job.DataType)
	now := s.clock.Now()
	rowErrors := make([]domain.RowError, 0)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return rowErrors, err
		}
		rowNum := i + 1

		record, errs := buildRecord(dataType, mapping, headers, row, rowNum)
		if len(errs) == 0 {
			rejection, err := s.writeRow(ctx, tx, job.OrgID, job.ImportBatchID, dataType, record, rowNum, now)
			if err != nil {
				return rowErrors, err
			}
			if rejection != nil {
				errs = append(errs, *rejection)
			}
		}

		job.ProcessedRows++
		if len(errs) == 0 {
			job.SuccessfulRows++
		} else {
			job.FailedRows++
			rowErrors = append(rowErrors, errs...)
		}

		if !job.DryRun && job.ProcessedRows%counterFlushEvery == 0 {
			if err := s.repo.Update(ctx, tx, job); err != nil {
				return rowErrors, err
			}
		}
	}
	return rowErrors, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetImportJobRequest) (domain.ImportJob, error) {
	job, err := s.loadJob(ctx, req.ID)
	if err != nil {
		return domain.ImportJob{}, err
	}
	return *job, nil
}

func (s *Service) List(ctx context.Context, req domain.ListImportJobsRequest) (domain.ListImportJobsResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListImportJobsResponse{}, domain.ErrInvalidOrganization
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	filter := domain.ListImportJobsFilter{
		Status:   strings.TrimSpace(req.Status),
		DataType: strings.TrimSpace(req.DataType),
	}
	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListImportJobsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(job *domain.ImportJob) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        job.ID.String(),
			CreatedAt: job.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	jobs := make([]domain.ImportJob, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		jobs = append(jobs, *item)
	}

	resp := domain.ListImportJobsResponse{Jobs: jobs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Rollback(ctx context.Context, req domain.RollbackRequest) (domain.RollbackResponse, error) {
	job, err := s.loadJob(ctx, req.ID)
	if err != nil {
		return domain.RollbackResponse{}, err
	}
	if job.Status != domain.StatusCompleted || job.DryRun || job.ImportBatchID == "" {
		return domain.RollbackResponse{}, domain.ErrJobNotRollbackable
	}

	claimed, err := s.repo.TransitionStatus(ctx, s.db, job.ID, domain.StatusCompleted, domain.StatusRolledBack)
	if err != nil {
		return domain.RollbackResponse{}, err
	}
	if !claimed {
		return domain.RollbackResponse{}, domain.ErrJobNotRollbackable
	}

	deleted, err := s.portfolio.DeleteImportBatch(ctx, s.db, job.OrgID, job.ImportBatchID)
	if err != nil {
		return domain.RollbackResponse{}, err
	}
	job.Status = domain.StatusRolledBack

	s.log.Info("import rolled back",
		zap.String("job_id", job.ID.String()),
		zap.String("batch_id", job.ImportBatchID),
		zap.Int64("rows_deleted", deleted),
	)
	return domain.RollbackResponse{Job: *job, RowsDeleted: deleted}, nil
}

func (s *Service) markFailed(ctx context.Context, job *domain.ImportJob, reason string) (domain.ImportJob, error) {
	job.Status = domain.StatusFailed
	job.ErrorMessage = reason
	completed := s.clock.Now()
	job.CompletedAt = &completed
	if err := s.repo.Update(ctx, s.db, job); err != nil {
		return domain.ImportJob{}, err
	}
	s.log.Warn("import failed",
		zap.String("job_id", job.ID.String()),
		zap.String("reason", reason),
	)
	return *job, nil
}

func (s *Service) loadJob(ctx context.Context, rawID string) (*domain.ImportJob, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	job, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

func mappingToJSON(mapping map[string]string) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(mapping))
	for field, header := range mapping {
		out[field] = header
	}
	return out
}

func buildPreview(headers []string, rows [][]string) []map[string]string {
	count := len(rows)
	if count > previewRows {
		count = previewRows
	}
	preview := make([]map[string]string, 0, count)
	for _, row := range rows[:count] {
		cells := make(map[string]string, len(headers))
		for i, header := range headers {
			if strings.TrimSpace(header) == "" {
				continue
			}
			if i < len(row) {
				cells[header] = row[i]
			} else {
				cells[header] = ""
			}
		}
		preview = append(preview, cells)
	}
	return preview
}
