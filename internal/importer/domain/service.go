package domain

import (
	"context"
	"errors"
	"io"

	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
)

type UploadRequest struct {
	FileName string
	DataType string
	Source   string
	File     io.Reader
}

type UploadResponse struct {
	Job           ImportJob           `json:"job"`
	Mapping       map[string]string   `json:"mapping"`
	MissingFields []string            `json:"missing_fields"`
	Headers       []string            `json:"headers"`
	Preview       []map[string]string `json:"preview"`
}

type UpdateMappingRequest struct {
	ID      string
	Mapping map[string]string
}

type ExecuteRequest struct {
	ID     string
	DryRun bool
}

type GetImportJobRequest struct {
	ID string
}

type ListImportJobsRequest struct {
	PageToken string
	PageSize  int32
	Status    string
	DataType  string
}

type ListImportJobsFilter struct {
	Status   string
	DataType string
}

type ListImportJobsResponse struct {
	pagination.PageInfo
	Jobs []ImportJob `json:"jobs"`
}

type RollbackRequest struct {
	ID string
}

type RollbackResponse struct {
	Job         ImportJob `json:"job"`
	RowsDeleted int64     `json:"rows_deleted"`
}

type Service interface {
	Upload(context.Context, UploadRequest) (UploadResponse, error)
	UpdateMapping(context.Context, UpdateMappingRequest) (ImportJob, error)
	Execute(context.Context, ExecuteRequest) (ImportJob, error)
	GetByID(context.Context, GetImportJobRequest) (ImportJob, error)
	List(context.Context, ListImportJobsRequest) (ListImportJobsResponse, error)
	Rollback(context.Context, RollbackRequest) (RollbackResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidDataType     = errors.New("invalid_data_type")
	ErrInvalidSource       = errors.New("invalid_source")
	ErrEmptyFile           = errors.New("empty_file")
	ErrFileTooLarge        = errors.New("file_too_large")
	ErrUnsupportedFormat   = errors.New("unsupported_format")
	ErrInvalidMapping      = errors.New("invalid_mapping")
	ErrJobNotEditable      = errors.New("job_not_editable")
	ErrJobNotExecutable    = errors.New("job_not_executable")
	ErrJobNotRollbackable  = errors.New("job_not_rollbackable")
)
