package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of an import job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusParsing    Status = "parsing"
	StatusValidating Status = "validating"
	StatusImporting  Status = "importing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRolledBack Status = "rolled_back"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusParsing, StatusFailed},
	StatusParsing:    {StatusValidating, StatusFailed},
	StatusValidating: {StatusImporting, StatusFailed},
	StatusImporting:  {StatusCompleted, StatusFailed},
	StatusCompleted:  {StatusRolledBack},
}

// CanTransition reports whether the lifecycle allows moving between the two
// states. Failed and rolled back are terminal.
func CanTransition(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RowError records one failed cell of an import file. Row numbers are
// one-based data row positions, excluding the header row.
type RowError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Error string `json:"error"`
}

type ImportJob struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID            snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	DataType         string            `gorm:"not null" json:"data_type"`
	Source           string            `gorm:"not null" json:"source"`
	FileName         string            `gorm:"not null" json:"file_name"`
	FilePath         string            `json:"-"`
	Status           Status            `gorm:"not null;default:pending;index" json:"status"`
	DryRun           bool              `gorm:"not null;default:false" json:"dry_run"`
	TotalRows        int               `gorm:"not null;default:0" json:"total_rows"`
	ProcessedRows    int               `gorm:"not null;default:0" json:"processed_rows"`
	SuccessfulRows   int               `gorm:"not null;default:0" json:"successful_rows"`
	FailedRows       int               `gorm:"not null;default:0" json:"failed_rows"`
	FieldMapping     datatypes.JSONMap `gorm:"type:jsonb" json:"field_mapping"`
	ValidationErrors datatypes.JSON    `gorm:"type:jsonb" json:"validation_errors,omitempty"`
	ImportBatchID    string            `gorm:"index" json:"import_batch_id,omitempty"`
	ErrorMessage     string            `json:"error_message,omitempty"`
	StartedAt        *time.Time        `json:"started_at,omitempty"`
	CompletedAt      *time.Time        `json:"completed_at,omitempty"`
	CreatedAt        time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null" json:"updated_at"`
}

// Mapping returns the stored field mapping as plain strings.
func (j *ImportJob) Mapping() map[string]string {
	mapping := make(map[string]string, len(j.FieldMapping))
	for field, header := range j.FieldMapping {
		if value, ok := header.(string); ok {
			mapping[field] = value
		}
	}
	return mapping
}
