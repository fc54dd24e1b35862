package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of an ingestion run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Terminal reports whether the status permits no further transitions.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// IngestionRun tracks one attempt to import one named file. FileName is
// unique across all runs regardless of status, which is what enforces
// at-most-once processing per file.
type IngestionRun struct {
	ID           uuid.UUID  `json:"id"`
	FileName     string     `json:"file_name"`
	Status       RunStatus  `json:"status"`
	ValidCount   *int64     `json:"valid_count,omitempty"`
	InvalidCount *int64     `json:"invalid_count,omitempty"`
	DurationMs   *int64     `json:"duration_ms,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

// NewIngestionRun creates a run in the RUNNING state.
func NewIngestionRun(fileName string) IngestionRun {
	return IngestionRun{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}
}
