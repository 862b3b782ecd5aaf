package models

import (
	"encoding/json"
	"time"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

const (
	TaskIngestChat       = "ingest.chat"
	TaskIngestPDF        = "ingest.pdf"
	TaskFetchEmails      = "ingest.emails"
	TaskGenerateTimeline = "timeline.generate"
	TaskAnalyzeEvidence  = "evidence.analyze"
	TaskGenerateReport   = "report.generate"
)

// Task tracks one unit of background work.
type Task struct {
	ID         string          `json:"id" db:"id"`
	Kind       string          `json:"kind" db:"kind"`
	Status     TaskStatus      `json:"status" db:"status"`
	TargetID   *int64          `json:"target_id,omitempty" db:"target_id"`
	Error      string          `json:"error,omitempty" db:"error"`
	Result     json.RawMessage `json:"result,omitempty" db:"result"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty" db:"finished_at"`
}
