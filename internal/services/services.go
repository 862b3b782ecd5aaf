// Package services holds the use-cases behind the HTTP handlers. Methods
// return *utils.AppError for anything a client can act on.
package services

import (
	"context"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/tasks"
)

const statusProcessing = "processing"

// TaskRunner schedules background work. *tasks.Runner is the production
// implementation.
type TaskRunner interface {
	Submit(ctx context.Context, kind string, targetID *int64, fn tasks.Func) (*models.Task, error)
}

func int64Ptr(v int64) *int64 {
	return &v
}

// Services groups every use-case the HTTP surface exposes.
type Services struct {
	Uploads   UploadService
	Emails    EmailService
	Sources   SourceService
	Timelines TimelineService
	Evidence  EvidenceService
	Reports   ReportService
	Tasks     TaskService
}
