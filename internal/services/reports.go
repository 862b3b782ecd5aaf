package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
	"github.com/robertobuso/legal-evidence-organizer/internal/writer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	reportPlaceholder  = "Generating report... This may take a few minutes."
	defaultReportTitle = "Legal Report: Contract Dispute Analysis"
)

type ReportService interface {
	GenerateReport(ctx context.Context, req *models.GenerateReportRequest) (*models.Accepted, error)
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	GetReportHTML(ctx context.Context, id int64) (string, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	DeleteReport(ctx context.Context, id int64) error
}

type reportService struct {
	repo         repository.Repository
	orchestrator *analyzer.Orchestrator
	writer       *writer.Writer
	runner       TaskRunner
	markdown     goldmark.Markdown
	logger       *utils.Logger
}

func NewReportService(repo repository.Repository, orchestrator *analyzer.Orchestrator, w *writer.Writer, runner TaskRunner, logger *utils.Logger) ReportService {
	return &reportService{
		repo:         repo,
		orchestrator: orchestrator,
		writer:       w,
		runner:       runner,
		markdown:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:       logger,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, req *models.GenerateReportRequest) (*models.Accepted, error) {
	timeline, err := s.repo.GetTimeline(ctx, req.TimelineID)
	if err != nil {
		s.logger.Error("Failed to get timeline", "error", err, "timeline_id", req.TimelineID)
		return nil, utils.NewInternalError("Failed to retrieve timeline")
	}
	if timeline == nil {
		return nil, utils.NewNotFoundError("Timeline not found")
	}

	title := req.Title
	if title == "" {
		title = defaultReportTitle
	}

	report := &models.Report{
		Title:      title,
		Content:    reportPlaceholder,
		Status:     models.ArtifactCreated,
		TimelineID: int64Ptr(timeline.ID),
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		s.logger.Error("Failed to create report", "error", err)
		return nil, utils.NewInternalError("Failed to create report")
	}

	id := report.ID
	task, err := s.runner.Submit(ctx, models.TaskGenerateReport, int64Ptr(id), func(ctx context.Context) (any, error) {
		return s.populate(ctx, id, timeline)
	})
	if err != nil {
		s.logger.Error("Failed to schedule report generation", "error", err, "report_id", id)
		s.markFailed(ctx, id, "Error generating report: could not schedule work")
		return nil, utils.NewInternalError("Failed to schedule report generation")
	}

	s.logger.Info("Report generation started", "report_id", id, "timeline_id", timeline.ID, "task_id", task.ID)
	return &models.Accepted{
		ID:      int64Ptr(id),
		TaskID:  task.ID,
		Status:  statusProcessing,
		Message: "Report generation started",
	}, nil
}

func (s *reportService) populate(ctx context.Context, id int64, timeline *models.Timeline) (any, error) {
	defer func() {
		if p := recover(); p != nil {
			s.markFailed(ctx, id, fmt.Sprintf("Error generating report: %v", p))
			panic(p)
		}
	}()

	evidence, err := s.repo.ListEvidence(ctx)
	if err != nil {
		s.markFailed(ctx, id, fmt.Sprintf("Error generating report: %v", err))
		return nil, err
	}

	result := s.orchestrator.GenerateReport(ctx, timeline, evidence)
	content, err := s.writer.WriteReport(ctx, id, result)
	if err != nil {
		s.markFailed(ctx, id, fmt.Sprintf("Error generating report: %v", err))
		return nil, err
	}
	if err := degradedError(result.Error, result.RawResponse); err != nil {
		return nil, err
	}

	return map[string]any{"report_id": id, "evidence": len(evidence), "length": len(content)}, nil
}

func (s *reportService) markFailed(ctx context.Context, id int64, content string) {
	if err := s.repo.UpdateReport(ctx, id, content, models.ArtifactFailed); err != nil {
		s.logger.Error("Failed to mark report failed", "error", err, "report_id", id)
	}
}

func (s *reportService) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get report", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve report")
	}
	if report == nil {
		return nil, utils.NewNotFoundError("Report not found")
	}
	return report, nil
}

// GetReportHTML renders the stored markdown content to HTML.
func (s *reportService) GetReportHTML(ctx context.Context, id int64) (string, error) {
	report, err := s.GetReport(ctx, id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(report.Content), &buf); err != nil {
		s.logger.Error("Failed to render report", "error", err, "id", id)
		return "", utils.NewInternalError("Failed to render report")
	}
	return buf.String(), nil
}

func (s *reportService) ListReports(ctx context.Context) ([]models.Report, error) {
	reports, err := s.repo.ListReports(ctx)
	if err != nil {
		s.logger.Error("Failed to list reports", "error", err)
		return nil, utils.NewInternalError("Failed to retrieve reports")
	}
	return reports, nil
}

func (s *reportService) DeleteReport(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteReport(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete report", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete report")
	}
	if !deleted {
		return utils.NewNotFoundError("Report not found")
	}
	return nil
}
