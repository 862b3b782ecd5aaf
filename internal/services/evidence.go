package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/aggregate"
	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
	"github.com/robertobuso/legal-evidence-organizer/internal/writer"
)

type EvidenceService interface {
	AnalyzeEvidence(ctx context.Context) (*models.Accepted, error)
	ListEvidence(ctx context.Context) ([]models.Evidence, error)
	GetEvidence(ctx context.Context, id int64) (*models.Evidence, error)
	DeleteEvidence(ctx context.Context, id int64) error
	ResolveSource(ctx context.Context, sourceType string, id int64) (*models.SourceRecord, error)
}

type evidenceService struct {
	repo         repository.Repository
	aggregator   *aggregate.Aggregator
	orchestrator *analyzer.Orchestrator
	writer       *writer.Writer
	runner       TaskRunner
	logger       *utils.Logger
}

func NewEvidenceService(repo repository.Repository, aggregator *aggregate.Aggregator, orchestrator *analyzer.Orchestrator, w *writer.Writer, runner TaskRunner, logger *utils.Logger) EvidenceService {
	return &evidenceService{
		repo:         repo,
		aggregator:   aggregator,
		orchestrator: orchestrator,
		writer:       w,
		runner:       runner,
		logger:       logger,
	}
}

// evidenceOutcome is stored as the analysis task's result.
type evidenceOutcome struct {
	Summary      string            `json:"summary"`
	EvidenceIDs  []int64           `json:"evidence_ids"`
	KeyIssues    []json.RawMessage `json:"key_issues"`
	EvidenceGaps []json.RawMessage `json:"evidence_gaps"`
}

func (s *evidenceService) AnalyzeEvidence(ctx context.Context) (*models.Accepted, error) {
	task, err := s.runner.Submit(ctx, models.TaskAnalyzeEvidence, nil, s.analyze)
	if err != nil {
		s.logger.Error("Failed to schedule evidence analysis", "error", err)
		return nil, utils.NewInternalError("Failed to schedule evidence analysis")
	}

	return &models.Accepted{
		TaskID:  task.ID,
		Status:  statusProcessing,
		Message: "Evidence analysis started",
	}, nil
}

func (s *evidenceService) analyze(ctx context.Context) (any, error) {
	corpus, err := s.aggregator.Corpus(ctx)
	if err != nil {
		return nil, err
	}

	result := s.orchestrator.AnalyzeEvidence(ctx, corpus)
	items, err := s.writer.WriteEvidence(ctx, result)
	if err != nil {
		return nil, err
	}
	if err := degradedError(result.Error, result.RawResponse); err != nil {
		return nil, err
	}

	out := evidenceOutcome{
		Summary:      result.Summary,
		EvidenceIDs:  make([]int64, len(items)),
		KeyIssues:    result.KeyIssues,
		EvidenceGaps: result.EvidenceGaps,
	}
	for i, ev := range items {
		out.EvidenceIDs[i] = ev.ID
	}
	return out, nil
}

func (s *evidenceService) ListEvidence(ctx context.Context) ([]models.Evidence, error) {
	items, err := s.repo.ListEvidence(ctx)
	if err != nil {
		s.logger.Error("Failed to list evidence", "error", err)
		return nil, utils.NewInternalError("Failed to retrieve evidence")
	}
	return items, nil
}

func (s *evidenceService) GetEvidence(ctx context.Context, id int64) (*models.Evidence, error) {
	ev, err := s.repo.GetEvidence(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get evidence", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve evidence")
	}
	if ev == nil {
		return nil, utils.NewNotFoundError("Evidence not found")
	}
	return ev, nil
}

func (s *evidenceService) DeleteEvidence(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteEvidence(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete evidence", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete evidence")
	}
	if !deleted {
		return utils.NewNotFoundError("Evidence not found")
	}
	return nil
}

// ResolveSource follows a weak source reference. The row may be gone, in
// which case the reference is reported as not found.
func (s *evidenceService) ResolveSource(ctx context.Context, sourceType string, id int64) (*models.SourceRecord, error) {
	kind, ok := models.ParseSourceType(sourceType)
	if !ok {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Invalid source type '%s'. Use email, chat or pdf", sourceType))
	}

	var (
		data  any
		found bool
		err   error
	)
	switch kind {
	case models.SourceEmail:
		var e *models.Email
		e, err = s.repo.GetEmail(ctx, id)
		data, found = e, e != nil
	case models.SourceChat:
		var m *models.ChatMessage
		m, err = s.repo.GetChatMessage(ctx, id)
		data, found = m, m != nil
	case models.SourcePDF:
		var d *models.PDFDocument
		d, err = s.repo.GetPDF(ctx, id)
		data, found = d, d != nil
	}
	if err != nil {
		s.logger.Error("Failed to resolve source", "error", err, "source_type", kind, "source_id", id)
		return nil, utils.NewInternalError("Failed to retrieve source")
	}
	if !found {
		return nil, utils.NewNotFoundError(fmt.Sprintf("Source %s not found", models.SourceRef{Type: kind, ID: id}))
	}

	return &models.SourceRecord{SourceType: kind, SourceID: id, Data: data}, nil
}
