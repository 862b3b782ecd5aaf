package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/aggregate"
	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
	"github.com/robertobuso/legal-evidence-organizer/internal/writer"
)

const timelinePlaceholder = "Generating timeline... This may take a few minutes."

type TimelineService interface {
	GenerateTimeline(ctx context.Context, req *models.GenerateTimelineRequest) (*models.Accepted, error)
	GetTimeline(ctx context.Context, id int64) (*models.Timeline, error)
	ListTimelines(ctx context.Context) ([]models.Timeline, error)
	DeleteTimeline(ctx context.Context, id int64) error
}

type timelineService struct {
	repo         repository.TimelineStore
	aggregator   *aggregate.Aggregator
	orchestrator *analyzer.Orchestrator
	writer       *writer.Writer
	runner       TaskRunner
	logger       *utils.Logger
}

func NewTimelineService(repo repository.TimelineStore, aggregator *aggregate.Aggregator, orchestrator *analyzer.Orchestrator, w *writer.Writer, runner TaskRunner, logger *utils.Logger) TimelineService {
	return &timelineService{
		repo:         repo,
		aggregator:   aggregator,
		orchestrator: orchestrator,
		writer:       w,
		runner:       runner,
		logger:       logger,
	}
}

// degradedError describes why a model stage produced a fallback result.
func degradedError(transportErr, rawResponse string) error {
	if transportErr != "" {
		return fmt.Errorf("model call failed: %s", transportErr)
	}
	if rawResponse != "" {
		return errors.New("model reply could not be parsed as JSON")
	}
	return nil
}

func (s *timelineService) GenerateTimeline(ctx context.Context, req *models.GenerateTimelineRequest) (*models.Accepted, error) {
	if r := req.Range; r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
		return nil, utils.NewBadRequestError("end_date must not be before start_date")
	}

	title := req.Title
	if title == "" {
		title = analyzer.DefaultTimelineTitle
	}

	timeline := &models.Timeline{Title: title, Description: timelinePlaceholder, Status: models.ArtifactCreated}
	if err := s.repo.CreateTimeline(ctx, timeline); err != nil {
		s.logger.Error("Failed to create timeline", "error", err)
		return nil, utils.NewInternalError("Failed to create timeline")
	}

	id, r := timeline.ID, req.Range
	task, err := s.runner.Submit(ctx, models.TaskGenerateTimeline, int64Ptr(id), func(ctx context.Context) (any, error) {
		return s.populate(ctx, id, r)
	})
	if err != nil {
		s.logger.Error("Failed to schedule timeline generation", "error", err, "timeline_id", id)
		s.markFailed(ctx, id, "Error generating timeline: could not schedule work")
		return nil, utils.NewInternalError("Failed to schedule timeline generation")
	}

	s.logger.Info("Timeline generation started", "timeline_id", id, "task_id", task.ID)
	return &models.Accepted{
		ID:      int64Ptr(id),
		TaskID:  task.ID,
		Status:  statusProcessing,
		Message: "Timeline generation started",
	}, nil
}

func (s *timelineService) populate(ctx context.Context, id int64, r models.DateRange) (any, error) {
	defer func() {
		if p := recover(); p != nil {
			s.markFailed(ctx, id, fmt.Sprintf("Error generating timeline: %v", p))
			panic(p)
		}
	}()

	items, err := s.aggregator.Aggregate(ctx, r)
	if err != nil {
		s.markFailed(ctx, id, fmt.Sprintf("Error generating timeline: %v", err))
		return nil, err
	}

	result := s.orchestrator.GenerateTimeline(ctx, items)
	events, err := s.writer.WriteTimeline(ctx, id, result)
	if err != nil {
		s.markFailed(ctx, id, fmt.Sprintf("Error generating timeline: %v", err))
		return nil, err
	}
	if err := degradedError(result.Error, result.RawResponse); err != nil {
		return nil, err
	}

	return map[string]any{"timeline_id": id, "items": len(items), "events": len(events)}, nil
}

func (s *timelineService) markFailed(ctx context.Context, id int64, description string) {
	if err := s.repo.UpdateTimeline(ctx, id, description, models.ArtifactFailed); err != nil {
		s.logger.Error("Failed to mark timeline failed", "error", err, "timeline_id", id)
	}
}

func (s *timelineService) GetTimeline(ctx context.Context, id int64) (*models.Timeline, error) {
	t, err := s.repo.GetTimeline(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get timeline", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve timeline")
	}
	if t == nil {
		return nil, utils.NewNotFoundError("Timeline not found")
	}
	if t.Events == nil {
		t.Events = []models.TimelineEvent{}
	}
	return t, nil
}

func (s *timelineService) ListTimelines(ctx context.Context) ([]models.Timeline, error) {
	timelines, err := s.repo.ListTimelines(ctx)
	if err != nil {
		s.logger.Error("Failed to list timelines", "error", err)
		return nil, utils.NewInternalError("Failed to retrieve timelines")
	}
	return timelines, nil
}

func (s *timelineService) DeleteTimeline(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteTimeline(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete timeline", "error", err, "id", id)
		return utils.NewInternalError("Failed to delete timeline")
	}
	if !deleted {
		return utils.NewNotFoundError("Timeline not found")
	}
	s.logger.Info("Timeline deleted", "id", id)
	return nil
}
