package services

import (
	"context"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type TaskService interface {
	GetTask(ctx context.Context, id string) (*models.Task, error)
}

type taskService struct {
	repo   repository.TaskStore
	logger *utils.Logger
}

func NewTaskService(repo repository.TaskStore, logger *utils.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

func (s *taskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get task", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve task")
	}
	if task == nil {
		return nil, utils.NewNotFoundError("Task not found")
	}
	return task, nil
}
