package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/robertobuso/legal-evidence-organizer/internal/ingest"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type EmailService interface {
	FetchEmails(ctx context.Context, req *models.FetchEmailsRequest) (*models.Accepted, error)
	ListEmails(ctx context.Context, f models.EmailFilter) ([]models.Email, error)
	GetEmail(ctx context.Context, id int64) (*models.Email, error)
	CountEmails(ctx context.Context) (int, error)
}

type emailService struct {
	repo   repository.EmailStore
	mail   *ingest.MailIngestor
	runner TaskRunner
	logger *utils.Logger
}

func NewEmailService(repo repository.EmailStore, mail *ingest.MailIngestor, runner TaskRunner, logger *utils.Logger) EmailService {
	return &emailService{repo: repo, mail: mail, runner: runner, logger: logger}
}

func (s *emailService) FetchEmails(ctx context.Context, req *models.FetchEmailsRequest) (*models.Accepted, error) {
	addresses := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}
	if len(addresses) == 0 {
		return nil, utils.NewBadRequestError("No email addresses provided")
	}

	r := req.Range
	task, err := s.runner.Submit(ctx, models.TaskFetchEmails, nil, func(ctx context.Context) (any, error) {
		return s.mail.Ingest(ctx, addresses, r)
	})
	if err != nil {
		s.logger.Error("Failed to schedule email fetch", "error", err)
		return nil, utils.NewInternalError("Failed to schedule email fetch")
	}

	return &models.Accepted{
		TaskID:  task.ID,
		Status:  statusProcessing,
		Message: fmt.Sprintf("Fetching emails for %d addresses", len(addresses)),
	}, nil
}

func (s *emailService) ListEmails(ctx context.Context, f models.EmailFilter) ([]models.Email, error) {
	emails, err := s.repo.ListEmails(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list emails", "error", err)
		return nil, utils.NewInternalError("Failed to retrieve emails")
	}
	return emails, nil
}

func (s *emailService) GetEmail(ctx context.Context, id int64) (*models.Email, error) {
	email, err := s.repo.GetEmail(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get email", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve email")
	}
	if email == nil {
		return nil, utils.NewNotFoundError("Email not found")
	}
	return email, nil
}

func (s *emailService) CountEmails(ctx context.Context) (int, error) {
	n, err := s.repo.CountEmails(ctx)
	if err != nil {
		s.logger.Error("Failed to count emails", "error", err)
		return 0, utils.NewInternalError("Failed to count emails")
	}
	return n, nil
}
