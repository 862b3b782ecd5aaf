package services

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/robertobuso/legal-evidence-organizer/internal/extractor"
	"github.com/robertobuso/legal-evidence-organizer/internal/ingest"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/storage"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const (
	chatDir = "chats"
	pdfDir  = "pdfs"
)

type UploadService interface {
	UploadChat(ctx context.Context, req *models.UploadRequest) (*models.Accepted, error)
	UploadPDF(ctx context.Context, req *models.UploadRequest) (*models.Accepted, error)
	UploadStatus(ctx context.Context, filename string) (*models.UploadStatus, error)
}

type uploadService struct {
	repo    repository.Repository
	storage storage.Storage
	chats   *ingest.ChatIngestor
	pdfs    *ingest.PDFIngestor
	runner  TaskRunner
	logger  *utils.Logger
}

func NewUploadService(repo repository.Repository, store storage.Storage, chats *ingest.ChatIngestor, pdfs *ingest.PDFIngestor, runner TaskRunner, logger *utils.Logger) UploadService {
	return &uploadService{
		repo:    repo,
		storage: store,
		chats:   chats,
		pdfs:    pdfs,
		runner:  runner,
		logger:  logger,
	}
}

func hasExt(filename, ext string) bool {
	return strings.EqualFold(filepath.Ext(filename), ext)
}

func (s *uploadService) UploadChat(ctx context.Context, req *models.UploadRequest) (*models.Accepted, error) {
	if !hasExt(req.Filename, ".txt") {
		return nil, utils.NewBadRequestError("Only .txt files are allowed for chat logs")
	}
	if len(req.File) == 0 {
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}
	if err := extractor.ValidateText(req.File); err != nil {
		s.logger.Warn("Rejected chat upload", "filename", req.Filename, "error", err)
		return nil, utils.NewBadRequestError(fmt.Sprintf("Invalid chat file: %v", err))
	}

	key, err := s.store(ctx, chatDir, req, "text/plain")
	if err != nil {
		return nil, err
	}

	task, err := s.runner.Submit(ctx, models.TaskIngestChat, nil, func(ctx context.Context) (any, error) {
		data, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		return s.chats.Ingest(ctx, data, key)
	})
	if err != nil {
		s.logger.Error("Failed to schedule chat ingestion", "error", err, "key", key)
		s.discard(ctx, key)
		return nil, utils.NewInternalError("Failed to schedule processing")
	}

	return &models.Accepted{
		Filename: path.Base(key),
		TaskID:   task.ID,
		Status:   statusProcessing,
		Message:  "Chat log uploaded and processing started",
	}, nil
}

func (s *uploadService) UploadPDF(ctx context.Context, req *models.UploadRequest) (*models.Accepted, error) {
	if !hasExt(req.Filename, ".pdf") {
		return nil, utils.NewBadRequestError("Only .pdf files are allowed for invoices")
	}
	if len(req.File) == 0 {
		return nil, utils.NewBadRequestError("Uploaded file is empty")
	}

	key, err := s.store(ctx, pdfDir, req, "application/pdf")
	if err != nil {
		return nil, err
	}

	task, err := s.runner.Submit(ctx, models.TaskIngestPDF, nil, func(ctx context.Context) (any, error) {
		data, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		doc, err := s.pdfs.Ingest(ctx, data, key)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("no text could be extracted from %s", path.Base(key))
		}
		return map[string]any{"id": doc.ID, "file_name": doc.FileName}, nil
	})
	if err != nil {
		s.logger.Error("Failed to schedule pdf ingestion", "error", err, "key", key)
		s.discard(ctx, key)
		return nil, utils.NewInternalError("Failed to schedule processing")
	}

	return &models.Accepted{
		Filename: path.Base(key),
		TaskID:   task.ID,
		Status:   statusProcessing,
		Message:  "PDF uploaded and processing started",
	}, nil
}

func (s *uploadService) store(ctx context.Context, dir string, req *models.UploadRequest, contentType string) (string, error) {
	key := storage.UploadKey(dir, req.Filename)
	if err := s.storage.Save(ctx, key, req.File, contentType); err != nil {
		s.logger.Error("Failed to store upload", "error", err, "key", key)
		return "", utils.NewInternalError("Failed to store file")
	}

	s.logger.Info("File uploaded", "filename", req.Filename, "key", key, "size", len(req.File))
	return key, nil
}

// load reads an upload back from storage for ingestion.
func (s *uploadService) load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read stored upload %s: %w", key, err)
	}
	return data, nil
}

// discard removes an upload that will never be ingested.
func (s *uploadService) discard(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to remove unprocessed upload", "error", err, "key", key)
	}
}

// UploadStatus reports completed once rows exist for the stored file.
func (s *uploadService) UploadStatus(ctx context.Context, filename string) (*models.UploadStatus, error) {
	name := path.Base(filename)

	count, err := s.repo.CountChatMessagesByPath(ctx, path.Join(chatDir, name))
	if err != nil {
		s.logger.Error("Failed to count chat messages", "error", err, "filename", name)
		return nil, utils.NewInternalError("Failed to check upload status")
	}
	if count > 0 {
		return &models.UploadStatus{
			Filename: name,
			Status:   "completed",
			Message:  fmt.Sprintf("Chat log processed with %d messages", count),
			Count:    count,
		}, nil
	}

	doc, err := s.repo.GetPDFByPath(ctx, path.Join(pdfDir, name))
	if err != nil {
		s.logger.Error("Failed to look up pdf", "error", err, "filename", name)
		return nil, utils.NewInternalError("Failed to check upload status")
	}
	if doc != nil {
		return &models.UploadStatus{
			Filename: name,
			Status:   "completed",
			Message:  "PDF processed successfully",
			Count:    1,
		}, nil
	}

	return &models.UploadStatus{
		Filename: name,
		Status:   statusProcessing,
		Message:  "File is still being processed or not found",
	}, nil
}
