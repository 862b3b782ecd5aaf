package services

import (
	"context"
	"path"
	"sort"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const (
	searchSnippetLength = 200
	DefaultSearchLimit  = 50
)

type SourceService interface {
	ListChats(ctx context.Context, f models.ChatFilter) ([]models.ChatMessage, error)
	ListPDFs(ctx context.Context, f models.PDFFilter) ([]models.PDFDocument, error)
	Search(ctx context.Context, req *models.SearchRequest) ([]models.SearchResult, error)
}

type sourceService struct {
	repo   repository.Repository
	logger *utils.Logger
}

func NewSourceService(repo repository.Repository, logger *utils.Logger) SourceService {
	return &sourceService{repo: repo, logger: logger}
}

func (s *sourceService) ListChats(ctx context.Context, f models.ChatFilter) ([]models.ChatMessage, error) {
	msgs, err := s.repo.ListChatMessages(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list chat messages", "error", err)
		return nil, utils.NewInternalError("Failed to retrieve chat logs")
	}
	return msgs, nil
}

func (s *sourceService) ListPDFs(ctx context.Context, f models.PDFFilter) ([]models.PDFDocument, error) {
	docs, err := s.repo.ListPDFs(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list pdfs", "error", err)
		return nil, utils.NewInternalError("Failed to retrieve PDFs")
	}
	return docs, nil
}

// Search matches query against every selected source. Results are ordered
// newest first with undated hits last, then paged.
func (s *sourceService) Search(ctx context.Context, req *models.SearchRequest) ([]models.SearchResult, error) {
	if req.Query == "" {
		return nil, utils.NewBadRequestError("Search query is required")
	}
	want := func(t models.SourceType) bool {
		return req.SourceType == "" || req.SourceType == t
	}

	results := []models.SearchResult{}

	if want(models.SourceEmail) {
		emails, err := s.repo.ListEmails(ctx, models.EmailFilter{Text: req.Query, Person: req.Person, Range: req.Range})
		if err != nil {
			s.logger.Error("Failed to search emails", "error", err)
			return nil, utils.NewInternalError("Failed to search emails")
		}
		for _, e := range emails {
			title := e.Subject
			if title == "" {
				title = "(No Subject)"
			}
			results = append(results, models.SearchResult{
				ID:      e.ID,
				Type:    models.SourceEmail,
				Date:    e.Date,
				Title:   title,
				Snippet: utils.Truncate(e.Body, searchSnippetLength),
				Source:  "From: " + e.Sender,
			})
		}
	}

	if want(models.SourceChat) {
		msgs, err := s.repo.ListChatMessages(ctx, models.ChatFilter{Content: req.Query, Sender: req.Person, Range: req.Range})
		if err != nil {
			s.logger.Error("Failed to search chat messages", "error", err)
			return nil, utils.NewInternalError("Failed to search chat logs")
		}
		for _, m := range msgs {
			date := m.DateTime
			results = append(results, models.SearchResult{
				ID:      m.ID,
				Type:    models.SourceChat,
				Date:    &date,
				Title:   "Chat message from " + m.Sender,
				Snippet: utils.Truncate(m.Message, searchSnippetLength),
				Source:  "WhatsApp: " + path.Base(m.FilePath),
			})
		}
	}

	// PDFs carry no date, so the range does not apply to them.
	if want(models.SourcePDF) {
		docs, err := s.repo.ListPDFs(ctx, models.PDFFilter{Text: req.Query, Content: req.Person})
		if err != nil {
			s.logger.Error("Failed to search pdfs", "error", err)
			return nil, utils.NewInternalError("Failed to search PDFs")
		}
		for _, d := range docs {
			title := d.FileName
			if title == "" {
				title = "Unnamed PDF"
			}
			results = append(results, models.SearchResult{
				ID:      d.ID,
				Type:    models.SourcePDF,
				Title:   title,
				Snippet: utils.Truncate(d.ExtractedText, searchSnippetLength),
				Source:  "PDF: " + d.FileName,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		switch {
		case a.Date != nil && b.Date != nil && !a.Date.Equal(*b.Date):
			return a.Date.After(*b.Date)
		case (a.Date == nil) != (b.Date == nil):
			return a.Date != nil
		}
		return a.ID > b.ID
	})

	return page(results, req.Skip, req.Limit), nil
}

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
