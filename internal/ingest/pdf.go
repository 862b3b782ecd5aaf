package ingest

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/robertobuso/legal-evidence-organizer/internal/extractor"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type PDFIngestor struct {
	store  repository.PDFStore
	logger *utils.Logger
}

func NewPDFIngestor(store repository.PDFStore, logger *utils.Logger) *PDFIngestor {
	return &PDFIngestor{store: store, logger: logger}
}

var errNoPDFText = errors.New("no text could be extracted from PDF")

// joinPages concatenates readable pages separated by a blank line and
// returns the numbers of the pages it had to skip.
func joinPages(pages []extractor.PDFPage) (string, []int) {
	var (
		b       strings.Builder
		skipped []int
	)
	for _, p := range pages {
		if p.Err != nil {
			skipped = append(skipped, p.Number)
			continue
		}
		b.WriteString(p.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()), skipped
}

// Extract returns the document for data, or nil when no text can be read.
func (i *PDFIngestor) Extract(data []byte, filePath string) *models.PDFDocument {
	pages, err := extractor.ReadPDFPages(data)
	if err != nil {
		i.logger.Error("failed to process pdf", "file_path", filePath, "error", err)
		return nil
	}

	text, skipped := joinPages(pages)
	if len(skipped) > 0 {
		i.logger.Warn("skipped unreadable pdf pages", "file_path", filePath, "pages", skipped)
	}
	if text == "" {
		i.logger.Error("failed to process pdf", "file_path", filePath, "error", errNoPDFText)
		return nil
	}

	return &models.PDFDocument{
		FileName:      path.Base(filePath),
		ExtractedText: text,
		FilePath:      filePath,
	}
}

// Ingest extracts and stores the document. A path that is already stored is
// returned untouched without re-reading data. A nil document with a nil
// error means extraction failed.
func (i *PDFIngestor) Ingest(ctx context.Context, data []byte, filePath string) (*models.PDFDocument, error) {
	existing, err := i.store.GetPDFByPath(ctx, filePath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		i.logger.Info("pdf already stored", "file_path", filePath, "id", existing.ID)
		return existing, nil
	}

	doc := i.Extract(data, filePath)
	if doc == nil {
		return nil, nil
	}

	stored, created, err := i.store.SavePDF(ctx, doc)
	if err != nil {
		return nil, err
	}
	if created {
		i.logger.Info("saved pdf", "file_name", stored.FileName, "id", stored.ID)
	}
	return stored, nil
}
