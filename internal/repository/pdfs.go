package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

const pdfColumns = `id, file_name, extracted_text, file_path, created_at, updated_at`

func (r *repository) SavePDF(ctx context.Context, doc *models.PDFDocument) (*models.PDFDocument, bool, error) {
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO pdfs (file_name, extracted_text, file_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(file_path) DO NOTHING
	`, doc.FileName, doc.ExtractedText, doc.FilePath, ts, ts)
	if err != nil {
		return nil, false, fmt.Errorf("insert pdf %s: %w", doc.FilePath, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := r.GetPDFByPath(ctx, doc.FilePath)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("pdf %s vanished after conflict", doc.FilePath)
		}
		return existing, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}

	stored := *doc
	stored.ID = id
	stored.CreatedAt = ts
	stored.UpdatedAt = ts
	return &stored, true, nil
}

func (r *repository) GetPDF(ctx context.Context, id int64) (*models.PDFDocument, error) {
	return r.getPDFBy(ctx, "id", id)
}

func (r *repository) GetPDFByPath(ctx context.Context, filePath string) (*models.PDFDocument, error) {
	return r.getPDFBy(ctx, "file_path", filePath)
}

func (r *repository) getPDFBy(ctx context.Context, col string, value any) (*models.PDFDocument, error) {
	var doc models.PDFDocument
	err := r.db.GetContext(ctx, &doc, `SELECT `+pdfColumns+` FROM pdfs WHERE `+col+` = ?`, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListPDFs returns matching documents in insertion order.
func (r *repository) ListPDFs(ctx context.Context, f models.PDFFilter) ([]models.PDFDocument, error) {
	var w where
	w.contains(f.FileName, "file_name")
	w.contains(f.Content, "extracted_text")
	w.contains(f.Text, "file_name", "extracted_text")
	if f.FilePath != "" {
		w.add("file_path = ?", f.FilePath)
	}

	docs := []models.PDFDocument{}
	query := `SELECT ` + pdfColumns + ` FROM pdfs` + w.String() + ` ORDER BY id`
	if err := r.db.SelectContext(ctx, &docs, query, w.args...); err != nil {
		return nil, fmt.Errorf("list pdfs: %w", err)
	}
	return docs, nil
}
