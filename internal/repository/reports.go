package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

const reportColumns = `id, title, content, status, timeline_id, created_at, updated_at`

func (r *repository) CreateReport(ctx context.Context, rep *models.Report) error {
	ts := now()
	if rep.Status == "" {
		rep.Status = models.ArtifactCreated
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (title, content, status, timeline_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rep.Title, rep.Content, rep.Status, rep.TimelineID, ts, ts)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if rep.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	rep.CreatedAt = ts
	rep.UpdatedAt = ts
	return nil
}

func (r *repository) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	var rep models.Report
	err := r.db.GetContext(ctx, &rep, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListReports omits content; fetch a single report for the full text.
func (r *repository) ListReports(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.SelectContext(ctx, &reports, `
		SELECT id, title, '' AS content, status, timeline_id, created_at, updated_at
		FROM reports
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (r *repository) UpdateReport(ctx context.Context, id int64, content string, status models.ArtifactStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reports SET content = ?, status = ?, updated_at = ? WHERE id = ?`,
		content, status, now(), id)
	return err
}

func (r *repository) DeleteReport(ctx context.Context, id int64) (bool, error) {
	return r.deleteByID(ctx, "reports", id)
}
