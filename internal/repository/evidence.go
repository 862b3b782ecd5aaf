package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

const evidenceColumns = `id, title, description, relevance, source_type, source_id, created_at`

// CreateEvidence persists items with a single commit and fills in their ids.
func (r *repository) CreateEvidence(ctx context.Context, items []models.Evidence) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO evidence (title, description, relevance, source_type, source_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ts := now()
	for i := range items {
		ev := &items[i]
		res, err := stmt.ExecContext(ctx, ev.Title, ev.Description, ev.Relevance, ev.SourceType, ev.SourceID, ts)
		if err != nil {
			return fmt.Errorf("insert evidence %d: %w", i, err)
		}
		if ev.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		ev.CreatedAt = ts
	}

	return tx.Commit()
}

func (r *repository) GetEvidence(ctx context.Context, id int64) (*models.Evidence, error) {
	var ev models.Evidence
	err := r.db.GetContext(ctx, &ev, `SELECT `+evidenceColumns+` FROM evidence WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *repository) ListEvidence(ctx context.Context) ([]models.Evidence, error) {
	items := []models.Evidence{}
	err := r.db.SelectContext(ctx, &items, `SELECT `+evidenceColumns+` FROM evidence ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	return items, nil
}

func (r *repository) DeleteEvidence(ctx context.Context, id int64) (bool, error) {
	return r.deleteByID(ctx, "evidence", id)
}
