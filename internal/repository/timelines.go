package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

const timelineColumns = `id, title, description, status, created_at, updated_at`

func (r *repository) CreateTimeline(ctx context.Context, t *models.Timeline) error {
	ts := now()
	if t.Status == "" {
		t.Status = models.ArtifactCreated
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO timelines (title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.Title, t.Description, t.Status, ts, ts)
	if err != nil {
		return fmt.Errorf("insert timeline: %w", err)
	}

	if t.ID, err = res.LastInsertId(); err != nil {
		return err
	}
	t.CreatedAt = ts
	t.UpdatedAt = ts
	return nil
}

// GetTimeline loads the timeline together with its events.
func (r *repository) GetTimeline(ctx context.Context, id int64) (*models.Timeline, error) {
	var t models.Timeline
	err := r.db.GetContext(ctx, &t, `SELECT `+timelineColumns+` FROM timelines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if t.Events, err = r.ListTimelineEvents(ctx, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) ListTimelines(ctx context.Context) ([]models.Timeline, error) {
	timelines := []models.Timeline{}
	err := r.db.SelectContext(ctx, &timelines, `SELECT `+timelineColumns+` FROM timelines ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	return timelines, nil
}

func (r *repository) PopulateTimeline(ctx context.Context, id int64, description string, status models.ArtifactStatus, events []models.TimelineEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx,
		`UPDATE timelines SET description = ?, status = ?, updated_at = ? WHERE id = ?`,
		description, status, ts, id)
	if err != nil {
		return fmt.Errorf("update timeline %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("timeline %d not found", id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM timeline_events WHERE timeline_id = ?`, id); err != nil {
		return fmt.Errorf("clear timeline %d events: %w", id, err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO timeline_events (timeline_id, date, title, description, source_type, source_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range events {
		ev := &events[i]
		ev.TimelineID = id
		ev.Date = utcPtr(ev.Date)
		res, err := stmt.ExecContext(ctx, id, ev.Date, ev.Title, ev.Description, ev.SourceType, ev.SourceID, ts)
		if err != nil {
			return fmt.Errorf("insert timeline event %d: %w", i, err)
		}
		if ev.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		ev.CreatedAt = ts
	}

	return tx.Commit()
}

func (r *repository) UpdateTimeline(ctx context.Context, id int64, description string, status models.ArtifactStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE timelines SET description = ?, status = ?, updated_at = ? WHERE id = ?`,
		description, status, now(), id)
	return err
}

// ListTimelineEvents returns dated events ascending followed by undated ones.
func (r *repository) ListTimelineEvents(ctx context.Context, timelineID int64) ([]models.TimelineEvent, error) {
	events := []models.TimelineEvent{}
	err := r.db.SelectContext(ctx, &events, `
		SELECT id, timeline_id, date, title, description, source_type, source_id, created_at
		FROM timeline_events
		WHERE timeline_id = ?
		ORDER BY date IS NULL, date, id
	`, timelineID)
	if err != nil {
		return nil, fmt.Errorf("list timeline events: %w", err)
	}
	return events, nil
}

func (r *repository) DeleteTimeline(ctx context.Context, id int64) (bool, error) {
	return r.deleteByID(ctx, "timelines", id)
}

func (r *repository) deleteByID(ctx context.Context, table string, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
