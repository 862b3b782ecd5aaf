package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

// taskRow mirrors the tasks table; result is nullable text.
type taskRow struct {
	ID         string            `db:"id"`
	Kind       string            `db:"kind"`
	Status     models.TaskStatus `db:"status"`
	TargetID   *int64            `db:"target_id"`
	Error      string            `db:"error"`
	Result     sql.NullString    `db:"result"`
	CreatedAt  time.Time         `db:"created_at"`
	FinishedAt *time.Time        `db:"finished_at"`
}

func (r *repository) CreateTask(ctx context.Context, t *models.Task) error {
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	t.CreatedAt = now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, kind, status, target_id, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.ID, t.Kind, t.Status, t.TargetID, t.Error, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", t.ID, err)
	}
	return nil
}

func (r *repository) FinishTask(ctx context.Context, id string, status models.TaskStatus, result []byte, errMsg string) error {
	var res sql.NullString
	if len(result) > 0 {
		res = sql.NullString{String: string(result), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, result = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, res, errMsg, now(), id)
	return err
}

func (r *repository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var row taskRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, kind, status, target_id, error, result, created_at, finished_at
		FROM tasks WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t := &models.Task{
		ID:         row.ID,
		Kind:       row.Kind,
		Status:     row.Status,
		TargetID:   row.TargetID,
		Error:      row.Error,
		CreatedAt:  row.CreatedAt,
		FinishedAt: row.FinishedAt,
	}
	if row.Result.Valid {
		t.Result = []byte(row.Result.String)
	}
	return t, nil
}
