package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

const chatColumns = `id, date_time, sender, message, file_path, created_at, updated_at`

// CreateChatMessages inserts msgs in one transaction and fills in their ids.
// There is no natural key: inserting the same file twice duplicates rows.
func (r *repository) CreateChatMessages(ctx context.Context, msgs []models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO chat_logs (date_time, sender, message, file_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	ts := now()
	for i := range msgs {
		m := &msgs[i]
		m.DateTime = m.DateTime.UTC()
		res, err := stmt.ExecContext(ctx, m.DateTime, m.Sender, m.Message, m.FilePath, ts, ts)
		if err != nil {
			return fmt.Errorf("insert chat message %d: %w", i, err)
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		m.CreatedAt = ts
		m.UpdatedAt = ts
	}

	return tx.Commit()
}

func (r *repository) GetChatMessage(ctx context.Context, id int64) (*models.ChatMessage, error) {
	var m models.ChatMessage
	err := r.db.GetContext(ctx, &m, `SELECT `+chatColumns+` FROM chat_logs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListChatMessages returns matching messages in conversation order.
func (r *repository) ListChatMessages(ctx context.Context, f models.ChatFilter) ([]models.ChatMessage, error) {
	var w where
	w.contains(f.Sender, "sender")
	w.contains(f.Content, "message")
	if f.FilePath != "" {
		w.add("file_path = ?", f.FilePath)
	}
	w.between("date_time", f.Range)

	msgs := []models.ChatMessage{}
	query := `SELECT ` + chatColumns + ` FROM chat_logs` + w.String() + ` ORDER BY date_time, id`
	if err := r.db.SelectContext(ctx, &msgs, query, w.args...); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return msgs, nil
}

func (r *repository) CountChatMessagesByPath(ctx context.Context, filePath string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM chat_logs WHERE file_path = ?`, filePath)
	return n, err
}
