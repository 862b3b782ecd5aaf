package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

const emailColumns = `id, sender, recipients, subject, date, body, email_id, created_at, updated_at`

func (r *repository) SaveEmail(ctx context.Context, e *models.Email) (*models.Email, bool, error) {
	ts := now()
	query := `
		INSERT INTO emails (sender, recipients, subject, date, body, email_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email_id) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		e.Sender,
		e.Recipients,
		e.Subject,
		utcPtr(e.Date),
		e.Body,
		e.EmailID,
		ts,
		ts,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert email %s: %w", e.EmailID, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := r.getEmailBy(ctx, "email_id", e.EmailID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("email %s vanished after conflict", e.EmailID)
		}
		return existing, false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}

	stored := *e
	stored.ID = id
	stored.Date = utcPtr(e.Date)
	stored.CreatedAt = ts
	stored.UpdatedAt = ts
	return &stored, true, nil
}

func (r *repository) GetEmail(ctx context.Context, id int64) (*models.Email, error) {
	return r.getEmailBy(ctx, "id", id)
}

func (r *repository) getEmailBy(ctx context.Context, col string, value any) (*models.Email, error) {
	var e models.Email
	err := r.db.GetContext(ctx, &e, `SELECT `+emailColumns+` FROM emails WHERE `+col+` = ?`, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEmails returns matching emails newest first. Undated emails sort last.
func (r *repository) ListEmails(ctx context.Context, f models.EmailFilter) ([]models.Email, error) {
	var w where
	w.contains(f.Sender, "sender")
	w.contains(f.Recipient, "recipients")
	w.contains(f.Subject, "subject")
	w.contains(f.Text, "subject", "body")
	w.contains(f.Person, "sender", "recipients")
	w.between("date", f.Range)

	query := `SELECT ` + emailColumns + ` FROM emails` + w.String() + ` ORDER BY date IS NULL, date DESC, id DESC`
	args := w.args
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	} else if f.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, f.Offset)
	}

	emails := []models.Email{}
	if err := r.db.SelectContext(ctx, &emails, query, args...); err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return emails, nil
}

func (r *repository) CountEmails(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM emails`)
	return n, err
}
