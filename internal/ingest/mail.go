// Package ingest turns raw inputs into stored source records. Extraction and
// provider failures are logged here and never returned; only store errors
// reach the caller.
package ingest

import (
	"context"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/mailbox"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

// Result summarizes one ingestion run.
type Result struct {
	Parsed  int `json:"parsed"`
	Created int `json:"created"`
}

type MailIngestor struct {
	provider mailbox.Provider
	store    repository.EmailStore
	logger   *utils.Logger
	now      func() time.Time
}

func NewMailIngestor(provider mailbox.Provider, store repository.EmailStore, logger *utils.Logger) *MailIngestor {
	return &MailIngestor{provider: provider, store: store, logger: logger, now: time.Now}
}

// Fetch queries the provider. Any provider failure yields an empty list.
func (i *MailIngestor) Fetch(ctx context.Context, addresses []string, r models.DateRange) []models.Email {
	if i.provider == nil {
		i.logger.Error("mail provider not configured")
		return []models.Email{}
	}

	raw, err := i.provider.SearchMessages(ctx, addresses, r)
	if err != nil {
		i.logger.Error("failed to fetch emails", "error", err, "addresses", addresses)
		return []models.Email{}
	}

	emails := make([]models.Email, 0, len(raw))
	for _, msg := range raw {
		emails = append(emails, mailbox.ParseMessage(msg, i.now))
	}

	i.logger.Info("fetched emails", "count", len(emails))
	return emails
}

// Save stores emails, skipping any whose message id is already present.
func (i *MailIngestor) Save(ctx context.Context, emails []models.Email) (Result, error) {
	res := Result{Parsed: len(emails)}
	for idx := range emails {
		_, created, err := i.store.SaveEmail(ctx, &emails[idx])
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
		} else {
			i.logger.Debug("email already stored", "email_id", emails[idx].EmailID)
		}
	}

	i.logger.Info("saved emails", "parsed", res.Parsed, "created", res.Created)
	return res, nil
}

func (i *MailIngestor) Ingest(ctx context.Context, addresses []string, r models.DateRange) (Result, error) {
	return i.Save(ctx, i.Fetch(ctx, addresses, r))
}
