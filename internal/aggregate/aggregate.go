// Package aggregate merges stored source records into one chronological
// sequence for timeline generation.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

// SnippetLength bounds email bodies and PDF text in projected items.
const SnippetLength = 500

type SourceReader interface {
	ListEmails(ctx context.Context, f models.EmailFilter) ([]models.Email, error)
	ListChatMessages(ctx context.Context, f models.ChatFilter) ([]models.ChatMessage, error)
	ListPDFs(ctx context.Context, f models.PDFFilter) ([]models.PDFDocument, error)
}

type Aggregator struct {
	store SourceReader
}

func NewAggregator(store SourceReader) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate returns emails and chat messages within r plus every PDF,
// ordered by Merge.
func (a *Aggregator) Aggregate(ctx context.Context, r models.DateRange) ([]models.RawItem, error) {
	corpus, err := a.load(ctx, r)
	if err != nil {
		return nil, err
	}
	return Merge(corpus), nil
}

// Corpus returns every stored source record, unfiltered.
func (a *Aggregator) Corpus(ctx context.Context) (models.Corpus, error) {
	return a.load(ctx, models.DateRange{})
}

func (a *Aggregator) load(ctx context.Context, r models.DateRange) (models.Corpus, error) {
	var c models.Corpus
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		emails, err := a.store.ListEmails(ctx, models.EmailFilter{Range: r})
		if err != nil {
			return fmt.Errorf("load emails: %w", err)
		}
		c.Emails = emails
		return nil
	})
	g.Go(func() error {
		chats, err := a.store.ListChatMessages(ctx, models.ChatFilter{Range: r})
		if err != nil {
			return fmt.Errorf("load chat messages: %w", err)
		}
		c.Chats = chats
		return nil
	})
	// PDFs carry no date and are never range-filtered.
	g.Go(func() error {
		pdfs, err := a.store.ListPDFs(ctx, models.PDFFilter{})
		if err != nil {
			return fmt.Errorf("load pdfs: %w", err)
		}
		c.PDFs = pdfs
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.Corpus{}, err
	}
	return c, nil
}

// Merge projects emails, then chats, then PDFs, and orders the result: dated
// items ascending with ties kept in projection order, followed by every
// undated item in projection order.
func Merge(c models.Corpus) []models.RawItem {
	items := make([]models.RawItem, 0, len(c.Emails)+len(c.Chats)+len(c.PDFs))
	for _, e := range c.Emails {
		items = append(items, FromEmail(e))
	}
	for _, m := range c.Chats {
		items = append(items, FromChat(m))
	}
	for _, p := range c.PDFs {
		items = append(items, FromPDF(p))
	}

	dated := make([]models.RawItem, 0, len(items))
	var undated []models.RawItem
	for _, it := range items {
		if it.Date != nil {
			dated = append(dated, it)
		} else {
			undated = append(undated, it)
		}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.Before(*dated[j].Date)
	})

	return append(dated, undated...)
}

func FromEmail(e models.Email) models.RawItem {
	return models.RawItem{
		Date:       e.Date,
		SourceType: models.SourceEmail,
		SourceID:   e.ID,
		Sender:     e.Sender,
		Recipients: e.Recipients,
		Subject:    e.Subject,
		Content:    utils.Truncate(e.Body, SnippetLength),
	}
}

func FromChat(m models.ChatMessage) models.RawItem {
	var date *time.Time
	if !m.DateTime.IsZero() {
		d := m.DateTime
		date = &d
	}
	return models.RawItem{
		Date:       date,
		SourceType: models.SourceChat,
		SourceID:   m.ID,
		Sender:     m.Sender,
		Content:    m.Message,
	}
}

func FromPDF(p models.PDFDocument) models.RawItem {
	return models.RawItem{
		SourceType: models.SourcePDF,
		SourceID:   p.ID,
		FileName:   p.FileName,
		Content:    utils.Truncate(p.ExtractedText, SnippetLength),
	}
}
