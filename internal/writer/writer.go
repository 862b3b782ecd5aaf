// Package writer persists model results as timeline events, evidence rows
// and report text. Malformed records are logged and skipped one at a time.
package writer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const (
	DefaultOverview      = "Timeline generated successfully."
	DefaultEventTitle    = "Untitled Event"
	DefaultEvidenceTitle = "Untitled Evidence"
)

type Store interface {
	PopulateTimeline(ctx context.Context, id int64, description string, status models.ArtifactStatus, events []models.TimelineEvent) error
	CreateEvidence(ctx context.Context, items []models.Evidence) error
	UpdateReport(ctx context.Context, id int64, content string, status models.ArtifactStatus) error
}

type Writer struct {
	store  Store
	logger *utils.Logger
}

func New(store Store, logger *utils.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// statusFor maps a degraded result to failed. The degraded text is still
// written so the reason is visible on the row.
func statusFor(degraded bool) models.ArtifactStatus {
	if degraded {
		return models.ArtifactFailed
	}
	return models.ArtifactPopulated
}

var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// ParseEventDate reads an ISO-8601 timestamp, falling back to a plain
// YYYY-MM-DD date. Zone-less values are taken as UTC.
func ParseEventDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, true
	}
	return nil, false
}

type eventRecord struct {
	Date        analyzer.Text  `json:"date"`
	Title       analyzer.Text  `json:"title"`
	Description analyzer.Text  `json:"description"`
	Source      analyzer.Text  `json:"source"`
	SourceType  *analyzer.Text `json:"source_type"`
	SourceID    analyzer.Text  `json:"source_id"`
}

func (r eventRecord) ref() models.SourceRef {
	if r.Source != "" {
		return models.ParseSourceRef(r.Source.String())
	}
	if r.SourceType != nil && *r.SourceType != "" {
		return models.SourceRef{Type: models.SourceType(r.SourceType.String()), ID: r.SourceID.Int64()}
	}
	return models.SourceRef{Type: models.SourceUnknown}
}

// BuildEvents converts raw event objects. Elements that are not objects are
// skipped; an unreadable date leaves the event undated.
func (w *Writer) BuildEvents(raw []json.RawMessage) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, len(raw))
	for i, item := range raw {
		var rec eventRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			w.logger.Error("skipping malformed timeline event", "index", i, "error", err)
			continue
		}

		ev := models.TimelineEvent{
			Title:       rec.Title.String(),
			Description: rec.Description.String(),
		}
		if ev.Title == "" {
			ev.Title = DefaultEventTitle
		}
		if rec.Date != "" {
			date, ok := ParseEventDate(rec.Date.String())
			if !ok {
				w.logger.Warn("could not parse event date", "index", i, "date", rec.Date.String())
			}
			ev.Date = date
		}
		ref := rec.ref()
		ev.SourceType, ev.SourceID = ref.Type, ref.ID

		events = append(events, ev)
	}
	return events
}

// WriteTimeline replaces the timeline's events and overview with result.
func (w *Writer) WriteTimeline(ctx context.Context, timelineID int64, result *analyzer.TimelineResult) ([]models.TimelineEvent, error) {
	overview := DefaultOverview
	if result.Overview != nil {
		overview = *result.Overview
	}

	events := w.BuildEvents(result.Events)
	if err := w.store.PopulateTimeline(ctx, timelineID, overview, statusFor(result.Degraded()), events); err != nil {
		return nil, err
	}

	w.logger.Info("timeline written", "timeline_id", timelineID, "events", len(events), "degraded", result.Degraded())
	return events, nil
}

type evidenceRecord struct {
	Title       *analyzer.Text `json:"title"`
	Description analyzer.Text  `json:"description"`
	Relevance   analyzer.Text  `json:"relevance"`
	SourceType  analyzer.Text  `json:"source_type"`
	SourceID    analyzer.Text  `json:"source_id"`
}

// BuildEvidence converts recommended-evidence objects, skipping any that
// cannot be read.
func (w *Writer) BuildEvidence(raw []json.RawMessage) []models.Evidence {
	items := make([]models.Evidence, 0, len(raw))
	for i, item := range raw {
		var rec evidenceRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			w.logger.Error("skipping malformed evidence record", "index", i, "error", err)
			continue
		}

		ev := models.Evidence{
			Title:       DefaultEvidenceTitle,
			Description: rec.Description.String(),
			Relevance:   rec.Relevance.String(),
			SourceType:  models.SourceType(strings.ToLower(strings.TrimSpace(rec.SourceType.String()))),
			SourceID:    rec.SourceID.Int64(),
		}
		if rec.Title != nil && *rec.Title != "" {
			ev.Title = rec.Title.String()
		}
		if ev.SourceType == "" {
			ev.SourceType = models.SourceUnknown
		}

		items = append(items, ev)
	}
	return items
}

// WriteEvidence stores every readable recommendation with one commit.
func (w *Writer) WriteEvidence(ctx context.Context, result *analyzer.EvidenceResult) ([]models.Evidence, error) {
	items := w.BuildEvidence(result.RecommendedEvidence)
	if err := w.store.CreateEvidence(ctx, items); err != nil {
		return nil, err
	}

	w.logger.Info("evidence written", "count", len(items), "recommended", len(result.RecommendedEvidence))
	return items, nil
}

// WriteReport renders result and stores it as the report's content.
func (w *Writer) WriteReport(ctx context.Context, reportID int64, result *analyzer.ReportResult) (string, error) {
	content := RenderReport(result)
	if err := w.store.UpdateReport(ctx, reportID, content, statusFor(result.Degraded())); err != nil {
		return "", err
	}

	w.logger.Info("report written", "report_id", reportID, "bytes", len(content), "degraded", result.Degraded())
	return content, nil
}
