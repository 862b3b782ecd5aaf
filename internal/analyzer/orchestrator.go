package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

// Orchestrator runs the three model stages. Its methods never return an
// error: transport failures and unusable replies both produce a degraded
// result of the expected shape.
type Orchestrator struct {
	timeline Completer
	analysis Completer
	prompts  *Prompts
	logger   *utils.Logger
}

// NewOrchestrator uses timeline for timeline generation and analysis for
// evidence analysis and reports.
func NewOrchestrator(timeline, analysis Completer, logger *utils.Logger) (*Orchestrator, error) {
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{timeline: timeline, analysis: analysis, prompts: prompts, logger: logger}, nil
}

func (o *Orchestrator) call(ctx context.Context, llm Completer, p prompt, input any) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encode model input: %w", err)
	}
	system, user, err := p.render(string(data))
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return llm.Complete(ctx, system, user)
}

// GenerateTimeline asks the timeline model to organize items.
func (o *Orchestrator) GenerateTimeline(ctx context.Context, items []models.RawItem) *TimelineResult {
	reply, err := o.call(ctx, o.timeline, o.prompts.Timeline, items)
	if err != nil {
		o.logger.Error("timeline generation failed", "error", err)
		return &TimelineResult{
			Title:    DefaultTimelineTitle,
			Overview: strPtr(fmt.Sprintf("Error generating timeline: %v", err)),
			Events:   []json.RawMessage{},
			Error:    err.Error(),
		}
	}

	obj, ok := parseObject(reply)
	if !ok {
		o.logger.Error("failed to parse timeline reply as JSON", "length", len(reply))
		return &TimelineResult{
			Title:       DefaultTimelineTitle,
			Overview:    strPtr(parseFailedMessage),
			Events:      []json.RawMessage{},
			RawResponse: reply,
		}
	}

	result := timelineFromObject(obj)
	o.logger.Info("generated timeline", "events", len(result.Events))
	return result
}

type evidenceEmail struct {
	ID         int64      `json:"id"`
	Sender     string     `json:"sender"`
	Recipients string     `json:"recipients"`
	Subject    string     `json:"subject"`
	Date       *time.Time `json:"date"`
	Snippet    string     `json:"snippet"`
}

type evidenceChat struct {
	ID       int64     `json:"id"`
	Sender   string    `json:"sender"`
	DateTime time.Time `json:"date_time"`
	Message  string    `json:"message"`
}

type evidencePDF struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Snippet  string `json:"snippet"`
}

type evidenceInput struct {
	Emails   []evidenceEmail `json:"emails"`
	ChatLogs []evidenceChat  `json:"chat_logs"`
	PDFs     []evidencePDF   `json:"pdfs"`
}

func newEvidenceInput(c models.Corpus) evidenceInput {
	in := evidenceInput{
		Emails:   make([]evidenceEmail, 0, len(c.Emails)),
		ChatLogs: make([]evidenceChat, 0, len(c.Chats)),
		PDFs:     make([]evidencePDF, 0, len(c.PDFs)),
	}
	for _, e := range c.Emails {
		in.Emails = append(in.Emails, evidenceEmail{
			ID: e.ID, Sender: e.Sender, Recipients: e.Recipients, Subject: e.Subject, Date: e.Date,
			Snippet: utils.Truncate(e.Body, 500),
		})
	}
	for _, m := range c.Chats {
		in.ChatLogs = append(in.ChatLogs, evidenceChat{ID: m.ID, Sender: m.Sender, DateTime: m.DateTime, Message: m.Message})
	}
	for _, p := range c.PDFs {
		in.PDFs = append(in.PDFs, evidencePDF{ID: p.ID, FileName: p.FileName, Snippet: utils.Truncate(p.ExtractedText, 500)})
	}
	return in
}

// AnalyzeEvidence asks the analysis model to recommend evidence from corpus.
func (o *Orchestrator) AnalyzeEvidence(ctx context.Context, corpus models.Corpus) *EvidenceResult {
	reply, err := o.call(ctx, o.analysis, o.prompts.Evidence, newEvidenceInput(corpus))
	if err != nil {
		o.logger.Error("evidence analysis failed", "error", err)
		return &EvidenceResult{
			Summary:             fmt.Sprintf("Error analyzing evidence: %v", err),
			KeyIssues:           []json.RawMessage{},
			RecommendedEvidence: []json.RawMessage{},
			EvidenceGaps:        []json.RawMessage{},
			Error:               err.Error(),
		}
	}

	obj, ok := parseObject(reply)
	if !ok {
		o.logger.Error("failed to parse evidence reply as JSON", "length", len(reply))
		return &EvidenceResult{
			Summary:             parseFailedMessage,
			KeyIssues:           []json.RawMessage{},
			RecommendedEvidence: []json.RawMessage{},
			EvidenceGaps:        []json.RawMessage{},
			RawResponse:         reply,
		}
	}

	result := evidenceFromObject(obj)
	o.logger.Info("analyzed evidence", "recommended", len(result.RecommendedEvidence))
	return result
}

type reportEvent struct {
	Date        *time.Time `json:"date"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
}

type reportTimeline struct {
	Title    string        `json:"title"`
	Overview string        `json:"overview"`
	Events   []reportEvent `json:"events"`
}

type reportEvidence struct {
	SourceType  models.SourceType `json:"source_type"`
	SourceID    int64             `json:"source_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Relevance   string            `json:"relevance"`
	Importance  string            `json:"importance"`
}

type reportInput struct {
	Timeline reportTimeline `json:"timeline"`
	Evidence struct {
		RecommendedEvidence []reportEvidence `json:"recommended_evidence"`
	} `json:"evidence"`
}

func newReportInput(t *models.Timeline, evidence []models.Evidence) reportInput {
	var in reportInput
	in.Timeline = reportTimeline{Title: t.Title, Overview: t.Description, Events: make([]reportEvent, 0, len(t.Events))}
	for _, ev := range t.Events {
		in.Timeline.Events = append(in.Timeline.Events, reportEvent{
			Date: ev.Date, Title: ev.Title, Description: ev.Description, Source: ev.Ref().String(),
		})
	}
	in.Evidence.RecommendedEvidence = make([]reportEvidence, 0, len(evidence))
	for _, ev := range evidence {
		// Stored evidence has no importance grade; treat everything kept as high.
		in.Evidence.RecommendedEvidence = append(in.Evidence.RecommendedEvidence, reportEvidence{
			SourceType: ev.SourceType, SourceID: ev.SourceID, Title: ev.Title,
			Description: ev.Description, Relevance: ev.Relevance, Importance: "High",
		})
	}
	return in
}

// GenerateReport asks the analysis model for a report over a populated
// timeline and the stored evidence.
func (o *Orchestrator) GenerateReport(ctx context.Context, timeline *models.Timeline, evidence []models.Evidence) *ReportResult {
	reply, err := o.call(ctx, o.analysis, o.prompts.Report, newReportInput(timeline, evidence))
	if err != nil {
		o.logger.Error("report generation failed", "error", err)
		return &ReportResult{
			Title:            strPtr(DefaultReportTitle),
			ExecutiveSummary: strPtr(fmt.Sprintf("Error generating report: %v", err)),
			Error:            err.Error(),
		}
	}

	obj, ok := parseObject(reply)
	if !ok {
		o.logger.Error("failed to parse report reply as JSON", "length", len(reply))
		return &ReportResult{
			Title:            strPtr(DefaultReportTitle),
			ExecutiveSummary: strPtr(parseFailedMessage),
			RawResponse:      reply,
		}
	}

	o.logger.Info("generated report")
	return reportFromObject(obj)
}
