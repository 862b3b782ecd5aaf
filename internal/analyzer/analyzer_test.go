package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robertobuso/legal-evidence-organizer/internal/config"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

type fakeCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastSystem, f.lastUser = system, user
	return f.reply, f.err
}

func newTestOrchestrator(t *testing.T, llm Completer) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(llm, llm, utils.NopLogger())
	require.NoError(t, err)
	return o
}

func TestAnalyzeEvidence_NonJSONReply(t *testing.T) {
	o := newTestOrchestrator(t, &fakeCompleter{reply: "I cannot comply"})

	got := o.AnalyzeEvidence(context.Background(), models.Corpus{})

	require.NotNil(t, got)
	assert.NotNil(t, got.RecommendedEvidence)
	assert.Empty(t, got.RecommendedEvidence)
	assert.Equal(t, "I cannot comply", got.RawResponse)
	assert.Equal(t, "Error parsing structured data", got.Summary)
	assert.True(t, got.Degraded())
}

func TestAnalyzeEvidence_TransportError(t *testing.T) {
	o := newTestOrchestrator(t, &fakeCompleter{err: errors.New("rate limited")})

	got := o.AnalyzeEvidence(context.Background(), models.Corpus{})

	require.NotNil(t, got)
	assert.Equal(t, "Error analyzing evidence: rate limited", got.Summary)
	assert.Equal(t, "rate limited", got.Error)
	assert.Empty(t, got.RecommendedEvidence)
	assert.Empty(t, got.RawResponse)
}

func TestAnalyzeEvidence_FencedJSON(t *testing.T) {
	reply := "```json\n{\"summary\": \"breach\", \"recommended_evidence\": [{\"title\": \"Invoice\"}, 42], \"evidence_gaps\": [\"contract\"]}\n```"
	llm := &fakeCompleter{reply: reply}
	o := newTestOrchestrator(t, llm)

	got := o.AnalyzeEvidence(context.Background(), models.Corpus{
		Emails: []models.Email{{ID: 1, Subject: "Invoice", Body: strings.Repeat("x", 600)}},
		PDFs:   []models.PDFDocument{{ID: 2, FileName: "inv.pdf"}},
	})

	assert.False(t, got.Degraded())
	assert.Equal(t, "breach", got.Summary)
	assert.Len(t, got.RecommendedEvidence, 2)
	assert.Len(t, got.EvidenceGaps, 1)
	assert.NotNil(t, got.KeyIssues)
	assert.Contains(t, llm.lastUser, `"file_name":"inv.pdf"`)
	assert.Contains(t, llm.lastUser, strings.Repeat("x", 500)+"...")
	assert.NotContains(t, llm.lastUser, strings.Repeat("x", 501))
}

func TestGenerateTimeline(t *testing.T) {
	t.Run("parses events", func(t *testing.T) {
		llm := &fakeCompleter{reply: `{"title": "T", "overview": "O", "events": [{"date": "2024-01-02", "title": "E", "source": "email:1"}]}`}
		o := newTestOrchestrator(t, llm)
		date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

		got := o.GenerateTimeline(context.Background(), []models.RawItem{{Date: &date, SourceType: models.SourceEmail, SourceID: 1, Content: "hi"}})

		assert.Equal(t, "T", got.Title)
		require.NotNil(t, got.Overview)
		assert.Equal(t, "O", *got.Overview)
		assert.Len(t, got.Events, 1)
		assert.Contains(t, llm.lastUser, `"source_type":"email"`)
		assert.NotEmpty(t, llm.lastSystem)
	})

	t.Run("missing overview stays nil", func(t *testing.T) {
		got := newTestOrchestrator(t, &fakeCompleter{reply: `{"events": "not a list"}`}).GenerateTimeline(context.Background(), nil)
		assert.Nil(t, got.Overview)
		assert.Equal(t, DefaultTimelineTitle, got.Title)
		assert.NotNil(t, got.Events)
		assert.Empty(t, got.Events)
	})

	t.Run("malformed reply", func(t *testing.T) {
		got := newTestOrchestrator(t, &fakeCompleter{reply: "sorry"}).GenerateTimeline(context.Background(), nil)
		require.NotNil(t, got.Overview)
		assert.Equal(t, "Error parsing structured data", *got.Overview)
		assert.Equal(t, "sorry", got.RawResponse)
		assert.NotNil(t, got.Events)
	})

	t.Run("transport error", func(t *testing.T) {
		got := newTestOrchestrator(t, &fakeCompleter{err: errors.New("timeout")}).GenerateTimeline(context.Background(), nil)
		require.NotNil(t, got.Overview)
		assert.Equal(t, "Error generating timeline: timeout", *got.Overview)
		assert.Equal(t, "timeout", got.Error)
	})
}

func TestGenerateReport(t *testing.T) {
	reply := `{
		"title": "Legal Report: Acme",
		"timeline": [{"date": "2024-01-02", "event": "Signed"}, "junk"],
		"key_issues": [{"issue": "Late payment", "supporting_evidence": [12, "email:3"]}],
		"recommendations": [],
		"appendix": {"recommended_evidence_details": [{"id": 12, "type": "pdf"}]}
	}`
	llm := &fakeCompleter{reply: reply}
	o := newTestOrchestrator(t, llm)
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tl := &models.Timeline{Title: "Dispute", Description: "overview", Events: []models.TimelineEvent{
		{Date: &date, Title: "Signed", SourceType: models.SourcePDF, SourceID: 12},
	}}

	got := o.GenerateReport(context.Background(), tl, []models.Evidence{{Title: "Invoice", SourceType: models.SourcePDF, SourceID: 12}})

	require.NotNil(t, got.Title)
	assert.Equal(t, "Legal Report: Acme", *got.Title)
	assert.Nil(t, got.ExecutiveSummary)
	require.Len(t, got.Timeline, 1)
	assert.Nil(t, got.Timeline[0].Significance)
	require.Len(t, got.KeyIssues, 1)
	assert.Equal(t, []string{"12", "email:3"}, got.KeyIssues[0].SupportingEvidence)
	assert.NotNil(t, got.Recommendations)
	assert.Empty(t, got.Recommendations)
	require.Len(t, got.Appendix, 1)
	assert.Equal(t, "12", *got.Appendix[0].ID)
	assert.Contains(t, llm.lastUser, `"source":"pdf:12"`)
	assert.Contains(t, llm.lastUser, `"importance":"High"`)

	degraded := newTestOrchestrator(t, &fakeCompleter{reply: "nope"}).GenerateReport(context.Background(), tl, nil)
	assert.Equal(t, "Legal Report", *degraded.Title)
	assert.Equal(t, "Error parsing structured data", *degraded.ExecutiveSummary)
	assert.Equal(t, "nope", degraded.RawResponse)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON("```\n{\"a\":1}\n```\n"))
	assert.Equal(t, `{"a":1}`, extractJSON(`  {"a":1}  `))
}

func TestText(t *testing.T) {
	var v struct {
		A, B, C, D Text
	}
	require.NoError(t, json.Unmarshal([]byte(`{"A": "x", "B": 12, "C": null, "D": {"k": 1}}`), &v))
	assert.Equal(t, Text("x"), v.A)
	assert.Equal(t, Text("12"), v.B)
	assert.Equal(t, int64(12), v.B.Int64())
	assert.Equal(t, Text(""), v.C)
	assert.Equal(t, Text(`{"k":1}`), v.D)
	assert.Equal(t, int64(0), v.A.Int64())
	assert.Equal(t, int64(7), Text("7.0").Int64())
}

func TestParsePrompts(t *testing.T) {
	p, err := LoadPrompts()
	require.NoError(t, err)
	system, user, err := p.Timeline.render(`[{"id":1}]`)
	require.NoError(t, err)
	assert.NotEmpty(t, system)
	assert.Contains(t, user, `[{"id":1}]`)

	_, err = ParsePrompts([]byte("timeline:\n  user: hi\n"))
	assert.Error(t, err)
}

func TestOpenAICompleter(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices": [{"message": {"role": "assistant", "content": "{\"ok\": true}"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL+"/v1/", "sk-test", "gpt-4o", srv.Client(), utils.NopLogger())
	reply, err := c.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, reply)
	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
}

func TestOpenAICompleter_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL, "k", "m", srv.Client(), utils.NopLogger())
	_, err := c.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "429")
}

func TestGeminiCompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-pro:generateContent", r.URL.Path)
		assert.Equal(t, "gm-key", r.Header.Get("x-goog-api-key"))
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "sys", req.SystemInstruction.Parts[0].Text)
		assert.Equal(t, "usr", req.Contents[0].Parts[0].Text)
		io.WriteString(w, `{"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"a\":"}, {"text": "1}"}]}}]}`)
	}))
	defer srv.Close()

	c := NewGeminiCompleter(srv.URL, "gm-key", "gemini-1.5-pro", srv.Client(), utils.NopLogger())
	reply, err := c.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, reply)
}

func TestGeminiCompleter_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	c := NewGeminiCompleter(srv.URL, "bad", "m", srv.Client(), utils.NopLogger())
	_, err := c.Complete(context.Background(), "s", "u")
	assert.ErrorContains(t, err, "API key not valid")
}

func TestNewCompleter(t *testing.T) {
	cfg := &config.Config{OpenAIBaseURL: "http://x", LLMTimeout: time.Second}

	c, err := NewCompleter(config.ProviderOpenAI, cfg, utils.NopLogger())
	require.NoError(t, err)
	assert.NotNil(t, c)

	c, err = NewCompleter(config.ProviderGemini, cfg, utils.NopLogger())
	require.NoError(t, err)
	assert.NotNil(t, c)

	_, err = NewCompleter("claude", cfg, utils.NopLogger())
	assert.Error(t, err)
}
