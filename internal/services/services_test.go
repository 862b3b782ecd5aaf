package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/aggregate"
	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
	"github.com/robertobuso/legal-evidence-organizer/internal/db"
	"github.com/robertobuso/legal-evidence-organizer/internal/extractor"
	"github.com/robertobuso/legal-evidence-organizer/internal/ingest"
	"github.com/robertobuso/legal-evidence-organizer/internal/mailbox"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/repository"
	"github.com/robertobuso/legal-evidence-organizer/internal/storage"
	"github.com/robertobuso/legal-evidence-organizer/internal/tasks"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
	"github.com/robertobuso/legal-evidence-organizer/internal/writer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedCompleter blocks every call until release is closed.
type gatedCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	release chan struct{}
}

func newCompleter(reply string, err error) *gatedCompleter {
	c := &gatedCompleter{reply: reply, err: err, release: make(chan struct{})}
	close(c.release)
	return c
}

func (c *gatedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	<-c.release
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reply, c.err
}

type panickingCompleter struct{}

func (panickingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	panic("model exploded")
}

type fakeMessage struct {
	id      string
	headers map[string]string
	body    string
}

func (m fakeMessage) ID() string                { return m.id }
func (m fakeMessage) Header(name string) string { return m.headers[name] }
func (m fakeMessage) Body() string              { return m.body }

type fakeProvider struct {
	messages []mailbox.RawMessage
}

func (p *fakeProvider) SearchMessages(ctx context.Context, addresses []string, r models.DateRange) ([]mailbox.RawMessage, error) {
	return p.messages, nil
}

type env struct {
	repo      repository.Repository
	runner    *tasks.Runner
	uploads   UploadService
	emails    EmailService
	sources   SourceService
	timelines TimelineService
	evidence  EvidenceService
	reports   ReportService
	tasks     TaskService
}

func newEnv(t *testing.T, llm analyzer.Completer, provider mailbox.Provider) *env {
	t.Helper()
	logger := utils.NopLogger()

	conn, err := db.Open(filepath.Join(t.TempDir(), "evidence.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store, err := storage.NewLocalStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	repo := repository.NewRepository(conn)
	runner := tasks.NewRunner(repo, logger)
	t.Cleanup(runner.Wait)

	orch, err := analyzer.NewOrchestrator(llm, llm, logger)
	require.NoError(t, err)
	agg := aggregate.NewAggregator(repo)
	w := writer.New(repo, logger)

	return &env{
		repo:      repo,
		runner:    runner,
		uploads:   NewUploadService(repo, store, ingest.NewChatIngestor(extractor.NewChatParser(logger), repo, logger), ingest.NewPDFIngestor(repo, logger), runner, logger),
		emails:    NewEmailService(repo, ingest.NewMailIngestor(provider, repo, logger), runner, logger),
		sources:   NewSourceService(repo, logger),
		timelines: NewTimelineService(repo, agg, orch, w, runner, logger),
		evidence:  NewEvidenceService(repo, agg, orch, w, runner, logger),
		reports:   NewReportService(repo, orch, w, runner, logger),
		tasks:     NewTaskService(repo, logger),
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, status, utils.StatusOf(err))
}

func seedEmail(t *testing.T, repo repository.Repository, emailID, subject, body string, date time.Time) *models.Email {
	t.Helper()
	stored, _, err := repo.SaveEmail(context.Background(), &models.Email{
		EmailID: emailID, Sender: "alice@example.com", Recipients: "bob@example.com",
		Subject: subject, Body: body, Date: &date,
	})
	require.NoError(t, err)
	return stored
}

const timelineReply = `{
	"title": "Dispute",
	"overview": "Payment was late.",
	"events": [
		{"date": "2024-01-05", "title": "Invoice sent", "description": "Net 30", "source": "email:1"},
		{"date": "soon", "title": "Chase", "source": "chat"}
	]
}`

func TestGenerateTimeline_ProcessingThenPopulated(t *testing.T) {
	llm := &gatedCompleter{reply: timelineReply, release: make(chan struct{})}
	e := newEnv(t, llm, nil)
	ctx := context.Background()
	seedEmail(t, e.repo, "m1", "Invoice", "Please pay", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))

	accepted, err := e.timelines.GenerateTimeline(ctx, &models.GenerateTimelineRequest{})
	require.NoError(t, err)
	assert.Equal(t, "processing", accepted.Status)
	require.NotNil(t, accepted.ID)
	assert.NotEmpty(t, accepted.TaskID)

	pending, err := e.timelines.GetTimeline(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, timelinePlaceholder, pending.Description)
	assert.Equal(t, models.ArtifactCreated, pending.Status)
	assert.Equal(t, analyzer.DefaultTimelineTitle, pending.Title)

	close(llm.release)
	e.runner.Wait()

	done, err := e.timelines.GetTimeline(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.NotEqual(t, timelinePlaceholder, done.Description)
	assert.Equal(t, "Payment was late.", done.Description)
	assert.Equal(t, models.ArtifactPopulated, done.Status)
	require.Len(t, done.Events, 2)
	assert.Equal(t, "Invoice sent", done.Events[0].Title)
	assert.Nil(t, done.Events[1].Date)

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskSucceeded, task.Status)
	assert.Equal(t, accepted.ID, task.TargetID)
}

func TestGenerateTimeline_ModelFailure(t *testing.T) {
	e := newEnv(t, newCompleter("", errors.New("connection refused")), nil)
	ctx := context.Background()

	accepted, err := e.timelines.GenerateTimeline(ctx, &models.GenerateTimelineRequest{Title: "Custom"})
	require.NoError(t, err)
	e.runner.Wait()

	tl, err := e.timelines.GetTimeline(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, "Custom", tl.Title)
	assert.Equal(t, models.ArtifactFailed, tl.Status)
	assert.Equal(t, "Error generating timeline: connection refused", tl.Description)
	assert.Empty(t, tl.Events)

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)
	assert.Contains(t, task.Error, "connection refused")
}

func TestGenerateTimeline_PanicMarksFailed(t *testing.T) {
	e := newEnv(t, panickingCompleter{}, nil)
	ctx := context.Background()

	accepted, err := e.timelines.GenerateTimeline(ctx, &models.GenerateTimelineRequest{})
	require.NoError(t, err)
	e.runner.Wait()

	tl, err := e.timelines.GetTimeline(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArtifactFailed, tl.Status)
	assert.Equal(t, "Error generating timeline: model exploded", tl.Description)

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)
	assert.Equal(t, "panic: model exploded", task.Error)
}

func TestGenerateTimeline_InvalidRange(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := e.timelines.GenerateTimeline(context.Background(), &models.GenerateTimelineRequest{
		Range: models.DateRange{Start: &start, End: &end},
	})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestTimelineNotFound(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()

	_, err := e.timelines.GetTimeline(ctx, 99)
	assertStatus(t, err, http.StatusNotFound)
	assertStatus(t, e.timelines.DeleteTimeline(ctx, 99), http.StatusNotFound)
}

func TestAnalyzeEvidence(t *testing.T) {
	reply := `{
		"summary": "Late payment",
		"key_issues": ["timing"],
		"recommended_evidence": [
			{"title": "Invoice email", "description": "Shows terms", "relevance": "High", "source_type": "email", "source_id": 1},
			"bad",
			{"description": "Unlabelled"}
		],
		"evidence_gaps": []
	}`
	e := newEnv(t, newCompleter(reply, nil), nil)
	ctx := context.Background()

	accepted, err := e.evidence.AnalyzeEvidence(ctx)
	require.NoError(t, err)
	assert.Equal(t, "processing", accepted.Status)
	e.runner.Wait()

	items, err := e.evidence.ListEvidence(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskSucceeded, task.Status)

	var out evidenceOutcome
	require.NoError(t, json.Unmarshal(task.Result, &out))
	assert.Equal(t, "Late payment", out.Summary)
	assert.Len(t, out.EvidenceIDs, 2)

	titles := []string{items[0].Title, items[1].Title}
	assert.ElementsMatch(t, []string{"Invoice email", writer.DefaultEvidenceTitle}, titles)
}

func TestAnalyzeEvidence_NonJSONReply(t *testing.T) {
	e := newEnv(t, newCompleter("I cannot comply", nil), nil)
	ctx := context.Background()

	accepted, err := e.evidence.AnalyzeEvidence(ctx)
	require.NoError(t, err)
	e.runner.Wait()

	items, err := e.evidence.ListEvidence(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)
}

func TestResolveSource(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()
	email := seedEmail(t, e.repo, "m1", "Hi", "Body", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	rec, err := e.evidence.ResolveSource(ctx, "EMAIL", email.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceEmail, rec.SourceType)
	assert.Equal(t, email.ID, rec.Data.(*models.Email).ID)

	_, err = e.evidence.ResolveSource(ctx, "fax", 1)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = e.evidence.ResolveSource(ctx, "pdf", 42)
	assertStatus(t, err, http.StatusNotFound)

	_, err = e.evidence.GetEvidence(ctx, 5)
	assertStatus(t, err, http.StatusNotFound)
	assertStatus(t, e.evidence.DeleteEvidence(ctx, 5), http.StatusNotFound)
}

func TestGenerateReport(t *testing.T) {
	reply := `{
		"title": "Legal Report: Acme",
		"executive_summary": "Acme paid late.",
		"recommendations": ["Send notice"]
	}`
	e := newEnv(t, newCompleter(reply, nil), nil)
	ctx := context.Background()

	_, err := e.reports.GenerateReport(ctx, &models.GenerateReportRequest{TimelineID: 404})
	assertStatus(t, err, http.StatusNotFound)

	tl := &models.Timeline{Title: "Dispute", Description: "Overview"}
	require.NoError(t, e.repo.CreateTimeline(ctx, tl))

	accepted, err := e.reports.GenerateReport(ctx, &models.GenerateReportRequest{TimelineID: tl.ID})
	require.NoError(t, err)
	require.NotNil(t, accepted.ID)
	e.runner.Wait()

	report, err := e.reports.GetReport(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, defaultReportTitle, report.Title)
	assert.Equal(t, models.ArtifactPopulated, report.Status)
	assert.True(t, strings.HasPrefix(report.Content, "# Legal Report: Acme\n\n## Executive Summary"))
	assert.Equal(t, &tl.ID, report.TimelineID)

	html, err := e.reports.GetReportHTML(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Legal Report: Acme</h1>")
	assert.Contains(t, html, "<li>Send notice</li>")

	reports, err := e.reports.ListReports(ctx)
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	require.NoError(t, e.reports.DeleteReport(ctx, *accepted.ID))
	_, err = e.reports.GetReport(ctx, *accepted.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestGenerateReport_ModelFailure(t *testing.T) {
	e := newEnv(t, newCompleter("", errors.New("quota exceeded")), nil)
	ctx := context.Background()

	tl := &models.Timeline{Title: "Dispute"}
	require.NoError(t, e.repo.CreateTimeline(ctx, tl))

	accepted, err := e.reports.GenerateReport(ctx, &models.GenerateReportRequest{TimelineID: tl.ID, Title: "Mine"})
	require.NoError(t, err)
	e.runner.Wait()

	report, err := e.reports.GetReport(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", report.Title)
	assert.Equal(t, models.ArtifactFailed, report.Status)
	assert.Contains(t, report.Content, "Error generating report: quota exceeded")
}

func TestGenerateReport_PanicMarksFailed(t *testing.T) {
	e := newEnv(t, panickingCompleter{}, nil)
	ctx := context.Background()

	tl := &models.Timeline{Title: "Dispute"}
	require.NoError(t, e.repo.CreateTimeline(ctx, tl))

	accepted, err := e.reports.GenerateReport(ctx, &models.GenerateReportRequest{TimelineID: tl.ID})
	require.NoError(t, err)
	e.runner.Wait()

	report, err := e.reports.GetReport(ctx, *accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArtifactFailed, report.Status)
	assert.Equal(t, "Error generating report: model exploded", report.Content)

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)
	assert.Equal(t, "panic: model exploded", task.Error)
}

func TestUploadChat(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()
	chat := "[1/2/24, 10:30 AM] Alice: Hello\n[1/3/24, 9:15] Bob: Reply"

	accepted, err := e.uploads.UploadChat(ctx, &models.UploadRequest{File: []byte(chat), Filename: "export.txt"})
	require.NoError(t, err)
	assert.Equal(t, "processing", accepted.Status)
	assert.Regexp(t, `^export_[0-9a-f]{8}\.txt$`, accepted.Filename)
	e.runner.Wait()

	status, err := e.uploads.UploadStatus(ctx, accepted.Filename)
	require.NoError(t, err)
	assert.Equal(t, "completed", status.Status)
	assert.Equal(t, 2, status.Count)

	msgs, err := e.sources.ListChats(ctx, models.ChatFilter{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "chats/"+accepted.Filename, msgs[0].FilePath)
}

func TestUploadValidation(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()

	_, err := e.uploads.UploadChat(ctx, &models.UploadRequest{File: []byte("hi"), Filename: "chat.pdf"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = e.uploads.UploadChat(ctx, &models.UploadRequest{File: nil, Filename: "chat.txt"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = e.uploads.UploadChat(ctx, &models.UploadRequest{File: []byte{0xff, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, Filename: "chat.txt"})
	assertStatus(t, err, http.StatusBadRequest)

	_, err = e.uploads.UploadPDF(ctx, &models.UploadRequest{File: []byte("%PDF"), Filename: "invoice.txt"})
	assertStatus(t, err, http.StatusBadRequest)

	status, err := e.uploads.UploadStatus(ctx, "unknown.txt")
	require.NoError(t, err)
	assert.Equal(t, "processing", status.Status)
}

func TestUploadPDF_Unreadable(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()

	accepted, err := e.uploads.UploadPDF(ctx, &models.UploadRequest{File: []byte("not a pdf"), Filename: "invoice.pdf"})
	require.NoError(t, err)
	e.runner.Wait()

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)

	status, err := e.uploads.UploadStatus(ctx, accepted.Filename)
	require.NoError(t, err)
	assert.Equal(t, "processing", status.Status)
}

// emptyStorage accepts writes but never has anything to read back.
type emptyStorage struct{}

func (emptyStorage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	return nil
}
func (emptyStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, storage.ErrNotFound
}
func (emptyStorage) Delete(ctx context.Context, key string) error { return nil }

type rejectingRunner struct{}

func (rejectingRunner) Submit(ctx context.Context, kind string, targetID *int64, fn tasks.Func) (*models.Task, error) {
	return nil, errors.New("runner closed")
}

func newUploadService(e *env, store storage.Storage, runner TaskRunner) UploadService {
	logger := utils.NopLogger()
	chats := ingest.NewChatIngestor(extractor.NewChatParser(logger), e.repo, logger)
	return NewUploadService(e.repo, store, chats, ingest.NewPDFIngestor(e.repo, logger), runner, logger)
}

func TestUploadChat_MissingStoredObject(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()
	uploads := newUploadService(e, emptyStorage{}, e.runner)

	accepted, err := uploads.UploadChat(ctx, &models.UploadRequest{File: []byte("[1/2/24, 10:30 AM] Alice: Hello"), Filename: "export.txt"})
	require.NoError(t, err)
	e.runner.Wait()

	task, err := e.tasks.GetTask(ctx, accepted.TaskID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)
	assert.Contains(t, task.Error, "object not found")

	msgs, err := e.sources.ListChats(ctx, models.ChatFilter{})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestUpload_ScheduleFailureRemovesObject(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := storage.NewLocalStorage(root)
	require.NoError(t, err)
	uploads := newUploadService(e, store, rejectingRunner{})

	_, err = uploads.UploadChat(ctx, &models.UploadRequest{File: []byte("[1/2/24, 10:30 AM] Alice: Hello"), Filename: "export.txt"})
	assertStatus(t, err, http.StatusInternalServerError)
	_, err = uploads.UploadPDF(ctx, &models.UploadRequest{File: []byte("%PDF-1.4"), Filename: "invoice.pdf"})
	assertStatus(t, err, http.StatusInternalServerError)

	left, err := filepath.Glob(filepath.Join(root, "*", "*"))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestFetchEmails(t *testing.T) {
	provider := &fakeProvider{messages: []mailbox.RawMessage{
		fakeMessage{id: "a1", headers: map[string]string{
			"From": "alice@example.com", "To": "bob@example.com", "Subject": "Invoice",
			"Date": "Mon, 01 Jan 2024 10:00:00 +0000",
		}, body: "Please pay"},
	}}
	e := newEnv(t, newCompleter("{}", nil), provider)
	ctx := context.Background()

	_, err := e.emails.FetchEmails(ctx, &models.FetchEmailsRequest{Addresses: []string{" "}})
	assertStatus(t, err, http.StatusBadRequest)

	for i := 0; i < 2; i++ {
		_, err := e.emails.FetchEmails(ctx, &models.FetchEmailsRequest{Addresses: []string{"alice@example.com"}})
		require.NoError(t, err)
		e.runner.Wait()
	}

	n, err := e.emails.CountEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	emails, err := e.emails.ListEmails(ctx, models.EmailFilter{Sender: "alice"})
	require.NoError(t, err)
	require.Len(t, emails, 1)

	got, err := e.emails.GetEmail(ctx, emails[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Please pay", got.Body)

	_, err = e.emails.GetEmail(ctx, 999)
	assertStatus(t, err, http.StatusNotFound)
}

func TestSearch(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	ctx := context.Background()

	seedEmail(t, e.repo, "m1", "Invoice overdue", "Pay now", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	seedEmail(t, e.repo, "m2", "Lunch", "Tacos", time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, e.repo.CreateChatMessages(ctx, []models.ChatMessage{
		{DateTime: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Sender: "Bob", Message: "Where is the invoice?", FilePath: "chats/a.txt"},
	}))
	_, _, err := e.repo.SavePDF(ctx, &models.PDFDocument{FileName: "invoice.pdf", ExtractedText: "Total due", FilePath: "pdfs/invoice.pdf"})
	require.NoError(t, err)

	_, err = e.sources.Search(ctx, &models.SearchRequest{})
	assertStatus(t, err, http.StatusBadRequest)

	results, err := e.sources.Search(ctx, &models.SearchRequest{Query: "invoice"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, models.SourceChat, results[0].Type)
	assert.Equal(t, "Chat message from Bob", results[0].Title)
	assert.Equal(t, "WhatsApp: a.txt", results[0].Source)
	assert.Equal(t, models.SourceEmail, results[1].Type)
	assert.Equal(t, models.SourcePDF, results[2].Type)
	assert.Nil(t, results[2].Date)

	emailsOnly, err := e.sources.Search(ctx, &models.SearchRequest{Query: "invoice", SourceType: models.SourceEmail})
	require.NoError(t, err)
	require.Len(t, emailsOnly, 1)

	paged, err := e.sources.Search(ctx, &models.SearchRequest{Query: "invoice", Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, models.SourceEmail, paged[0].Type)

	empty, err := e.sources.Search(ctx, &models.SearchRequest{Query: "invoice", Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetTask_NotFound(t *testing.T) {
	e := newEnv(t, newCompleter("{}", nil), nil)
	_, err := e.tasks.GetTask(context.Background(), "nope")
	assertStatus(t, err, http.StatusNotFound)
}
