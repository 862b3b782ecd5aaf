package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

type EmailStore interface {
	// SaveEmail inserts e unless a row with the same EmailID exists, in which
	// case the stored row is returned untouched and created is false.
	SaveEmail(ctx context.Context, e *models.Email) (stored *models.Email, created bool, err error)
	GetEmail(ctx context.Context, id int64) (*models.Email, error)
	ListEmails(ctx context.Context, f models.EmailFilter) ([]models.Email, error)
	CountEmails(ctx context.Context) (int, error)
}

type ChatStore interface {
	CreateChatMessages(ctx context.Context, msgs []models.ChatMessage) error
	GetChatMessage(ctx context.Context, id int64) (*models.ChatMessage, error)
	ListChatMessages(ctx context.Context, f models.ChatFilter) ([]models.ChatMessage, error)
	CountChatMessagesByPath(ctx context.Context, filePath string) (int, error)
}

type PDFStore interface {
	// SavePDF inserts doc unless a row with the same FilePath exists.
	SavePDF(ctx context.Context, doc *models.PDFDocument) (stored *models.PDFDocument, created bool, err error)
	GetPDF(ctx context.Context, id int64) (*models.PDFDocument, error)
	GetPDFByPath(ctx context.Context, filePath string) (*models.PDFDocument, error)
	ListPDFs(ctx context.Context, f models.PDFFilter) ([]models.PDFDocument, error)
}

type TimelineStore interface {
	CreateTimeline(ctx context.Context, t *models.Timeline) error
	GetTimeline(ctx context.Context, id int64) (*models.Timeline, error)
	ListTimelines(ctx context.Context) ([]models.Timeline, error)
	// PopulateTimeline replaces the events of a timeline and sets its
	// description and status in one transaction.
	PopulateTimeline(ctx context.Context, id int64, description string, status models.ArtifactStatus, events []models.TimelineEvent) error
	UpdateTimeline(ctx context.Context, id int64, description string, status models.ArtifactStatus) error
	ListTimelineEvents(ctx context.Context, timelineID int64) ([]models.TimelineEvent, error)
	DeleteTimeline(ctx context.Context, id int64) (bool, error)
}

type EvidenceStore interface {
	CreateEvidence(ctx context.Context, items []models.Evidence) error
	GetEvidence(ctx context.Context, id int64) (*models.Evidence, error)
	ListEvidence(ctx context.Context) ([]models.Evidence, error)
	DeleteEvidence(ctx context.Context, id int64) (bool, error)
}

type ReportStore interface {
	CreateReport(ctx context.Context, r *models.Report) error
	GetReport(ctx context.Context, id int64) (*models.Report, error)
	ListReports(ctx context.Context) ([]models.Report, error)
	UpdateReport(ctx context.Context, id int64, content string, status models.ArtifactStatus) error
	DeleteReport(ctx context.Context, id int64) (bool, error)
}

type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	FinishTask(ctx context.Context, id string, status models.TaskStatus, result []byte, errMsg string) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
}

// Repository is the evidence store. Get methods return (nil, nil) when the
// row does not exist.
type Repository interface {
	EmailStore
	ChatStore
	PDFStore
	TimelineStore
	EvidenceStore
	ReportStore
	TaskStore
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// now is the store's clock. Timestamps are kept in UTC so that text
// comparison in SQLite matches chronological order.
func now() time.Time {
	return time.Now().UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// where accumulates AND-ed conditions for list queries.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// contains adds a case-insensitive substring match on any of cols.
func (w *where) contains(value string, cols ...string) {
	if value == "" {
		return
	}
	pattern := "%" + escapeLike(value) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = c + ` LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	w.add("("+strings.Join(parts, " OR ")+")", args...)
}

func (w *where) between(col string, r models.DateRange) {
	if r.Start != nil {
		w.add(col+" >= ?", r.Start.UTC())
	}
	if r.End != nil {
		w.add(col+" <= ?", r.End.UTC())
	}
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
