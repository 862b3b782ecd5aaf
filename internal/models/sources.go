package models

import (
	"strconv"
	"strings"
	"time"
)

type SourceType string

const (
	SourceEmail   SourceType = "email"
	SourceChat    SourceType = "chat"
	SourcePDF     SourceType = "pdf"
	SourceUnknown SourceType = "unknown"
)

// ParseSourceType maps a user-supplied string to a known source type.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(strings.ToLower(strings.TrimSpace(s))) {
	case SourceEmail:
		return SourceEmail, true
	case SourceChat:
		return SourceChat, true
	case SourcePDF:
		return SourcePDF, true
	}
	return SourceUnknown, false
}

// SourceRef points at a row in one of the source tables. It is not a foreign
// key: the row may have been deleted, so lookups through it may not resolve.
type SourceRef struct {
	Type SourceType `json:"source_type"`
	ID   int64      `json:"source_id"`
}

func (r SourceRef) String() string {
	return string(r.Type) + ":" + strconv.FormatInt(r.ID, 10)
}

// ParseSourceRef parses "type:id". The string is split on the first colon;
// without a colon the result is unknown:0, and a non-integer id becomes 0.
func ParseSourceRef(s string) SourceRef {
	kind, id, ok := strings.Cut(s, ":")
	if !ok {
		return SourceRef{Type: SourceUnknown}
	}

	ref := SourceRef{Type: SourceType(strings.TrimSpace(kind))}
	if ref.Type == "" {
		ref.Type = SourceUnknown
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
		ref.ID = n
	}
	return ref
}

type Email struct {
	ID         int64      `json:"id" db:"id"`
	Sender     string     `json:"sender" db:"sender"`
	Recipients string     `json:"recipients" db:"recipients"`
	Subject    string     `json:"subject" db:"subject"`
	Date       *time.Time `json:"date" db:"date"`
	Body       string     `json:"body" db:"body"`
	EmailID    string     `json:"email_id" db:"email_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

type ChatMessage struct {
	ID        int64     `json:"id" db:"id"`
	DateTime  time.Time `json:"date_time" db:"date_time"`
	Sender    string    `json:"sender" db:"sender"`
	Message   string    `json:"message" db:"message"`
	FilePath  string    `json:"file_path" db:"file_path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type PDFDocument struct {
	ID            int64     `json:"id" db:"id"`
	FileName      string    `json:"file_name" db:"file_name"`
	ExtractedText string    `json:"extracted_text" db:"extracted_text"`
	FilePath      string    `json:"file_path" db:"file_path"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// DateRange bounds a query. Either end may be nil; both ends are inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

type EmailFilter struct {
	Sender    string
	Recipient string
	Subject   string
	Text      string // subject or body
	Person    string // sender or recipients
	Range     DateRange
	Offset    int
	Limit     int
}

type ChatFilter struct {
	Sender   string
	Content  string
	FilePath string
	Range    DateRange
}

type PDFFilter struct {
	FileName string
	Content  string
	Text     string // file name or extracted text
	FilePath string
}
