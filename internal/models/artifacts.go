package models

import "time"

// ArtifactStatus is the lifecycle of a Timeline or Report row.
type ArtifactStatus string

const (
	ArtifactCreated   ArtifactStatus = "created"
	ArtifactPopulated ArtifactStatus = "populated"
	ArtifactFailed    ArtifactStatus = "failed"
)

type Timeline struct {
	ID          int64          `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Status      ArtifactStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`

	Events []TimelineEvent `json:"events,omitempty" db:"-"`
}

type TimelineEvent struct {
	ID          int64      `json:"id" db:"id"`
	TimelineID  int64      `json:"timeline_id" db:"timeline_id"`
	Date        *time.Time `json:"date" db:"date"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	SourceType  SourceType `json:"source_type" db:"source_type"`
	SourceID    int64      `json:"source_id" db:"source_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (e TimelineEvent) Ref() SourceRef {
	return SourceRef{Type: e.SourceType, ID: e.SourceID}
}

type Evidence struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Relevance   string     `json:"relevance" db:"relevance"`
	SourceType  SourceType `json:"source_type" db:"source_type"`
	SourceID    int64      `json:"source_id" db:"source_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (e Evidence) Ref() SourceRef {
	return SourceRef{Type: e.SourceType, ID: e.SourceID}
}

type Report struct {
	ID         int64          `json:"id" db:"id"`
	Title      string         `json:"title" db:"title"`
	Content    string         `json:"content,omitempty" db:"content"`
	Status     ArtifactStatus `json:"status" db:"status"`
	TimelineID *int64         `json:"timeline_id" db:"timeline_id"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}
