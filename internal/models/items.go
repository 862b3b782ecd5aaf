package models

import "time"

// RawItem is the common projection of an ingested record used by aggregation
// and handed to the timeline model.
type RawItem struct {
	Date       *time.Time `json:"date"`
	SourceType SourceType `json:"source_type"`
	SourceID   int64      `json:"source_id"`
	Sender     string     `json:"sender,omitempty"`
	Recipients string     `json:"recipients,omitempty"`
	Subject    string     `json:"subject,omitempty"`
	FileName   string     `json:"file_name,omitempty"`
	Content    string     `json:"content"`
}

func (i RawItem) Ref() SourceRef {
	return SourceRef{Type: i.SourceType, ID: i.SourceID}
}

// Corpus is the full evidence set handed to evidence analysis.
type Corpus struct {
	Emails []Email
	Chats  []ChatMessage
	PDFs   []PDFDocument
}

// SearchResult is one hit of a cross-source search.
type SearchResult struct {
	ID      int64      `json:"id"`
	Type    SourceType `json:"type"`
	Date    *time.Time `json:"date"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
	Source  string     `json:"source"`
}
