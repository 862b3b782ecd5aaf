package models

// Accepted is returned by every endpoint that schedules background work.
type Accepted struct {
	ID       *int64 `json:"id,omitempty"`
	Filename string `json:"filename,omitempty"`
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

type UploadRequest struct {
	File     []byte
	Filename string
}

type FetchEmailsRequest struct {
	Addresses []string
	Range     DateRange
}

type GenerateTimelineRequest struct {
	Title string
	Range DateRange
}

type GenerateReportRequest struct {
	TimelineID int64
	Title      string
}

type SearchRequest struct {
	Query      string
	SourceType SourceType // empty means all
	Range      DateRange
	Person     string
	Skip       int
	Limit      int
}

type UploadStatus struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Count    int    `json:"count,omitempty"`
}

// SourceRecord is the resolved target of a SourceRef.
type SourceRecord struct {
	SourceType SourceType `json:"source_type"`
	SourceID   int64      `json:"source_id"`
	Data       any        `json:"data"`
}
