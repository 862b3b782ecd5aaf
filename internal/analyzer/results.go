package analyzer

import "encoding/json"

const (
	DefaultTimelineTitle = "Timeline of Contract Dispute"
	DefaultReportTitle   = "Legal Report"

	parseFailedMessage = "Error parsing structured data"
)

// TimelineResult is the parsed timeline reply. Events are left raw so a bad
// element cannot spoil the others.
type TimelineResult struct {
	Title       string            `json:"title"`
	Overview    *string           `json:"overview,omitempty"`
	Events      []json.RawMessage `json:"events"`
	RawResponse string            `json:"raw_response,omitempty"`
	// Error is set when the model could not be reached.
	Error string `json:"error,omitempty"`
}

// Degraded reports whether the reply could not be used as structured data.
func (r *TimelineResult) Degraded() bool {
	return r.Error != "" || r.RawResponse != ""
}

type EvidenceResult struct {
	Summary             string            `json:"summary"`
	KeyIssues           []json.RawMessage `json:"key_issues"`
	RecommendedEvidence []json.RawMessage `json:"recommended_evidence"`
	EvidenceGaps        []json.RawMessage `json:"evidence_gaps"`
	RawResponse         string            `json:"raw_response,omitempty"`
	Error               string            `json:"error,omitempty"`
}

func (r *EvidenceResult) Degraded() bool {
	return r.Error != "" || r.RawResponse != ""
}

// ReportResult is the parsed report reply. Nil pointers and nil slices mark
// sections the model left out.
type ReportResult struct {
	Title              *string                `json:"title,omitempty"`
	ExecutiveSummary   *string                `json:"executive_summary,omitempty"`
	Background         *string                `json:"background,omitempty"`
	Timeline           []ReportTimelineEntry  `json:"timeline,omitempty"`
	KeyIssues          []ReportIssue          `json:"key_issues,omitempty"`
	EvidenceEvaluation *string                `json:"evidence_evaluation,omitempty"`
	LegalImplications  *string                `json:"legal_implications,omitempty"`
	Recommendations    []string               `json:"recommendations,omitempty"`
	Conclusion         *string                `json:"conclusion,omitempty"`
	Appendix           []ReportEvidenceDetail `json:"appendix,omitempty"`
	RawResponse        string                 `json:"raw_response,omitempty"`
	Error              string                 `json:"error,omitempty"`
}

func (r *ReportResult) Degraded() bool {
	return r.Error != "" || r.RawResponse != ""
}

type ReportTimelineEntry struct {
	Date         *string `json:"date,omitempty"`
	Event        *string `json:"event,omitempty"`
	Significance *string `json:"significance,omitempty"`
}

type ReportIssue struct {
	Issue              *string  `json:"issue,omitempty"`
	Analysis           *string  `json:"analysis,omitempty"`
	SupportingEvidence []string `json:"supporting_evidence,omitempty"`
}

type ReportEvidenceDetail struct {
	ID          *string `json:"id,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Relevance   *string `json:"relevance,omitempty"`
}

func strPtr(s string) *string {
	return &s
}

func timelineFromObject(obj map[string]json.RawMessage) *TimelineResult {
	r := &TimelineResult{
		Title:  fieldString(obj, "title", DefaultTimelineTitle),
		Events: list(obj, "events"),
	}
	r.Overview, _ = field(obj, "overview")
	if r.Events == nil {
		r.Events = []json.RawMessage{}
	}
	return r
}

func evidenceFromObject(obj map[string]json.RawMessage) *EvidenceResult {
	r := &EvidenceResult{
		Summary:             fieldString(obj, "summary", ""),
		KeyIssues:           list(obj, "key_issues"),
		RecommendedEvidence: list(obj, "recommended_evidence"),
		EvidenceGaps:        list(obj, "evidence_gaps"),
	}
	if r.KeyIssues == nil {
		r.KeyIssues = []json.RawMessage{}
	}
	if r.RecommendedEvidence == nil {
		r.RecommendedEvidence = []json.RawMessage{}
	}
	if r.EvidenceGaps == nil {
		r.EvidenceGaps = []json.RawMessage{}
	}
	return r
}

// reportFromObject keeps the presence of every section. List elements that
// are not objects (or strings, for recommendations) are dropped.
func reportFromObject(obj map[string]json.RawMessage) *ReportResult {
	r := &ReportResult{}
	r.Title, _ = field(obj, "title")
	r.ExecutiveSummary, _ = field(obj, "executive_summary")
	r.Background, _ = field(obj, "background")
	r.EvidenceEvaluation, _ = field(obj, "evidence_evaluation")
	r.LegalImplications, _ = field(obj, "legal_implications")
	r.Conclusion, _ = field(obj, "conclusion")

	if items := list(obj, "timeline"); items != nil {
		r.Timeline = []ReportTimelineEntry{}
		for _, raw := range items {
			var m map[string]json.RawMessage
			if json.Unmarshal(raw, &m) != nil || m == nil {
				continue
			}
			var e ReportTimelineEntry
			e.Date, _ = field(m, "date")
			e.Event, _ = field(m, "event")
			e.Significance, _ = field(m, "significance")
			r.Timeline = append(r.Timeline, e)
		}
	}

	if items := list(obj, "key_issues"); items != nil {
		r.KeyIssues = []ReportIssue{}
		for _, raw := range items {
			var m map[string]json.RawMessage
			if json.Unmarshal(raw, &m) != nil || m == nil {
				continue
			}
			var issue ReportIssue
			issue.Issue, _ = field(m, "issue")
			issue.Analysis, _ = field(m, "analysis")
			if refs := list(m, "supporting_evidence"); refs != nil {
				issue.SupportingEvidence = textList(refs)
			}
			r.KeyIssues = append(r.KeyIssues, issue)
		}
	}

	if items := list(obj, "recommendations"); items != nil {
		r.Recommendations = textList(items)
	}

	if raw, ok := obj["appendix"]; ok {
		var appendix map[string]json.RawMessage
		if json.Unmarshal(raw, &appendix) == nil && appendix != nil {
			if items := list(appendix, "recommended_evidence_details"); items != nil {
				r.Appendix = []ReportEvidenceDetail{}
				for _, item := range items {
					var m map[string]json.RawMessage
					if json.Unmarshal(item, &m) != nil || m == nil {
						continue
					}
					var d ReportEvidenceDetail
					d.ID, _ = field(m, "id")
					d.Type, _ = field(m, "type")
					d.Description, _ = field(m, "description")
					d.Relevance, _ = field(m, "relevance")
					r.Appendix = append(r.Appendix, d)
				}
			}
		}
	}

	return r
}

func textList(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, raw := range items {
		var t Text
		if json.Unmarshal(raw, &t) != nil {
			continue
		}
		out = append(out, string(t))
	}
	return out
}
