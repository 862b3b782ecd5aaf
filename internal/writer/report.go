package writer

import (
	"strings"

	"github.com/robertobuso/legal-evidence-organizer/internal/analyzer"
)

func or(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// RenderReport lays the report out as markdown in a fixed section order.
// Sections missing from r are left out.
func RenderReport(r *analyzer.ReportResult) string {
	var b strings.Builder

	section := func(heading string, body *string) {
		if body != nil {
			b.WriteString("## " + heading + "\n\n" + *body + "\n\n")
		}
	}

	if r.Title != nil {
		b.WriteString("# " + *r.Title + "\n\n")
	}
	section("Executive Summary", r.ExecutiveSummary)
	section("Background and Context", r.Background)

	if r.Timeline != nil {
		b.WriteString("## Timeline of Key Events\n\n")
		for _, e := range r.Timeline {
			b.WriteString("### " + or(e.Date, "Unknown date") + ": " + or(e.Event, "Untitled event") + "\n\n")
			b.WriteString(or(e.Significance, "") + "\n\n")
		}
	}

	if r.KeyIssues != nil {
		b.WriteString("## Analysis of Key Issues\n\n")
		for _, issue := range r.KeyIssues {
			b.WriteString("### " + or(issue.Issue, "Untitled issue") + "\n\n")
			b.WriteString(or(issue.Analysis, "") + "\n\n")
			if issue.SupportingEvidence != nil {
				b.WriteString("**Supporting Evidence:**\n\n")
				for _, id := range issue.SupportingEvidence {
					b.WriteString("- Evidence ID: " + id + "\n")
				}
				b.WriteString("\n")
			}
		}
	}

	section("Evaluation of Evidence", r.EvidenceEvaluation)
	section("Legal Implications", r.LegalImplications)

	if r.Recommendations != nil {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			b.WriteString("- " + rec + "\n")
		}
		b.WriteString("\n")
	}

	section("Conclusion", r.Conclusion)

	if r.Appendix != nil {
		b.WriteString("## Appendix: Recommended Evidence Details\n\n")
		for _, d := range r.Appendix {
			b.WriteString("### Evidence " + or(d.ID, "Unknown") + " (" + or(d.Type, "Unknown") + ")\n\n")
			b.WriteString("**Description:** " + or(d.Description, "") + "\n\n")
			b.WriteString("**Relevance:** " + or(d.Relevance, "") + "\n\n")
		}
	}

	return b.String()
}
