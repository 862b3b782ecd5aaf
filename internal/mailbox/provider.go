// Package mailbox fetches email from a mail provider and normalizes it into
// Email records.
package mailbox

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
)

// RawMessage is one message as returned by a provider.
type RawMessage interface {
	// ID is the provider-assigned message id, used as the dedup key.
	ID() string
	// Header returns the first header with the given name, matched
	// case-insensitively, or "".
	Header(name string) string
	// Body returns the decoded body, preferring the text/plain part.
	Body() string
}

// Provider searches a mailbox.
type Provider interface {
	SearchMessages(ctx context.Context, addresses []string, r models.DateRange) ([]RawMessage, error)
}

// BuildQuery renders a search query matching any of addresses as sender or
// recipient, bounded by r. The upper bound is inclusive of its day.
func BuildQuery(addresses []string, r models.DateRange) string {
	var terms []string
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		for _, field := range []string{"from", "to", "cc", "bcc"} {
			terms = append(terms, field+":"+addr)
		}
	}

	var parts []string
	if len(terms) > 0 {
		parts = append(parts, "("+strings.Join(terms, " OR ")+")")
	}
	if r.Start != nil {
		parts = append(parts, "after:"+r.Start.UTC().Format("2006/01/02"))
	}
	if r.End != nil {
		y, m, d := r.End.UTC().Date()
		parts = append(parts, "before:"+time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC).Format("2006/01/02"))
	}

	return strings.Join(parts, " ")
}

// ParseMessage maps a raw message to an Email. An unparseable Date header
// falls back to now; a missing one leaves Date nil.
func ParseMessage(msg RawMessage, now func() time.Time) models.Email {
	e := models.Email{
		EmailID:    msg.ID(),
		Sender:     msg.Header("From"),
		Recipients: msg.Header("To"),
		Subject:    msg.Header("Subject"),
		Body:       msg.Body(),
	}

	if raw := msg.Header("Date"); raw != "" {
		date, err := mail.ParseDate(raw)
		if err != nil {
			date = now()
		}
		date = date.UTC()
		e.Date = &date
	}

	return e
}
