package extractor

import (
	"regexp"
	"strings"
	"time"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

var (
	// [date, time] sender:
	chatHeader = regexp.MustCompile(`\[(\d{1,2}/\d{1,2}/\d{2,4}),\s*(\d{1,2}:\d{1,2}(?::\d{1,2})?\s*(?:AM|PM)?)\]\s*([^:\n]+):\s*`)
	// A message body runs until the next line that opens with a date.
	chatMarker = regexp.MustCompile(`\n\[\d{1,2}/\d{1,2}/\d{2,4}`)
)

// ChatParser turns exported chat logs into messages.
type ChatParser struct {
	logger *utils.Logger
	now    func() time.Time
}

func NewChatParser(logger *utils.Logger) *ChatParser {
	return &ChatParser{logger: logger, now: time.Now}
}

// WithClock replaces the clock used for unparseable timestamps.
func (p *ChatParser) WithClock(now func() time.Time) *ChatParser {
	return &ChatParser{logger: p.logger, now: now}
}

// Parse extracts messages in file order. Messages whose sender or body is
// blank after trimming are dropped. A timestamp that matches none of the
// known layouts is replaced with the current time and logged.
func (p *ChatParser) Parse(text, filePath string) []models.ChatMessage {
	var markers []int
	for _, loc := range chatMarker.FindAllStringIndex(text, -1) {
		markers = append(markers, loc[0])
	}

	messages := []models.ChatMessage{}
	pos := 0
	for pos < len(text) {
		m := chatHeader.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		for i := range m {
			if m[i] >= 0 {
				m[i] += pos
			}
		}

		// Search from the end of the sender so an empty message does not
		// swallow the next header.
		bodyStart, bodyEnd := m[1], len(text)
		for _, mk := range markers {
			if mk >= m[7] {
				bodyEnd = mk
				break
			}
		}
		bodyStart = min(bodyStart, bodyEnd)
		pos = bodyEnd

		dateStr := text[m[2]:m[3]]
		clockStr := text[m[4]:m[5]]
		sender := strings.TrimSpace(text[m[6]:m[7]])
		body := strings.TrimSpace(text[bodyStart:bodyEnd])
		if sender == "" || body == "" {
			continue
		}

		ts, ok := ParseChatTimestamp(dateStr, clockStr)
		if !ok {
			ts = p.now().UTC()
			p.logger.Warn("could not parse chat timestamp, using current time",
				"date", dateStr, "time", clockStr, "file_path", filePath)
		}

		messages = append(messages, models.ChatMessage{
			DateTime: ts,
			Sender:   sender,
			Message:  body,
			FilePath: filePath,
		})
	}

	return messages
}

// ParseChatTimestamp tries month-first then day-first dates, first with
// minute then with second precision. The first layout that parses wins.
func ParseChatTimestamp(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	clock = strings.ToUpper(strings.TrimSpace(clock))

	year := "06"
	if i := strings.LastIndex(date, "/"); i >= 0 && len(date)-i-1 == 4 {
		year = "2006"
	}

	minutes, seconds := "15:04", "15:04:05"
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(clock, suffix) {
			clock = strings.TrimSpace(strings.TrimSuffix(clock, suffix)) + " " + suffix
			minutes, seconds = "3:04 PM", "3:04:05 PM"
			break
		}
	}

	value := date + " " + clock
	for _, layout := range []string{
		"1/2/" + year + " " + minutes,
		"2/1/" + year + " " + minutes,
		"1/2/" + year + " " + seconds,
		"2/1/" + year + " " + seconds,
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
