package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

func ptr(t time.Time) *time.Time { return &t }

func TestBuildQuery(t *testing.T) {
	r := models.DateRange{
		Start: ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		End:   ptr(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)),
	}

	got := BuildQuery([]string{"a@x.com", " ", "b@y.com"}, r)

	assert.Equal(t,
		"(from:a@x.com OR to:a@x.com OR cc:a@x.com OR bcc:a@x.com OR from:b@y.com OR to:b@y.com OR cc:b@y.com OR bcc:b@y.com) after:2024/01/01 before:2024/02/01",
		got)
	assert.Equal(t, "(from:a OR to:a OR cc:a OR bcc:a)", BuildQuery([]string{"a"}, models.DateRange{}))
}

type fakeMessage struct {
	id      string
	headers map[string]string
	body    string
}

func (f fakeMessage) ID() string { return f.id }
func (f fakeMessage) Header(name string) string {
	for k, v := range f.headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
func (f fakeMessage) Body() string { return f.body }

func TestParseMessage(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	e := ParseMessage(fakeMessage{
		id: "m1",
		headers: map[string]string{
			"from":    "Alice <alice@example.com>",
			"TO":      "bob@example.com",
			"Subject": "Invoice",
			"Date":    "Tue, 2 Jan 2024 10:30:00 +0200",
		},
		body: "Please pay",
	}, clock)

	assert.Equal(t, "m1", e.EmailID)
	assert.Equal(t, "Alice <alice@example.com>", e.Sender)
	assert.Equal(t, "bob@example.com", e.Recipients)
	assert.Equal(t, "Invoice", e.Subject)
	assert.Equal(t, "Please pay", e.Body)
	require.NotNil(t, e.Date)
	assert.Equal(t, time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC), *e.Date)

	bad := ParseMessage(fakeMessage{id: "m2", headers: map[string]string{"Date": "yesterday"}}, clock)
	require.NotNil(t, bad.Date)
	assert.Equal(t, now, *bad.Date)

	missing := ParseMessage(fakeMessage{id: "m3"}, clock)
	assert.Nil(t, missing.Date)
}

func enc(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestGmailProvider_SearchMessages(t *testing.T) {
	var queries []string
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			json.NewEncoder(w).Encode(gmail.ListMessagesResponse{
				Messages:      []*gmail.Message{{Id: "m1"}},
				NextPageToken: "page2",
			})
			return
		}
		json.NewEncoder(w).Encode(gmail.ListMessagesResponse{Messages: []*gmail.Message{{Id: "m2"}}})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/gmail/v1/users/me/messages/")
		msg := &gmail.Message{Id: id, Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{{Name: "Subject", Value: "subject " + id}},
		}}
		if id == "m1" {
			msg.Payload.Parts = []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: enc("<p>html</p>")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: enc("plain body")}},
			}
		} else {
			msg.Payload.Body = &gmail.MessagePartBody{Data: base64.RawURLEncoding.EncodeToString([]byte("single part"))}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(msg)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	p := NewGmailProviderWithService(svc, utils.NopLogger())
	msgs, err := p.SearchMessages(ctx, []string{"a@x.com"}, models.DateRange{})
	require.NoError(t, err)

	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID())
	assert.Equal(t, "plain body", msgs[0].Body())
	assert.Equal(t, "subject m1", msgs[0].Header("subject"))
	assert.Equal(t, "single part", msgs[1].Body())
	require.Len(t, queries, 2)
	assert.Equal(t, "(from:a@x.com OR to:a@x.com OR cc:a@x.com OR bcc:a@x.com)", queries[0])
}
