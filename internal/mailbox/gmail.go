package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/robertobuso/legal-evidence-organizer/internal/models"
	"github.com/robertobuso/legal-evidence-organizer/internal/utils"
)

const gmailUser = "me"

// Gmail allows roughly 250 quota units per second per user; messages.get
// costs 5, so stay well under.
const (
	gmailRequestsPerSecond = 2.0
	gmailBurst             = 5
)

// GmailProvider searches a Gmail mailbox with a pre-authorized token.
type GmailProvider struct {
	svc     *gmail.Service
	limiter *rate.Limiter
	logger  *utils.Logger
}

// NewGmailProvider builds a provider from an OAuth client credentials file
// and a stored token JSON file. The consent flow that produces the token is
// not handled here.
func NewGmailProvider(ctx context.Context, credentialsFile, tokenFile string, logger *utils.Logger) (*GmailProvider, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}

	conf, err := google.ConfigFromJSON(creds, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}

	raw, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("parse gmail token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, &tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return NewGmailProviderWithService(svc, logger), nil
}

func NewGmailProviderWithService(svc *gmail.Service, logger *utils.Logger) *GmailProvider {
	return &GmailProvider{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(gmailRequestsPerSecond), gmailBurst),
		logger:  logger,
	}
}

// SearchMessages lists every page of matching message ids and fetches each
// message in full.
func (p *GmailProvider) SearchMessages(ctx context.Context, addresses []string, r models.DateRange) ([]RawMessage, error) {
	query := BuildQuery(addresses, r)
	p.logger.Info("gmail query", "q", query)

	var ids []string
	pageToken := ""
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := p.svc.Users.Messages.List(gmailUser).Q(query).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	messages := make([]RawMessage, 0, len(ids))
	for _, id := range ids {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		msg, err := p.svc.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		messages = append(messages, gmailMessage{msg: msg})
	}

	return messages, nil
}

type gmailMessage struct {
	msg *gmail.Message
}

func (m gmailMessage) ID() string {
	return m.msg.Id
}

func (m gmailMessage) Header(name string) string {
	if m.msg.Payload == nil {
		return ""
	}
	for _, h := range m.msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func (m gmailMessage) Body() string {
	if m.msg.Payload == nil {
		return ""
	}
	if len(m.msg.Payload.Parts) > 0 {
		if data := findPlainText(m.msg.Payload.Parts); data != "" {
			return decodeBody(data)
		}
		return ""
	}
	if m.msg.Payload.Body != nil {
		return decodeBody(m.msg.Payload.Body.Data)
	}
	return ""
}

// findPlainText walks nested multipart payloads for the first text/plain
// part carrying data.
func findPlainText(parts []*gmail.MessagePart) string {
	for _, part := range parts {
		if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
			return part.Body.Data
		}
	}
	for _, part := range parts {
		if data := findPlainText(part.Parts); data != "" {
			return data
		}
	}
	return ""
}

func decodeBody(data string) string {
	if data == "" {
		return ""
	}
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return ""
		}
	}
	return string(b)
}
