package gmail

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"

	"github.com/mikey/email-insights/internal/utils"
)

var angleBracketPattern = regexp.MustCompile(`<([^>]+)>`)

// Date header formats seen in the wild, tried in order
var dateFormats = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC1123,
	time.RFC822,
}

// Message adapts a Gmail API message to the core EmailMessage interface
type Message struct {
	msg     *gmail.Message
	headers map[string]string
	text    *utils.TextProcessor
}

func newMessage(msg *gmail.Message, text *utils.TextProcessor) *Message {
	headers := make(map[string]string)
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			headers[h.Name] = h.Value
		}
	}
	return &Message{msg: msg, headers: headers, text: text}
}

// ID returns the Gmail message identifier
func (m *Message) ID() string {
	return m.msg.Id
}

// Sender extracts the sender address from the From header, unwrapping the
// "Name <email@domain.com>" form when present
func (m *Message) Sender() string {
	from := m.headers["From"]
	if match := angleBracketPattern.FindStringSubmatch(from); match != nil {
		return match[1]
	}
	return strings.TrimSpace(from)
}

// Subject returns the Subject header, empty if none
func (m *Message) Subject() string {
	return m.headers["Subject"]
}

// BodyText returns the plain text body, extracted from HTML when no
// text/plain part exists
func (m *Message) BodyText() string {
	if body := findPartBody(m.msg.Payload, "text/plain"); body != "" {
		return body
	}
	if html := findPartBody(m.msg.Payload, "text/html"); html != "" {
		return m.text.HTMLToText(html)
	}
	return ""
}

// Timestamp returns the send time in UTC. Gmail's internalDate (milliseconds
// since epoch) is preferred; the Date header is the fallback.
func (m *Message) Timestamp() time.Time {
	if m.msg.InternalDate > 0 {
		return time.UnixMilli(m.msg.InternalDate).UTC()
	}

	if date := m.headers["Date"]; date != "" {
		for _, format := range dateFormats {
			if parsed, err := time.Parse(format, date); err == nil {
				return parsed.UTC()
			}
		}
	}

	return time.Now().UTC()
}

// IsRead reports whether the UNREAD label is absent
func (m *Message) IsRead() bool {
	return !hasLabel(m.msg.LabelIds, "UNREAD")
}

// IsStarred reports whether the STARRED label is present
func (m *Message) IsStarred() bool {
	return hasLabel(m.msg.LabelIds, "STARRED")
}

// Snippet returns Gmail's server-side preview, falling back to the body text
func (m *Message) Snippet(maxLength int) string {
	if m.msg.Snippet != "" {
		return m.text.Snippet(m.msg.Snippet, maxLength)
	}
	return m.text.Snippet(m.BodyText(), maxLength)
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// findPartBody walks the payload tree for the first part of the wanted MIME
// type and decodes its URL-safe base64 body
func findPartBody(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		if data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part.Body.Data, "=")); err == nil {
			return string(data)
		}
		return ""
	}
	for _, child := range part.Parts {
		if body := findPartBody(child, mimeType); body != "" {
			return body
		}
	}
	return ""
}
