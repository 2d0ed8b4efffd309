package core

import (
	"context"
	"time"
)

// EmailMessage is the read-only view of a mail message the analyzer consumes.
// Provider adapters implement it over their native payloads; the analyzer
// never mutates the underlying message.
type EmailMessage interface {
	// ID returns the provider-scoped unique identifier
	ID() string

	// Sender returns the sender's email address
	Sender() string

	// Subject returns the subject line, empty if none
	Subject() string

	// BodyText returns the plain text body content
	BodyText() string

	// Timestamp returns the time the message was sent, in UTC
	Timestamp() time.Time

	// IsRead reports whether the message has been read
	IsRead() bool

	// IsStarred reports whether the message is starred
	IsStarred() bool

	// Snippet returns a short preview of the message, at most maxLength runes
	Snippet(maxLength int) string
}

// MailProvider defines the interface for retrieving messages from a mail backend
type MailProvider interface {
	// FetchMessages retrieves up to limit messages, optionally filtered by a
	// provider-specific query
	FetchMessages(ctx context.Context, limit int64, query string) ([]EmailMessage, error)

	// FetchMessageByID retrieves a single message by its identifier
	FetchMessageByID(ctx context.Context, id string) (EmailMessage, error)

	// MarkRead marks a message as read
	MarkRead(ctx context.Context, id string) error

	// MarkUnread marks a message as unread
	MarkUnread(ctx context.Context, id string) error

	// Remove deletes a message from the mailbox
	Remove(ctx context.Context, id string) error
}

// ReportCache defines the interface for caching per-message analysis reports
type ReportCache interface {
	// Get retrieves a cached report for a message
	Get(ctx context.Context, messageID string) (*CachedReport, error)

	// Set stores a cached report
	Set(ctx context.Context, entry *CachedReport) error

	// Delete removes a cached report
	Delete(ctx context.Context, messageID string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
