package ports

import (
	"context"

	"github.com/mikey/email-insights/internal/core"
)

// MailProvider defines the interface for retrieving messages from a mail backend
type MailProvider interface {
	// FetchMessages retrieves up to limit messages, optionally filtered by a
	// provider-specific query
	FetchMessages(ctx context.Context, limit int64, query string) ([]core.EmailMessage, error)

	// FetchMessageByID retrieves a single message by its identifier
	FetchMessageByID(ctx context.Context, id string) (core.EmailMessage, error)

	// MarkRead marks a message as read
	MarkRead(ctx context.Context, id string) error

	// MarkUnread marks a message as unread
	MarkUnread(ctx context.Context, id string) error

	// Remove deletes a message from the mailbox
	Remove(ctx context.Context, id string) error
}
