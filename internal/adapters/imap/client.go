package imap

import (
	"context"
	"fmt"
	"strconv"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/mikey/email-insights/internal/config"
	"github.com/mikey/email-insights/internal/core"
	"github.com/mikey/email-insights/internal/utils"
)

// Provider is an IMAP implementation of the MailProvider interface
type Provider struct {
	client  *client.Client
	mailbox string
	logger  *zap.Logger
	text    *utils.TextProcessor
}

// NewProvider dials the IMAP server over TLS and logs in
func NewProvider(cfg config.IMAPConfig, logger *zap.Logger, text *utils.TextProcessor) (*Provider, error) {
	c, err := client.DialTLS(cfg.Address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial imap server: %w", err)
	}

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login failed: %w", err)
	}

	return &Provider{
		client:  c,
		mailbox: cfg.Mailbox,
		logger:  logger,
		text:    text,
	}, nil
}

// FetchMessages retrieves up to limit messages from the configured mailbox,
// newest first. A non-empty query is matched against message text server-side.
func (p *Provider) FetchMessages(ctx context.Context, limit int64, query string) ([]core.EmailMessage, error) {
	status, err := p.client.Select(p.mailbox, false)
	if err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", p.mailbox, err)
	}
	if status.Messages == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	if query != "" {
		criteria := imap.NewSearchCriteria()
		criteria.Text = []string{query}
		ids, err := p.client.Search(criteria)
		if err != nil {
			return nil, fmt.Errorf("imap search failed: %w", err)
		}
		if len(ids) == 0 {
			return nil, nil
		}
		if int64(len(ids)) > limit {
			ids = ids[int64(len(ids))-limit:]
		}
		seqset.AddNum(ids...)
	} else {
		from := uint32(1)
		if int64(status.Messages) > limit {
			from = status.Messages - uint32(limit) + 1
		}
		seqset.AddRange(from, status.Messages)
	}

	return p.fetch(ctx, seqset, false)
}

// FetchMessageByID retrieves a single message by UID
func (p *Provider) FetchMessageByID(ctx context.Context, id string) (core.EmailMessage, error) {
	uid, err := parseUID(id)
	if err != nil {
		return nil, err
	}

	if _, err := p.client.Select(p.mailbox, false); err != nil {
		return nil, fmt.Errorf("failed to select mailbox %s: %w", p.mailbox, err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	messages, err := p.fetch(ctx, seqset, true)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("message %s not found", id)
	}
	return messages[0], nil
}

// MarkRead sets the \Seen flag on a message
func (p *Provider) MarkRead(ctx context.Context, id string) error {
	return p.storeFlags(id, imap.AddFlags, imap.SeenFlag)
}

// MarkUnread clears the \Seen flag on a message
func (p *Provider) MarkUnread(ctx context.Context, id string) error {
	return p.storeFlags(id, imap.RemoveFlags, imap.SeenFlag)
}

// Remove flags a message as deleted and expunges the mailbox
func (p *Provider) Remove(ctx context.Context, id string) error {
	if err := p.storeFlags(id, imap.AddFlags, imap.DeletedFlag); err != nil {
		return err
	}
	if err := p.client.Expunge(nil); err != nil {
		return fmt.Errorf("expunge failed: %w", err)
	}
	return nil
}

// Logout closes the IMAP session
func (p *Provider) Logout() error {
	return p.client.Logout()
}

func (p *Provider) fetch(ctx context.Context, seqset *imap.SeqSet, byUID bool) ([]core.EmailMessage, error) {
	var section imap.BodySectionName
	items := []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid}

	ch := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		if byUID {
			done <- p.client.UidFetch(seqset, items, ch)
		} else {
			done <- p.client.Fetch(seqset, items, ch)
		}
	}()

	var messages []core.EmailMessage
	for msg := range ch {
		converted, err := p.convert(msg, &section)
		if err != nil {
			p.logger.Warn("Skipping unparseable message",
				zap.Uint32("uid", msg.Uid),
				zap.Error(err))
			continue
		}
		messages = append(messages, converted)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("imap fetch failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (p *Provider) convert(msg *imap.Message, section *imap.BodySectionName) (core.EmailMessage, error) {
	if msg.Envelope == nil {
		return nil, fmt.Errorf("message %d has no envelope", msg.SeqNum)
	}

	sender := ""
	if len(msg.Envelope.From) > 0 {
		sender = msg.Envelope.From[0].Address()
	}

	read, starred := false, false
	for _, flag := range msg.Flags {
		switch flag {
		case imap.SeenFlag:
			read = true
		case imap.FlaggedFlag:
			starred = true
		}
	}

	return &core.Message{
		MsgID:    strconv.FormatUint(uint64(msg.Uid), 10),
		From:     sender,
		Subj:     msg.Envelope.Subject,
		Body:     p.extractBody(msg, section),
		Received: msg.Envelope.Date.UTC(),
		Read:     read,
		Starred:  starred,
	}, nil
}

// extractBody reads the first inline part of the message, converting HTML to
// plain text when that is all the message carries
func (p *Provider) extractBody(msg *imap.Message, section *imap.BodySectionName) string {
	body := msg.GetBody(section)
	if body == nil {
		return ""
	}

	mr, err := mail.CreateReader(body)
	if err != nil {
		return ""
	}

	for {
		part, err := mr.NextPart()
		if err != nil {
			return ""
		}
		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := header.ContentType()
		text, err := p.text.DecodeCharset(part.Body, "")
		if err != nil {
			return ""
		}
		if contentType == "text/html" {
			return p.text.HTMLToText(text)
		}
		return text
	}
}

func (p *Provider) storeFlags(id string, op imap.FlagsOp, flag string) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}

	if _, err := p.client.Select(p.mailbox, false); err != nil {
		return fmt.Errorf("failed to select mailbox %s: %w", p.mailbox, err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uid)

	item := imap.FormatFlagsOp(op, true)
	return p.client.UidStore(seqset, item, []interface{}{flag}, nil)
}

func parseUID(id string) (uint32, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q: %w", id, err)
	}
	return uint32(uid), nil
}
