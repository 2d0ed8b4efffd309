package gmail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mikey/email-insights/internal/config"
	"github.com/mikey/email-insights/internal/core"
	"github.com/mikey/email-insights/internal/utils"
)

const user = "me"

var (
	// ErrMessageNotFound is returned when the requested message does not exist
	ErrMessageNotFound = errors.New("message not found")
	// ErrAuthentication is returned when Gmail credentials are expired or invalid
	ErrAuthentication = errors.New("gmail authentication expired or invalid")
	// ErrQuotaExceeded is returned when the Gmail API rate limit is hit
	ErrQuotaExceeded = errors.New("gmail api rate limit exceeded")
)

// Provider is a Gmail implementation of the MailProvider interface
type Provider struct {
	srv    *gmail.Service
	logger *zap.Logger
	text   *utils.TextProcessor
}

// NewProvider creates a Gmail provider using the OAuth2 installed-app flow.
// The token file is created on first run and refreshed automatically after.
func NewProvider(ctx context.Context, cfg config.GmailConfig, logger *zap.Logger, text *utils.TextProcessor) (*Provider, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailModifyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}

	httpClient, err := oauthClient(ctx, oauthConfig, cfg.TokenFile)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &Provider{srv: srv, logger: logger, text: text}, nil
}

// FetchMessages retrieves up to limit full-format messages matching the query
func (p *Provider) FetchMessages(ctx context.Context, limit int64, query string) ([]core.EmailMessage, error) {
	call := p.srv.Users.Messages.List(user).MaxResults(limit).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}

	list, err := call.Do()
	if err != nil {
		return nil, mapAPIError(err, "failed to list messages")
	}

	messages := make([]core.EmailMessage, 0, len(list.Messages))
	for _, info := range list.Messages {
		msg, err := p.FetchMessageByID(ctx, info.Id)
		if err != nil {
			// Keep going; a single unreadable message should not sink the batch
			p.logger.Warn("Failed to fetch message",
				zap.String("message_id", info.Id),
				zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// FetchMessageByID retrieves a single full-format message
func (p *Provider) FetchMessageByID(ctx context.Context, id string) (core.EmailMessage, error) {
	msg, err := p.srv.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, mapAPIError(err, fmt.Sprintf("failed to fetch message %s", id))
	}
	return newMessage(msg, p.text), nil
}

// MarkRead marks a message as read by removing the UNREAD label
func (p *Provider) MarkRead(ctx context.Context, id string) error {
	return p.modifyLabels(ctx, id, nil, []string{"UNREAD"})
}

// MarkUnread marks a message as unread by adding the UNREAD label
func (p *Provider) MarkUnread(ctx context.Context, id string) error {
	return p.modifyLabels(ctx, id, []string{"UNREAD"}, nil)
}

// Remove moves a message to the trash
func (p *Provider) Remove(ctx context.Context, id string) error {
	if _, err := p.srv.Users.Messages.Trash(user, id).Context(ctx).Do(); err != nil {
		return mapAPIError(err, fmt.Sprintf("failed to trash message %s", id))
	}
	return nil
}

func (p *Provider) modifyLabels(ctx context.Context, id string, add, remove []string) error {
	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}
	if _, err := p.srv.Users.Messages.Modify(user, id, req).Context(ctx).Do(); err != nil {
		return mapAPIError(err, fmt.Sprintf("failed to modify labels on message %s", id))
	}
	return nil
}

func mapAPIError(err error, context string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return ErrMessageNotFound
		case http.StatusUnauthorized:
			return ErrAuthentication
		case http.StatusTooManyRequests:
			return ErrQuotaExceeded
		}
	}
	return fmt.Errorf("%s: %w", context, err)
}

func oauthClient(ctx context.Context, oauthConfig *oauth2.Config, tokenFile string) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = tokenFromWeb(ctx, oauthConfig)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return oauthConfig.Client(ctx, tok), nil
}

func tokenFromWeb(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
