package config

// MailConfig represents the configuration for the mail provider selection
type MailConfig struct {
	Provider   string
	FetchLimit int64
	Query      string
}

// GmailConfig represents the configuration for the Gmail provider
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
}

// IMAPConfig represents the configuration for the IMAP provider
type IMAPConfig struct {
	Address  string
	Username string
	Password string
	Mailbox  string
}

// GetMail returns the mail provider configuration
func (c *Config) GetMail() MailConfig {
	return MailConfig{
		Provider:   c.GetString("mail.provider"),
		FetchLimit: c.GetInt64("mail.fetch_limit"),
		Query:      c.GetString("mail.query"),
	}
}

// GetGmail returns the Gmail configuration
func (c *Config) GetGmail() GmailConfig {
	return GmailConfig{
		CredentialsFile: c.GetString("gmail.credentials_file"),
		TokenFile:       c.GetString("gmail.token_file"),
	}
}

// GetIMAP returns the IMAP configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Address:  c.GetString("imap.address"),
		Username: c.GetString("imap.username"),
		Password: c.GetString("imap.password"),
		Mailbox:  c.GetString("imap.mailbox"),
	}
}
