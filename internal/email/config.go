package email

import "fmt"

// Config holds SMTP connection settings.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	UseTLS       bool
	BaseURL      string
	TemplatePath string
}

func DefaultConfig() Config {
	return Config{
		SMTPHost:     "localhost",
		SMTPPort:     587,
		FromEmail:    "noreply@climatework.org",
		FromName:     "ClimateWork",
		UseTLS:       true,
		BaseURL:      "https://climatework.org",
		TemplatePath: "./templates/email",
	}
}

func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTPPort)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
