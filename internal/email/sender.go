package email

import (
	"fmt"
	"net/smtp"
	"regexp"
	"strings"
)

// SMTPSender sends mail over plain SMTP with optional STARTTLS.
type SMTPSender struct {
	config    Config
	templates *TemplateManager
	auth      smtp.Auth
}

func NewSMTPSender(config Config) (Sender, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	sender := &SMTPSender{
		config:    config,
		templates: tm,
	}

	if config.Username != "" && config.Password != "" {
		sender.auth = smtp.PlainAuth("", config.Username, config.Password, config.SMTPHost)
	}

	return sender, nil
}

func (s *SMTPSender) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	return smtp.SendMail(addr, s.auth, s.config.FromEmail, email.To, s.buildMessage(email))
}

func (s *SMTPSender) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	htmlBody, err := s.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		Body:     htmlToText(htmlBody),
		HTMLBody: htmlBody,
	})
}

func (s *SMTPSender) SendWelcome(email, name, userRole string) error {
	dashboardURL := s.config.BaseURL + "/dashboard"
	if userRole == "partner" {
		dashboardURL = s.config.BaseURL + "/partner-dashboard"
	}

	data := WelcomeData{
		TemplateData: TemplateData{
			UserName:     name,
			Subject:      "Welcome to ClimateWork!",
			ActionText:   "Go to your dashboard",
			SupportEmail: s.config.FromEmail,
			CompanyName:  "ClimateWork",
		},
		UserRole:     userRole,
		DashboardURL: dashboardURL,
	}

	return s.SendTemplate([]string{email}, "Welcome to ClimateWork!", "welcome", data)
}

func (s *SMTPSender) SendVerification(email, token string) error {
	data := TemplateData{
		Subject:    "Confirm your email",
		ActionURL:  fmt.Sprintf("%s/verify-email?token=%s", s.config.BaseURL, token),
		ActionText: "Confirm email",
	}

	return s.SendTemplate([]string{email}, "Confirm your email", "verification", data)
}

func (s *SMTPSender) SendNotification(email, subject, message string) error {
	data := TemplateData{
		Subject: subject,
		Message: message,
	}

	return s.SendTemplate([]string{email}, subject, "notification", data)
}

func (s *SMTPSender) buildMessage(email *Email) []byte {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", s.config.FromName, s.config.FromEmail),
		fmt.Sprintf("To: %s", strings.Join(email.To, ", ")),
		fmt.Sprintf("Subject: %s", email.Subject),
		"MIME-version: 1.0;",
		"Content-Type: multipart/alternative; boundary=\"CW_BOUNDARY\"",
		"",
	}

	var body []string
	if email.Body != "" {
		body = append(body,
			"--CW_BOUNDARY",
			"Content-Type: text/plain; charset=UTF-8",
			"",
			email.Body,
			"",
		)
	}
	if email.HTMLBody != "" {
		body = append(body,
			"--CW_BOUNDARY",
			"Content-Type: text/html; charset=UTF-8",
			"",
			email.HTMLBody,
			"",
		)
	}
	body = append(body, "--CW_BOUNDARY--")

	message := strings.Join(headers, "\r\n") + "\r\n" + strings.Join(body, "\r\n")
	return []byte(message)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

func htmlToText(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, "")
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

// NoopSender is used when email is not configured; sends are logged upstream
// and dropped here.
type NoopSender struct{}

func (NoopSender) Send(*Email) error                                        { return nil }
func (NoopSender) SendTemplate([]string, string, string, interface{}) error { return nil }
func (NoopSender) SendWelcome(string, string, string) error                 { return nil }
func (NoopSender) SendVerification(string, string) error                    { return nil }
func (NoopSender) SendNotification(string, string, string) error            { return nil }
