package email

// Email is a single outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is the base payload passed to every email template.
type TemplateData struct {
	UserName     string
	Subject      string
	Message      string
	ActionURL    string
	ActionText   string
	SupportEmail string
	CompanyName  string
}

// WelcomeData carries the role-specific bits of the welcome email.
type WelcomeData struct {
	TemplateData
	UserRole     string
	DashboardURL string
}

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data interface{}) error
	SendWelcome(email, name, userRole string) error
	SendVerification(email, token string) error
	SendNotification(email, subject, message string) error
}
