package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// TemplateManager loads HTML templates from disk, falling back to the
// built-in versions when a file is missing.
type TemplateManager struct {
	templates map[string]*template.Template
	config    Config
}

func NewTemplateManager(config Config) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		config:    config,
	}

	for _, name := range []string{"welcome", "verification", "notification"} {
		tpl, err := tm.loadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

func (tm *TemplateManager) loadTemplate(name string) (*template.Template, error) {
	contentPath := filepath.Join(tm.config.TemplatePath, name+".html")
	tpl, err := template.ParseFiles(contentPath)
	if err != nil {
		return tm.builtinTemplate(name)
	}
	return tpl, nil
}

func (tm *TemplateManager) builtinTemplate(name string) (*template.Template, error) {
	var tplText string
	switch name {
	case "welcome":
		tplText = welcomeTemplate
	case "verification":
		tplText = verificationTemplate
	case "notification":
		tplText = notificationTemplate
	default:
		return nil, fmt.Errorf("unknown template: %s", name)
	}
	return template.New(name).Parse(tplText)
}

func (tm *TemplateManager) Render(templateName string, data interface{}) (string, error) {
	tpl, exists := tm.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2a1f;">
  <h2>Welcome to {{.CompanyName}}, {{.UserName}}!</h2>
  {{if eq .UserRole "partner"}}
  <p>Your partner account is ready. Finish setting up your organization to start reaching climate-focused talent.</p>
  {{else}}
  <p>Your account is ready. Complete your profile to get matched with climate career opportunities.</p>
  {{end}}
  <p><a href="{{.DashboardURL}}" style="background:#2d6a4f;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">{{.ActionText}}</a></p>
  <p>Questions? Reach us at {{.SupportEmail}}.</p>
</body>
</html>`

const verificationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2a1f;">
  <h2>Confirm your email</h2>
  <p>Click the button below to confirm your email address and continue setting up your account.</p>
  <p><a href="{{.ActionURL}}" style="background:#2d6a4f;color:#fff;padding:10px 18px;text-decoration:none;border-radius:4px;">{{.ActionText}}</a></p>
  <p>If you did not create an account, you can ignore this message.</p>
</body>
</html>`

const notificationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2a1f;">
  <h2>{{.Subject}}</h2>
  <p>{{.Message}}</p>
</body>
</html>`
