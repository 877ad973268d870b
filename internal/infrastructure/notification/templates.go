package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names
const (
	TemplateWelcome         = "welcome"
	TemplateVerifyEmail     = "verify_email"
	TemplateSubmitted       = "submitted_for_review"
	TemplateApproved        = "approved"
	TemplateRejected        = "rejected"
	TemplateSuspended       = "suspended"
	TemplateRoleChanged     = "role_changed"
	TemplatePasswordReset   = "password_reset"
	TemplatePasswordChanged = "password_changed"
)

var subjects = map[string]string{
	TemplateWelcome:         "Welcome to the marketplace",
	TemplateVerifyEmail:     "Verify your email address",
	TemplateSubmitted:       "Your profile is under review",
	TemplateApproved:        "Your account has been approved",
	TemplateRejected:        "Your account application was not approved",
	TemplateSuspended:       "Your account has been suspended",
	TemplateRoleChanged:     "Your account type has changed",
	TemplatePasswordReset:   "Reset your password",
	TemplatePasswordChanged: "Your password was changed",
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #0F766E; color: white; padding: 10px; text-align: center; }
		.content { padding: 20px; }
		.button { display: inline-block; background-color: #0F766E; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{.Brand}}</h1></div>
		<div class="content">
			<h2>Hello {{.Name}},</h2>
			{{template "body" .}}
			<p>Best regards,<br>The {{.Brand}} Team</p>
		</div>
	</div>
</body>
</html>{{end}}`

var bodies = map[string]string{
	TemplateWelcome: `{{define "body"}}<p>Thanks for registering as a {{.Role}}.</p>
{{if .Steps}}<p>Next steps:</p><ul>{{range .Steps}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{if .Message}}<p>{{.Message}}</p>{{end}}{{end}}`,
	TemplateVerifyEmail: `{{define "body"}}<p>Please verify your email address to activate your account.</p>
<p><a href="{{.Link}}" class="button">Verify Email</a></p>
<p>Or copy and paste this link in your browser: {{.Link}}</p>
<p>This link will expire in {{.ExpiresIn}}.</p>{{end}}`,
	TemplateSubmitted: `{{define "body"}}<p>Your {{.Role}} profile is complete and has been sent for admin review. We will email you once a decision is made.</p>{{end}}`,
	TemplateApproved: `{{define "body"}}<p>Your {{.Role}} account has been approved. You now have full access to the platform.</p>
<p><a href="{{.Link}}" class="button">Sign in</a></p>{{end}}`,
	TemplateRejected: `{{define "body"}}<p>Unfortunately your {{.Role}} account application was not approved.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>You can update your profile and submit it for review again.</p>{{end}}`,
	TemplateSuspended: `{{define "body"}}<p>Your account has been suspended and you can no longer sign in.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Please contact support if you believe this is a mistake.</p>{{end}}`,
	TemplateRoleChanged: `{{define "body"}}<p>Your account type changed from {{.PreviousRole}} to {{.Role}}.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}{{end}}`,
	TemplatePasswordReset: `{{define "body"}}<p>We received a request to reset your password.</p>
<p><a href="{{.Link}}" class="button">Reset Password</a></p>
<p>Or copy and paste this link in your browser: {{.Link}}</p>
<p>This link will expire in {{.ExpiresIn}}. If you did not request a reset, you can ignore this email.</p>{{end}}`,
	TemplatePasswordChanged: `{{define "body"}}<p>Your password was just changed. If this wasn't you, reset it immediately and contact support.</p>{{end}}`,
}

// TemplateData is the view model every template renders from
type TemplateData struct {
	Brand        string
	Name         string
	Role         string
	PreviousRole string
	Link         string
	ExpiresIn    string
	Reason       string
	Message      string
	Steps        []string
}

// Renderer turns template names and data into messages
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every template once
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, err
	}
	r := &Renderer{templates: make(map[string]*template.Template, len(bodies))}
	for name, body := range bodies {
		t, err := template.Must(base.Clone()).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render produces the message for name addressed to to
func (r *Renderer) Render(name, to string, data TemplateData) (Message, error) {
	t, ok := r.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return Message{}, fmt.Errorf("render %s template: %w", name, err)
	}
	return Message{
		To:       to,
		Subject:  subjects[name],
		HTML:     buf.String(),
		Template: name,
	}, nil
}
