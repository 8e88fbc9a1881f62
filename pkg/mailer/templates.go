package mailer

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

const verifyEmailHTML = `<p>Welcome to {{ .AppName }}{{ if .Name }}, {{ .Name }}{{ end }}!</p>
<p>Please verify your email by clicking the link below:</p>
<p><a href="{{ .VerifyURL }}">{{ .VerifyURL }}</a></p>`

const resetPasswordHTML = `<p>To reset your password, click the link below:</p>
<p><a href="{{ .ResetURL }}">{{ .ResetURL }}</a></p>
<p>The link expires in one hour. If you did not request a reset, ignore this email.</p>`

var templates = map[string]*htmpl.Template{
	TemplateVerifyEmail:   htmpl.Must(htmpl.New(TemplateVerifyEmail).Parse(verifyEmailHTML)),
	TemplateResetPassword: htmpl.Must(htmpl.New(TemplateResetPassword).Parse(resetPasswordHTML)),
}

var subjects = map[string]string{
	TemplateVerifyEmail:   "Verify your email",
	TemplateResetPassword: "Reset your password",
}

// Render produces the subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject string, html string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("exec %q: %w", name, err)
	}
	subject = subjects[name]
	if app, ok := data["AppName"].(string); ok && app != "" {
		subject = subject + " - " + app
	}
	return subject, buf.String(), nil
}
