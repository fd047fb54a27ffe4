package app

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
)

const emailLayout = `<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 10px 20px; background-color: #4CAF50; color: white; text-decoration: none; border-radius: 5px; }
        .footer { margin-top: 30px; font-size: 12px; color: #777; }
    </style>
</head>
<body>
    <div class="container">
        {{template "content" .}}
        <p>Best regards,<br>The Chatbot Bank Team</p>
        <div class="footer"><p>This is an automated email, please do not reply.</p></div>
    </div>
</body>
</html>`

var emailTemplates = map[string]string{
	"welcome": `{{define "content"}}
        <h2>Welcome to Chatbot Bank!</h2>
        <p>Hello {{.Name}},</p>
        <p>Your account has been created successfully.</p>
        <p><strong>Username:</strong> {{.Username}}<br><strong>Email:</strong> {{.Email}}</p>
        <p><a href="{{.Link}}" class="button">Log In</a></p>
{{end}}`,
	"reset": `{{define "content"}}
        <h2>Password Reset Request</h2>
        <p>Hello {{.Name}},</p>
        <p>You have requested to reset your password. Please click the button below to reset your password:</p>
        <p><a href="{{.Link}}" class="button">Reset Password</a></p>
        <p>Or copy and paste this link in your browser:</p>
        <p>{{.Link}}</p>
        <p>This link will expire in 24 hours.</p>
        <p>If you did not request a password reset, please ignore this email.</p>
{{end}}`,
	"activation": `{{define "content"}}
        <h2>Activate Your Account</h2>
        <p>Hello {{.Name}},</p>
        <p>Please click the button below to activate your account:</p>
        <p><a href="{{.Link}}" class="button">Activate Account</a></p>
        <p>This link will expire in 24 hours.</p>
{{end}}`,
}

var emailSubjects = map[string]string{
	"welcome":    "Welcome to Chatbot Bank",
	"reset":      "Password Reset Request",
	"activation": "Activate Your Account",
}

var parsedEmails = func() map[string]*template.Template {
	out := make(map[string]*template.Template, len(emailTemplates))
	for name, body := range emailTemplates {
		out[name] = template.Must(template.Must(template.New(name).Parse(emailLayout)).Parse(body))
	}
	return out
}()

type emailData struct {
	Name     string
	Username string
	Email    string
	Link     string
}

func renderEmail(kind, to string, data emailData) (*auth.Email, error) {
	tmpl, ok := parsedEmails[kind]
	if !ok {
		return nil, fmt.Errorf("unknown email template %s", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s email: %w", kind, err)
	}
	return &auth.Email{To: to, Subject: emailSubjects[kind], HTML: buf.String()}, nil
}
