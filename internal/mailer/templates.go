package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/leapwind/serverless-auth/internal/verification/domain"
)

// mailData is the data rendered into the confirmation mail templates.
type mailData struct {
	ConfirmationURL string
	ProjectTag      string
	ExpiryInWords   string
}

const expiryInWords = "5 minutes"

var mailTemplates = template.Must(template.New("mail").Parse(`
{{define "signin"}}
<html>
  <body>
    <p>Someone requested to sign in to <strong>{{.ProjectTag}}</strong> with this email address.</p>
    <p>If that was you, confirm by opening the link below. The link is valid for {{.ExpiryInWords}} and works once.</p>
    <p><a href="{{.ConfirmationURL}}">Confirm sign in</a></p>
    <p>If you did not request this, ignore this mail.</p>
  </body>
</html>
{{end}}

{{define "signup"}}
<html>
  <body>
    <p>Welcome to <strong>{{.ProjectTag}}</strong>!</p>
    <p>Confirm your email address by opening the link below. The link is valid for {{.ExpiryInWords}} and works once.</p>
    <p><a href="{{.ConfirmationURL}}">Confirm sign up</a></p>
    <p>If you did not sign up, ignore this mail.</p>
  </body>
</html>
{{end}}
`))

// renderMail returns the subject and HTML body for the given mode.
func renderMail(mode domain.Mode, confirmationURL, projectTag string) (subject, body string, err error) {
	data := mailData{
		ConfirmationURL: confirmationURL,
		ProjectTag:      projectTag,
		ExpiryInWords:   expiryInWords,
	}
	var buf bytes.Buffer
	if err := mailTemplates.ExecuteTemplate(&buf, string(mode), data); err != nil {
		return "", "", err
	}
	switch mode {
	case domain.ModeSignin:
		subject = fmt.Sprintf("Sign in to %s", projectTag)
	case domain.ModeSignup:
		subject = fmt.Sprintf("Confirm your %s account", projectTag)
	default:
		return "", "", fmt.Errorf("mailer: unknown mode %q", mode)
	}
	return subject, buf.String(), nil
}
