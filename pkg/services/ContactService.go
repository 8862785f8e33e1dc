package services

import (
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/limbachsamaj/communitysite/pkg/validation"
)

type RelayMailer interface {
	Mailer
	Address() string
}

type ContactServicer interface {
	Submit(message models.ContactMessage) error
}

type ContactServiceConfig struct {
	Clock     clockwork.Clock
	Mailer    RelayMailer
	SiteName  string
	Validator *validation.Validator
}

type ContactService struct {
	clock     clockwork.Clock
	mailer    RelayMailer
	siteName  string
	validator *validation.Validator
}

var contactHTMLTemplate = template.Must(template.New("contact-html").Parse(`
<html>
<body style="font-family: sans-serif; color: #333;">
<h1>New Contact Form Submission</h1>
<p>{{.SiteName}}</p>
<p><strong>Name:</strong> {{.Message.Name}}</p>
<p><strong>Email:</strong> {{.Message.Email}}</p>
{{if .Message.PhoneNumber}}<p><strong>Phone Number:</strong> {{.Message.PhoneNumber}}</p>{{end}}
{{if .Message.Address}}<p><strong>Address:</strong> {{.Message.Address}}</p>{{end}}
<p><strong>Subject:</strong> {{.Message.Subject}}</p>
<p><strong>Message:</strong></p>
<pre style="white-space: pre-wrap;">{{.Message.Message}}</pre>
<hr />
<p>This message was sent from the {{.SiteName}} website contact form.
Please respond to the sender at: {{.Message.Email}}</p>
<p><em>Sent on {{.SentOn}}</em></p>
</body>
</html>
`))

var contactTextTemplate = texttemplate.Must(texttemplate.New("contact-text").Parse(`New Contact Form Submission

Name: {{.Message.Name}}
Email: {{.Message.Email}}
{{if .Message.PhoneNumber}}Phone: {{.Message.PhoneNumber}}
{{end}}{{if .Message.Address}}Address: {{.Message.Address}}
{{end}}Subject: {{.Message.Subject}}

Message:
{{.Message.Message}}

---
This message was sent from the {{.SiteName}} website contact form.
Please respond to: {{.Message.Email}}
`))

func NewContactService(config ContactServiceConfig) ContactService {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}

	if config.Validator == nil {
		config.Validator = validation.New()
	}

	return ContactService{
		clock:     config.Clock,
		mailer:    config.Mailer,
		siteName:  config.SiteName,
		validator: config.Validator,
	}
}

/*
Submit validates a contact form submission and relays it as one email to the
site's own mailbox, with Reply-To set to the sender.
*/
func (s ContactService) Submit(message models.ContactMessage) error {
	var (
		err      error
		htmlBody strings.Builder
		textBody strings.Builder
	)

	if message, err = s.validator.ValidateContactMessage(message); err != nil {
		return err
	}

	data := map[string]any{
		"Message":  message,
		"SiteName": s.siteName,
		"SentOn":   s.clock.Now().Format(time.RFC1123),
	}

	if err = contactHTMLTemplate.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("error rendering contact email: %w", err)
	}

	if err = contactTextTemplate.Execute(&textBody, data); err != nil {
		return fmt.Errorf("error rendering contact email text: %w", err)
	}

	err = s.mailer.Send(OutgoingMail{
		FromEmail: s.mailer.Address(),
		FromName:  message.Name,
		ToEmail:   s.mailer.Address(),
		ReplyTo:   message.Email,
		Subject:   "Contact Form: " + message.Subject,
		HTMLBody:  htmlBody.String(),
		TextBody:  strings.TrimSpace(textBody.String()),
	})

	if err != nil {
		slog.Error("failed to send contact email", "error", err, "replyTo", message.Email)
		return err
	}

	slog.Info("contact email sent", "subject", message.Subject)
	return nil
}
