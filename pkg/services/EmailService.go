package services

import (
	"errors"
	"fmt"
	"net/textproto"
	"strings"
	"time"

	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/resend/resend-go/v2"
	mail "gopkg.in/mail.v2"
)

const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 587
)

type OutgoingMail struct {
	FromEmail string
	FromName  string
	ToEmail   string
	ReplyTo   string
	Subject   string
	HTMLBody  string
	TextBody  string
}

type Mailer interface {
	Send(message OutgoingMail) error
}

type smtpDialer interface {
	DialAndSend(m ...*mail.Message) error
}

type SMTPMailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

/*
SMTPMailer submits one message per call over STARTTLS. Failed deliveries are
not retried.
*/
type SMTPMailer struct {
	dialer   smtpDialer
	username string
}

func NewSMTPMailer(config SMTPMailerConfig) (SMTPMailer, error) {
	missing := []string{}

	config.Username = cleanSetting(config.Username)
	config.Password = cleanSetting(config.Password)

	if config.Username == "" {
		missing = append(missing, "SMTP_USERNAME")
	}

	if config.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}

	if len(missing) > 0 {
		return SMTPMailer{}, &models.ConfigurationError{Component: "smtp", Missing: missing}
	}

	if config.Host == "" {
		config.Host = DefaultSMTPHost
	}

	if config.Port <= 0 {
		config.Port = DefaultSMTPPort
	}

	dialer := mail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	dialer.StartTLSPolicy = mail.MandatoryStartTLS
	dialer.RetryFailure = false

	if config.Timeout > 0 {
		dialer.Timeout = config.Timeout
	}

	return SMTPMailer{
		dialer:   dialer,
		username: config.Username,
	}, nil
}

// Address is the relay account, which is both sender and recipient of contact mail.
func (m SMTPMailer) Address() string {
	return m.username
}

func (m SMTPMailer) Send(message OutgoingMail) error {
	msg := mail.NewMessage()
	msg.SetAddressHeader("From", message.FromEmail, message.FromName)
	msg.SetHeader("To", message.ToEmail)

	if message.ReplyTo != "" {
		msg.SetHeader("Reply-To", message.ReplyTo)
	}

	msg.SetHeader("Subject", message.Subject)
	msg.SetBody("text/plain", message.TextBody)
	msg.AddAlternative("text/html", message.HTMLBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		if isSMTPAuthFailure(err) {
			err = fmt.Errorf("%w: %w", models.ErrMailAuth, err)
		}

		return &models.UpstreamError{Operation: "smtp send", Err: err}
	}

	return nil
}

/*
isSMTPAuthFailure reports whether the relay rejected our credentials
(530 auth required, 534 mechanism too weak, 535 bad credentials).
*/
func isSMTPAuthFailure(err error) bool {
	var protoErr *textproto.Error

	if !errors.As(err, &protoErr) {
		return false
	}

	return protoErr.Code == 530 || protoErr.Code == 534 || protoErr.Code == 535
}

type ResendMailerConfig struct {
	ApiKey  string
	Address string
}

type resendSendFunc func(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)

/*
ResendMailer sends through the Resend HTTP API. It is used when the site is
deployed with an API key instead of relay credentials.
*/
type ResendMailer struct {
	send    resendSendFunc
	address string
}

func NewResendMailer(config ResendMailerConfig) (ResendMailer, error) {
	config.ApiKey = cleanSetting(config.ApiKey)
	config.Address = cleanSetting(config.Address)

	if config.ApiKey == "" || config.Address == "" {
		return ResendMailer{}, &models.ConfigurationError{Component: "resend", Missing: []string{"EMAIL_API_KEY", "CONTACT_EMAIL"}}
	}

	client := resend.NewClient(config.ApiKey)

	return ResendMailer{
		send:    client.Emails.Send,
		address: config.Address,
	}, nil
}

func (m ResendMailer) Address() string {
	return m.address
}

func (m ResendMailer) Send(message OutgoingMail) error {
	from := message.FromEmail

	if message.FromName != "" {
		from = fmt.Sprintf("%s <%s>", message.FromName, message.FromEmail)
	}

	_, err := m.send(&resend.SendEmailRequest{
		From:    from,
		To:      []string{message.ToEmail},
		ReplyTo: message.ReplyTo,
		Subject: message.Subject,
		Html:    message.HTMLBody,
		Text:    message.TextBody,
	})

	if err != nil {
		if isResendAuthFailure(err) {
			err = fmt.Errorf("%w: %w", models.ErrMailAuth, err)
		}

		return &models.UpstreamError{Operation: "resend send", Err: err}
	}

	return nil
}

/*
isResendAuthFailure recognizes the 401/403 answers for a missing or invalid
API key. The client only surfaces the message text for these.
*/
func isResendAuthFailure(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "api key") || strings.Contains(message, "unauthorized") || strings.Contains(message, "forbidden")
}
