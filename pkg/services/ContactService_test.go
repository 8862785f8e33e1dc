package services

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	address string
	sent    []OutgoingMail
	err     error
}

func (m *fakeMailer) Address() string {
	return m.address
}

func (m *fakeMailer) Send(message OutgoingMail) error {
	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, message)
	return nil
}

func newTestContactService(mailer *fakeMailer) ContactService {
	return NewContactService(ContactServiceConfig{
		Clock:    clockwork.NewFakeClockAt(time.Date(2024, 3, 25, 10, 0, 0, 0, time.UTC)),
		Mailer:   mailer,
		SiteName: "Limbach Samaj",
	})
}

func validContactMessage() models.ContactMessage {
	return models.ContactMessage{
		Name:        "  Priya Limbachiya ",
		Email:       "priya@example.com",
		PhoneNumber: "+91 98765 43210",
		Subject:     "Holi photos",
		Message:     "Could you add the photos from the evening program?",
	}
}

func TestSubmitRelaysMessage(t *testing.T) {
	mailer := &fakeMailer{address: "relay@example.com"}
	service := newTestContactService(mailer)

	require.NoError(t, service.Submit(validContactMessage()))
	require.Len(t, mailer.sent, 1)

	sent := mailer.sent[0]
	assert.Equal(t, "relay@example.com", sent.FromEmail)
	assert.Equal(t, "Priya Limbachiya", sent.FromName)
	assert.Equal(t, "relay@example.com", sent.ToEmail)
	assert.Equal(t, "priya@example.com", sent.ReplyTo)
	assert.Equal(t, "Contact Form: Holi photos", sent.Subject)
	assert.Contains(t, sent.HTMLBody, "+91 98765 43210")
	assert.Contains(t, sent.HTMLBody, "Limbach Samaj")
	assert.NotContains(t, sent.HTMLBody, "Address:")
	assert.Contains(t, sent.TextBody, "Could you add the photos from the evening program?")
}

func TestSubmitEscapesHTML(t *testing.T) {
	mailer := &fakeMailer{address: "relay@example.com"}
	service := newTestContactService(mailer)

	message := validContactMessage()
	message.Message = `<script>alert("hi")</script> please escape me`

	require.NoError(t, service.Submit(message))
	require.Len(t, mailer.sent, 1)

	assert.NotContains(t, mailer.sent[0].HTMLBody, "<script>")
	assert.Contains(t, mailer.sent[0].HTMLBody, "&lt;script&gt;")
}

func TestSubmitValidationFailureSendsNothing(t *testing.T) {
	mailer := &fakeMailer{address: "relay@example.com"}
	service := newTestContactService(mailer)

	err := service.Submit(models.ContactMessage{Name: "Al", Email: "bad", Subject: "Hi", Message: "short"})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Details, 4)
	assert.Empty(t, mailer.sent)
}

func TestSubmitMailerFailure(t *testing.T) {
	mailer := &fakeMailer{address: "relay@example.com", err: errors.New("connection refused")}
	service := newTestContactService(mailer)

	err := service.Submit(validContactMessage())
	assert.Error(t, err)
}
