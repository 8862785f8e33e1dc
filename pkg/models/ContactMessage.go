package models

import (
	"strings"
)

type ContactMessage struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=7,max=20"`
	Address     string `json:"address" validate:"omitempty,min=5,max=200"`
	Subject     string `json:"subject" validate:"required,min=5,max=200"`
	Message     string `json:"message" validate:"required,min=10,max=2000"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (m ContactMessage) Trimmed() ContactMessage {
	return ContactMessage{
		Name:        strings.TrimSpace(m.Name),
		Email:       strings.TrimSpace(m.Email),
		PhoneNumber: strings.TrimSpace(m.PhoneNumber),
		Address:     strings.TrimSpace(m.Address),
		Subject:     strings.TrimSpace(m.Subject),
		Message:     strings.TrimSpace(m.Message),
	}
}
