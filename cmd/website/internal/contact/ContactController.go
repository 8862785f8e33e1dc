package contact

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/limbachsamaj/communitysite/pkg/models"
	"github.com/limbachsamaj/communitysite/pkg/services"
)

const (
	maxBodyBytes = 64 * 1024
)

type ContactHandlers interface {
	SubmitAction(w http.ResponseWriter, r *http.Request)
}

type ContactControllerConfig struct {
	ConfigErr      error
	ContactService services.ContactServicer
}

type ContactController struct {
	configErr      error
	contactService services.ContactServicer
}

type contactResponse struct {
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
	Ok      bool     `json:"ok"`
}

func NewContactController(config ContactControllerConfig) ContactController {
	return ContactController{
		configErr:      config.ConfigErr,
		contactService: config.ContactService,
	}
}

/*
POST /api/contact
*/
func (c ContactController) SubmitAction(w http.ResponseWriter, r *http.Request) {
	var (
		err             error
		message         models.ContactMessage
		validationError *models.ValidationError
	)

	if c.configErr != nil {
		slog.Error("contact form is not configured", "error", c.configErr)
		httphelpers.WriteJson(w, http.StatusInternalServerError, contactResponse{Error: "Server configuration error"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err = httphelpers.ReadJSONBody(r, &message); err != nil {
		slog.Warn("unable to decode contact form body", "error", err)
		httphelpers.WriteJson(w, http.StatusBadRequest, contactResponse{Error: "Invalid request body"})
		return
	}

	if err = c.contactService.Submit(message); err != nil {
		if errors.As(err, &validationError) {
			httphelpers.WriteJson(w, http.StatusBadRequest, contactResponse{
				Error:   "Validation failed",
				Details: validationError.Details,
			})
			return
		}

		if errors.Is(err, models.ErrMailAuth) {
			slog.Error("mail provider rejected credentials", "error", err)
			httphelpers.WriteJson(w, http.StatusInternalServerError, contactResponse{Error: "Email service temporarily unavailable"})
			return
		}

		slog.Error("contact form error", "error", err)
		httphelpers.WriteJson(w, http.StatusInternalServerError, contactResponse{Error: "Failed to send message. Please try again later."})
		return
	}

	httphelpers.WriteJson(w, http.StatusOK, contactResponse{
		Message: "Thank you for your message! We will get back to you soon.",
		Ok:      true,
	})
}
