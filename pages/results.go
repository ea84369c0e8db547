package pages

import (
	"errors"

	"volunteerhub/models"
)

// RegisterFlash turns the outcome of a registration into the toast shown after
// the redirect. Every failure produces an error toast.
func RegisterFlash(title string, err error) Flash {
	switch {
	case err == nil:
		return Flash{Kind: FlashSuccess, Message: "You are registered for " + title + "."}
	case errors.Is(err, models.ErrAlreadyRegistered):
		return Flash{Kind: FlashInfo, Message: "You are already registered for this event."}
	case errors.Is(err, models.ErrInFlight):
		return Flash{Kind: FlashInfo, Message: "Your registration is already in progress."}
	case errors.Is(err, models.ErrUnauthenticated):
		return Flash{Kind: FlashError, Message: "Please log in to register."}
	case errors.Is(err, models.ErrNotFound):
		return Flash{Kind: FlashError, Message: "That event no longer exists."}
	default:
		return Flash{Kind: FlashError, Message: "Registration failed. Please try again."}
	}
}

func ApplyFlash(title string, err error) Flash {
	switch {
	case err == nil:
		return Flash{Kind: FlashSuccess, Message: "Application submitted for " + title + "."}
	case errors.Is(err, models.ErrAlreadyApplied):
		return Flash{Kind: FlashInfo, Message: "You have already applied to this opportunity."}
	case errors.Is(err, models.ErrInFlight):
		return Flash{Kind: FlashInfo, Message: "Your application is already being submitted."}
	case errors.Is(err, models.ErrNotEligible), errors.Is(err, models.ErrUnauthenticated):
		return Flash{Kind: FlashError, Message: "Login as an individual to apply."}
	case errors.Is(err, models.ErrNotFound):
		return Flash{Kind: FlashError, Message: "That opportunity no longer exists."}
	default:
		return Flash{Kind: FlashError, Message: "Application failed. Please try again."}
	}
}
