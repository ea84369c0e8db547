package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteerhub/models"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyRegistered),
		errors.Is(err, models.ErrAlreadyApplied),
		errors.Is(err, models.ErrInFlight),
		errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotEligible), errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail answers with the mapped status. Domain errors carry their own message;
// unexpected ones are logged and replaced by fallback.
func (d *deps) fail(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		d.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"message": fallback})
		return
	}
	c.JSON(status, gin.H{"message": messageFor(err)})
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "Not found."
	case errors.Is(err, models.ErrAlreadyRegistered):
		return "Already registered."
	case errors.Is(err, models.ErrAlreadyApplied):
		return "Already applied."
	case errors.Is(err, models.ErrInFlight):
		return "Request already in progress."
	case errors.Is(err, models.ErrDuplicateEmail):
		return "Email already in use."
	case errors.Is(err, models.ErrNotEligible):
		return "Only individual users can apply."
	case errors.Is(err, models.ErrForbidden):
		return "Not authorized."
	default:
		return "Could not authenticate user."
	}
}
