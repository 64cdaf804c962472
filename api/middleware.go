package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skyfare/backend/internal/domain"
)

const userIDKey = "userID"

// RequireUser extracts the authenticated user id set by the identity provider
// in front of this service. The id is opaque; no claims are inspected here.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// respondError maps the closed domain error set onto HTTP statuses. Unknown
// flights carry a redirect hint so the client can send the user back to
// search instead of showing an error page.
func respondError(c *gin.Context, err error) {
	var perr *domain.PersistenceError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnknownFlight):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown flight", "redirect": "/flights"})
	case errors.Is(err, domain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	case errors.Is(err, domain.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
	case errors.Is(err, domain.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient wallet balance for this booking"})
	case errors.As(err, &perr):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage is temporarily unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
