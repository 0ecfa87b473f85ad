package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/fakestore"
)

// messageKeys overrides the generic message per error class.
type messageKeys struct {
	invalid      string
	unauthorized string
	notFound     string
	upstream     string
}

func (h *handlers) message(c *gin.Context, status int, key string, args ...string) {
	c.JSON(status, gin.H{"message": h.messages.T(h.lang(c), key, args...)})
}

// fail maps err to a status code and a localized message.
func (h *handlers) fail(c *gin.Context, err error, keys messageKeys) {
	status, key := http.StatusInternalServerError, "errors.internal"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, key = http.StatusBadRequest, pick(keys.invalid, "errors.invalidInput")
	case errors.Is(err, domain.ErrUnauthorized):
		status, key = http.StatusUnauthorized, pick(keys.unauthorized, "profile.notSignedIn")
	case errors.Is(err, domain.ErrNotFound):
		status, key = http.StatusNotFound, pick(keys.notFound, "errors.notFound")
	case errors.Is(err, context.DeadlineExceeded):
		status, key = http.StatusGatewayTimeout, pick(keys.upstream, "errors.upstream")
	default:
		var urlErr *url.Error
		if _, ok := fakestore.IsAPIError(err); ok || errors.As(err, &urlErr) {
			status, key = http.StatusBadGateway, pick(keys.upstream, "errors.upstream")
		}
	}
	if status >= http.StatusInternalServerError {
		h.logger.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	h.message(c, status, key)
}

func pick(key, fallback string) string {
	if key == "" {
		return fallback
	}
	return key
}
