package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/session"
)

const (
	sessionCtxKey = "storefront.session"
	languageSlot  = "language"
)

// sessionMiddleware loads the browser session named by the cookie, or starts a
// new one, and holds the per-session lock until the request is done so that
// requests for one session are applied one at a time.
func (h *handlers) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session
		if id, err := c.Cookie(h.opts.CookieName); err == nil && session.ValidID(id) {
			unlock := h.locks.Lock(id)
			values, err := h.sessions.Load(c.Request.Context(), id)
			if err != nil {
				unlock()
				h.logger.Printf("load session %s: %v", id, err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"message": h.messages.T(h.messages.Match(c.GetHeader("Accept-Language")), "errors.upstream"),
				})
				return
			}
			if len(values) > 0 {
				defer unlock()
				sess = session.Restore(id, values)
			} else {
				// unknown or expired: never adopt an id the client picked
				unlock()
			}
		}
		if sess == nil {
			sess = session.New()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.opts.CookieName, sess.ID(), int(h.opts.CookieTTL.Seconds()), "/", "", h.opts.SecureCookie, true)
		c.Set(sessionCtxKey, sess)

		c.Next()

		if err := h.save(c.Request.Context(), sess); err != nil {
			h.logger.Printf("save session %s: %v", sess.ID(), err)
		}
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}

func (h *handlers) save(ctx context.Context, sess *session.Session) error {
	if !sess.Dirty() {
		return nil
	}
	if sess.Len() == 0 {
		if err := h.sessions.Delete(ctx, sess.ID()); err != nil {
			return err
		}
		sess.MarkClean()
		return nil
	}
	if err := h.sessions.Save(ctx, sess.ID(), sess.Values()); err != nil {
		return err
	}
	sess.MarkClean()
	return nil
}

// commit persists the session before a mutating handler answers. It writes
// the error response itself and reports false when the save failed.
func (h *handlers) commit(c *gin.Context, sess *session.Session) bool {
	if err := h.save(c.Request.Context(), sess); err != nil {
		h.logger.Printf("save session %s: %v", sess.ID(), err)
		h.message(c, http.StatusServiceUnavailable, "errors.upstream")
		return false
	}
	return true
}

// lang resolves the response language: the session choice, then
// Accept-Language, then the default.
func (h *handlers) lang(c *gin.Context) string {
	if v, ok := c.Get(sessionCtxKey); ok {
		var chosen string
		if v.(*session.Session).GetJSON(languageSlot, &chosen) && h.messages.Supports(chosen) {
			return chosen
		}
	}
	return h.messages.Match(c.GetHeader("Accept-Language"))
}
