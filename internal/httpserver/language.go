package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type languageRequest struct {
	Language string `json:"language"`
}

func (h *handlers) getLanguage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"language":  h.lang(c),
		"available": h.messages.Languages(),
	})
}

func (h *handlers) setLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.message(c, http.StatusBadRequest, "errors.invalidInput")
		return
	}
	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if !h.messages.Supports(lang) {
		h.message(c, http.StatusBadRequest, "language.unsupported")
		return
	}

	sess := currentSession(c)
	if err := sess.SetJSON(languageSlot, lang); err != nil {
		h.fail(c, err, messageKeys{})
		return
	}
	if !h.commit(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  h.messages.T(lang, "language.changed"),
		"language": lang,
	})
}
