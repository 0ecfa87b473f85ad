package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customersvc "storefront/internal/service/customer"
)

type accountView struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

func toAccountView(u *customersvc.SessionUser) accountView {
	return accountView{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (h *handlers) login(c *gin.Context) {
	var in customersvc.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.message(c, http.StatusBadRequest, "login.error")
		return
	}

	sess := currentSession(c)
	user, err := h.customer.Login(c.Request.Context(), sess, in)
	if err != nil {
		h.fail(c, err, messageKeys{invalid: "login.error", unauthorized: "login.invalid", upstream: "login.failed"})
		return
	}
	if !h.commit(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": h.messages.T(h.lang(c), "login.success", "username", user.Username),
		"user":    toAccountView(user),
	})
}

func (h *handlers) logout(c *gin.Context) {
	sess := currentSession(c)
	h.customer.Logout(sess)
	if !h.commit(c, sess) {
		return
	}
	h.message(c, http.StatusOK, "login.loggedOut")
}

func (h *handlers) register(c *gin.Context) {
	var in customersvc.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.message(c, http.StatusBadRequest, "register.errorFields")
		return
	}

	user, err := h.customer.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, messageKeys{invalid: "register.errorFields", upstream: "register.errorGeneric"})
		return
	}
	user.Password = ""
	c.JSON(http.StatusCreated, gin.H{
		"message": h.messages.T(h.lang(c), "register.success"),
		"user":    user,
	})
}

func (h *handlers) getAccount(c *gin.Context) {
	user, ok := h.customer.Current(currentSession(c))
	if !ok {
		h.message(c, http.StatusUnauthorized, "profile.notSignedIn")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toAccountView(user)})
}

func (h *handlers) updateAccount(c *gin.Context) {
	var in customersvc.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.message(c, http.StatusBadRequest, "errors.invalidInput")
		return
	}

	sess := currentSession(c)
	user, err := h.customer.UpdateProfile(c.Request.Context(), sess, in)
	if err != nil {
		h.fail(c, err, messageKeys{})
		return
	}
	if !h.commit(c, sess) {
		return
	}
	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"message": h.messages.T(h.lang(c), "profile.updated"),
		"user":    user,
	})
}

func (h *handlers) deleteAccount(c *gin.Context) {
	sess := currentSession(c)
	if err := h.customer.DeleteAccount(c.Request.Context(), sess); err != nil {
		h.fail(c, err, messageKeys{})
		return
	}
	if !h.commit(c, sess) {
		return
	}
	h.message(c, http.StatusOK, "profile.deleted")
}
