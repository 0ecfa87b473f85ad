package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	cartsvc "storefront/internal/service/cart"
)

var cartMessages = messageKeys{invalid: "cart.missingId", notFound: "cart.unknownProduct"}

type cartResponse struct {
	cartsvc.View
	Message string `json:"message,omitempty"`
}

func (h *handlers) cartResponse(c *gin.Context, view cartsvc.View) cartResponse {
	resp := cartResponse{View: view}
	if view.Empty {
		resp.Message = h.messages.T(h.lang(c), "cart.empty")
	}
	return resp
}

func (h *handlers) getCart(c *gin.Context) {
	view := h.cart.Get(currentSession(c))
	c.JSON(http.StatusOK, h.cartResponse(c, view))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var in cartsvc.AddInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.message(c, http.StatusBadRequest, "errors.invalidInput")
		return
	}

	sess := currentSession(c)
	view, err := h.cart.Add(c.Request.Context(), sess, in)
	if err != nil {
		keys := cartMessages
		if errors.Is(err, cart.ErrInvalidPrice) {
			keys.invalid = "cart.invalidPrice"
		}
		h.fail(c, err, keys)
		return
	}
	if !h.commit(c, sess) {
		return
	}
	resp := h.cartResponse(c, view)
	resp.Message = h.messages.T(h.lang(c), "productCatalog.added")
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	sess := currentSession(c)
	view := h.cart.Remove(sess, cart.ProductID(c.Param("id")))
	if !h.commit(c, sess) {
		return
	}
	c.JSON(http.StatusOK, h.cartResponse(c, view))
}

// checkout empties the cart. Nothing is submitted anywhere.
func (h *handlers) checkout(c *gin.Context) {
	sess := currentSession(c)
	view := h.cart.Checkout(sess)
	if !h.commit(c, sess) {
		return
	}
	resp := h.cartResponse(c, view)
	resp.Message = h.messages.T(h.lang(c), "cart.checkedOut")
	c.JSON(http.StatusOK, resp)
}
