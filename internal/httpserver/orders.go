package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var orderMessages = messageKeys{notFound: "orderDetails.notFound", upstream: "orderDetails.error"}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.orders.History(c.Request.Context())
	if err != nil {
		h.fail(c, err, messageKeys{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *handlers) getOrder(c *gin.Context) {
	detail, err := h.orders.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, orderMessages)
		return
	}
	c.JSON(http.StatusOK, detail)
}
