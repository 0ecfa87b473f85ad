package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "storefront/internal/service/product"
)

func (h *handlers) listProducts(c *gin.Context) {
	filter := productsvc.Filter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}
	products, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, messageKeys{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, messageKeys{notFound: "cart.unknownProduct"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err, messageKeys{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
