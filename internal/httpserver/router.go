package httpserver

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/session"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps, opts Options) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.Messages == nil {
		return nil, errors.New("session store and message catalog are required")
	}
	if opts.CookieName == "" {
		opts.CookieName = "sf_session"
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	if len(opts.AllowedOrigins) > 0 {
		corsMW, err := corsMiddleware(opts.AllowedOrigins)
		if err != nil {
			return nil, err
		}
		router.Use(corsMW)
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Sessions))

	h := &handlers{
		logger:   logger,
		sessions: deps.Sessions,
		locks:    session.NewLocker(),
		opts:     opts,
		cart:     deps.CartSvc,
		products: deps.ProductSvc,
		orders:   deps.OrderSvc,
		customer: deps.CustomerSvc,
		messages: deps.Messages,
	}

	api := router.Group("/")
	api.Use(h.sessionMiddleware())

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.GET("/categories", h.listCategories)

	api.GET("/cart", h.getCart)
	api.POST("/cart/items", h.addCartItem)
	api.DELETE("/cart/items/:id", h.removeCartItem)
	api.POST("/cart/checkout", h.checkout)

	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)

	api.POST("/auth/login", h.login)
	api.POST("/auth/logout", h.logout)
	api.POST("/auth/register", h.register)
	api.GET("/account", h.getAccount)
	api.PUT("/account", h.updateAccount)
	api.DELETE("/account", h.deleteAccount)

	api.GET("/language", h.getLanguage)
	api.PUT("/language", h.setLanguage)

	return router, nil
}

func corsMiddleware(origins []string) (gin.HandlerFunc, error) {
	for _, o := range origins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return nil, fmt.Errorf("cors origin %q must start with http:// or https://", o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}), nil
}
