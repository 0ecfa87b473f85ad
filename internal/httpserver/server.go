package httpserver

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/i18n"
	cartsvc "storefront/internal/service/cart"
	customersvc "storefront/internal/service/customer"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
	"storefront/internal/session"
)

// sessionStore is the part of the session repository the server needs.
type sessionStore interface {
	Load(ctx context.Context, id string) (map[string][]byte, error)
	Save(ctx context.Context, id string, values map[string][]byte) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP layer.
type Deps struct {
	Sessions    sessionStore
	CartSvc     *cartsvc.Service
	ProductSvc  *productsvc.Service
	OrderSvc    *ordersvc.Service
	CustomerSvc *customersvc.Service
	Messages    *i18n.Catalog
}

// Options tune the session cookie and CORS.
type Options struct {
	CookieName     string
	CookieTTL      time.Duration
	SecureCookie   bool
	AllowedOrigins []string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with all storefront routes.
func New(addr string, logger *log.Logger, deps Deps, opts Options) (*Server, error) {
	router, err := buildRouter(logger, deps, opts)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(sessions sessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "session store not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := sessions.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "session store not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

type handlers struct {
	logger   *log.Logger
	sessions sessionStore
	locks    *session.Locker
	opts     Options
	cart     *cartsvc.Service
	products *productsvc.Service
	orders   *ordersvc.Service
	customer *customersvc.Service
	messages *i18n.Catalog
}
