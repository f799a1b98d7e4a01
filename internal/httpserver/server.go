package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/fortune-service/internal/auth"
	"github.com/PratikDhanave/fortune-service/internal/fortune"
	"github.com/PratikDhanave/fortune-service/internal/handlers"
	"github.com/PratikDhanave/fortune-service/internal/history"
)

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the process-wide collaborators the router serves.
// Store and Verifier may be nil.
type Deps struct {
	Fortune        *fortune.Service
	History        *history.Service
	Verifier       *auth.Verifier
	Store          Pinger
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter wires public endpoints and the identity-aware APIs.
// Public: /health, /ready
// API: /api/fortune, /api/topics, /api/fortunes...
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logging(logger))
	r.Use(CORS(d.AllowedOrigins))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store is reachable when persistence is enabled.
	r.GET("/ready", func(c *gin.Context) {
		status := gin.H{
			"status":      "ready",
			"generation":  enabledString(d.Fortune.Configured()),
			"persistence": enabledString(d.Store != nil),
		}
		if d.Store == nil {
			c.JSON(http.StatusOK, status)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, status)
	})

	// Identity is optional here: handlers decide how to treat anonymous callers.
	api := r.Group("/")
	api.Use(auth.IdentityMiddleware(d.Verifier, logger))

	handlers.RegisterFortuneRoutes(api, d.Fortune)
	handlers.RegisterHistoryRoutes(api, d.History)

	return r
}

func enabledString(ok bool) string {
	if ok {
		return "enabled"
	}
	return "disabled"
}
