// Package httpapi wires the HTTP transport (Gin) to the application services,
// middleware and route handlers. Cross-cutting concerns live here: tracing,
// correlation IDs, redacted access logs, panic recovery, compression, metrics,
// idempotency, rate limiting, CORS and security headers.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/giftfndr-backend/internal/catalog"
	"github.com/tbourn/giftfndr-backend/internal/clock"
	"github.com/tbourn/giftfndr-backend/internal/config"
	"github.com/tbourn/giftfndr-backend/internal/http/handlers"
	"github.com/tbourn/giftfndr-backend/internal/http/middleware"
	"github.com/tbourn/giftfndr-backend/internal/services"
)

// maxBodyBytes caps every request body. Share payloads hold at most a handful
// of suggestions, so 1 MiB is generous.
const maxBodyBytes = 1 << 20

// Services bundles what the routes call into.
type Services struct {
	Suggest *services.SuggestionService
	Share   *services.ShareService
}

// NewServices builds the suggestion and share services from configuration.
// A nil completer disables generation; every request then gets the fallback
// catalog.
func NewServices(store services.ShareStore, completer services.Completer, clk clock.Clock, cfg config.Config) Services {
	links := catalog.NewLinker(cfg.Links.ImageBaseURL, cfg.Links.SearchURL, cfg.Links.AffiliateTag)
	return Services{
		Suggest: services.NewSuggestionService(completer, links, cfg.LLM.Timeout),
		Share:   services.NewShareService(store, clk, cfg.Share.TTL, cfg.Share.MaxResults, cfg.IdempotencyTTL),
	}
}

// RegisterRoutes attaches all middleware and endpoints to r.
//
// Middleware order matters:
//  1. OpenTelemetry
//  2. RequestID
//  3. RedactingLogger
//  4. Recovery (after the logger so panics carry the request id)
//  5. Body size limit
//  6. gzip
//  7. Metrics
//  8. CORS and security headers
//
// Rate limiting is attached per route. Only the share write runs the
// Idempotency-Key validator ahead of its limiter, so a replayed key can skip
// the limiter there and nowhere else.
func RegisterRoutes(r *gin.Engine, svc Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key", middleware.HeaderIdempotencyKey},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(maxBodyBytes))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderIdempotencyKey, "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Idempotency-Replayed"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Set ACAO even without an Origin header so plain clients see it too.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		corsCfg.AllowAllOrigins = true
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      true,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc.Suggest, svc.Share, cfg.Links.PublicBaseURL)

	limit := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClient()).Handler()
	idem := middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, client, key string, _ time.Time) (bool, error) {
			// The share service owns the window, so judge it by the service clock.
			return svc.Share.SeenIdempotencyKey(ctx, client, key, svc.Share.Clock.Now())
		},
	)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.POST("/suggest", limit, h.Suggest)
		api.POST("/share", idem, limit, h.CreateShare)
		api.GET(shareReadPath(cfg.APIBasePath), limit, h.GetShare)
	}

	// Public share links live outside the API prefix.
	r.GET("/share/:id", limit, h.OpenShare)
}

// shareReadPath is where the JSON share read is mounted inside the API group.
// With a root prefix the plain path belongs to the public link.
func shareReadPath(apiBase string) string {
	if apiBase == "" || apiBase == "/" {
		return "/share/:id/data"
	}
	return "/share/:id"
}

// limitBody caps the request body at maxBytes; reads beyond it fail with
// *http.MaxBytesError.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
