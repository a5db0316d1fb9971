package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/handler/health"
	"github.com/jwalitptl/endoscopy-scheduler/internal/handler/prometheus"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/metrics"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/validator"
)

// Handler registers routes that need an authenticated caller.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, handler.Authorizer)
}

// PublicHandler registers routes open to anonymous callers.
type PublicHandler interface {
	RegisterPublicRoutes(*gin.RouterGroup)
}

type RouterConfig struct {
	CORSConfig     middleware.CORSConfig
	SecurityConfig middleware.SecurityConfig
	// RateLimit is nil when rate limiting is off.
	RateLimit      *middleware.RateLimiterConfig
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// MetricsPath is empty when the scrape endpoint is off.
	MetricsPath string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	health   *health.Handler
	metrics  *prometheus.Handler
	public   []PublicHandler
	handlers []Handler
	config   RouterConfig
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH *health.Handler,
	m *metrics.Metrics,
	logger zerolog.Logger,
	config RouterConfig,
	public []PublicHandler,
	handlers ...Handler,
) *Router {
	validator.Register()

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		health:   healthH,
		metrics:  prometheus.New(m),
		public:   public,
		handlers: handlers,
		config:   config,
	}

	// Logging and metrics wrap recovery so a panicking request is still
	// logged and counted.
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		r.metrics.Middleware(),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger, m),
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(config.SecurityConfig),
		middleware.Timeout(config.RequestTimeout),
	)

	if config.RateLimit != nil {
		engine.Use(middleware.NewRateLimiter(*config.RateLimit).RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	r.health.RegisterRoutes(r.engine.Group(""))
	if r.config.MetricsPath != "" {
		r.engine.GET(r.config.MetricsPath, r.metrics.Handler())
	}

	api := r.engine.Group("/api")
	api.Use(middleware.RequireJSON(r.config.MaxBodyBytes))

	for _, h := range r.public {
		h.RegisterPublicRoutes(api)
	}

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	for _, h := range r.handlers {
		h.RegisterRoutes(protected, r.auth)
	}

	r.engine.NoRoute(notFound)
}

func notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.URL.Path == "/api" {
		httputil.RespondNotFound(c, "API not found")
		return
	}
	httputil.RespondNotFound(c, http.StatusText(http.StatusNotFound))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
