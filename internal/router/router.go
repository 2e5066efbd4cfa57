package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/handler"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/middleware"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/timeparse"
)

// Handler registers a route subtree.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	h       *handler.Handler
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Config struct {
	RateLimit      rate.Limit
	RateBurst      int
	RequestTimeout time.Duration
	MetricsPrefix  string
}

func NewRouter(h *handler.Handler, config Config, handlers ...Handler) *Router {
	gin.SetMode(gin.ReleaseMode)
	RegisterValidators()

	engine := gin.New()

	r := &Router{
		engine:  engine,
		h:       h,
		metrics: initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.Timeout(config.RequestTimeout))
	engine.Use(middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	}).RateLimit())
	engine.Use(r.observe())

	engine.GET("/health/live", h.LivenessCheck)
	engine.GET("/health/ready", h.ReadinessCheck)
	engine.GET("/metrics", h.MetricsHandler)

	api := engine.Group("/api/v1")
	for _, hdl := range handlers {
		hdl.RegisterRoutes(api)
	}

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, route, statusClass(status)).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
	}
}

// RegisterValidators wires the "interval" binding tag so malformed
// recurrence steps are rejected at the edge with the rest of the
// request validation. Safe to call more than once.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("interval", func(fl validator.FieldLevel) bool {
			_, err := timeparse.ParseInterval(fl.Field().String())
			return err == nil
		})
	}
}
