package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/metrics"
	"github.com/mamadbah2/dyecalc/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by New.
type Handlers struct {
	Requisitions *handlers.RequisitionHandler
	Recipes      *handlers.RecipeHandler
	Production   *handlers.ProductionHandler
	Invoices     *handlers.InvoiceHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/calculate/quantity", h.Requisitions.Quantity)

	reqs := api.Group("/requisitions")
	reqs.POST("/new", h.Requisitions.New)
	reqs.POST("/form", h.Requisitions.Form)
	reqs.POST("/items", h.Requisitions.Items)
	reqs.POST("/pdf", h.Requisitions.PDF)

	recipes := api.Group("/recipes")
	recipes.POST("", h.Recipes.Save)
	recipes.GET("", h.Recipes.List)
	recipes.GET("/:id", h.Recipes.Get)
	recipes.GET("/:id/pdf", h.Recipes.PDF)
	recipes.DELETE("/:id", h.Recipes.Delete)

	invoices := api.Group("/invoices")
	invoices.POST("/totals", h.Invoices.Totals)
	invoices.POST("/pdf", h.Invoices.PDF)

	production := api.Group("/production")
	production.POST("", h.Production.Create)
	production.GET("", h.Production.List)
	production.POST("/extract", h.Production.Extract)

	api.GET("/dashboard", h.Production.Dashboard)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// metricsMiddleware labels by route template so ids do not explode cardinality.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
