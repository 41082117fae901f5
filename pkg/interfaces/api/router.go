// Package api exposes the blend tracking services over HTTP with gin.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsinha/blendtrack/pkg/application/services"
	"github.com/vsinha/blendtrack/pkg/infrastructure/logger"
	"github.com/vsinha/blendtrack/pkg/infrastructure/metrics"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the services and collaborators the router serves
type Deps struct {
	Catalog *services.CatalogService
	Recipes *services.RecipeService
	Blends  *services.BlendService
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil leaves the route out
	Gatherer prometheus.Gatherer
	// Health is optional; without it /healthz always reports ok
	Health HealthChecker
	Logger logger.Logger
}

type handler struct {
	catalog *services.CatalogService
	recipes *services.RecipeService
	blends  *services.BlendService
	health  HealthChecker
}

// NewRouter builds the gin engine with every route registered
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = logger.FromContext(context.Background())
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(log), MetricsMiddleware(m))

	h := &handler{
		catalog: deps.Catalog,
		recipes: deps.Recipes,
		blends:  deps.Blends,
		health:  deps.Health,
	}

	r.GET("/healthz", h.healthz)
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	customers := api.Group("/customers")
	{
		customers.GET("", h.listCustomers)
		customers.POST("", h.createCustomer)
		customers.GET("/:id", h.getCustomer)
		customers.DELETE("/:id", h.deleteCustomer)
	}
	products := api.Group("/products")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/:code", h.getProduct)
		products.DELETE("/:code", h.deleteProduct)
		products.GET("/:code/recipe", h.getRecipe)
		products.PUT("/:code/recipe", h.setRecipe)
	}
	tanks := api.Group("/tanks")
	{
		tanks.GET("", h.listTanks)
		tanks.POST("", h.createTank)
		tanks.GET("/:code", h.getTank)
		tanks.DELETE("/:code", h.deleteTank)
	}
	blends := api.Group("/blends")
	{
		blends.GET("", h.listBlends)
		blends.POST("", h.createBlend)
		blends.GET("/:id", h.getBlend)
		blends.DELETE("/:id", h.deleteBlend)
		blends.PATCH("/:id/status", h.updateBlendStatus)
		blends.GET("/:id/history", h.blendHistory)
		blends.GET("/:id/components", h.blendComponents)
	}
	api.GET("/blend-statuses", h.blendStatuses)
	api.GET("/sort-fields/:resource", h.sortFields)

	return r
}

func (h *handler) healthz(c *gin.Context) {
	if h.health != nil {
		if err := h.health.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
