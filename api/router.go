package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sales_ledger/internal/report"
	"sales_ledger/internal/sales"
)

// Options carries what the router needs from the application.
type Options struct {
	Service        *sales.Service
	Catalog        report.Catalog
	Logger         *zap.Logger
	AppPassword    string
	SecureCookies  bool
	MetricsEnabled bool
}

// InitRoutes registers the sales ledger endpoints on the given Gin engine.
func InitRoutes(e *gin.Engine, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.AppPassword == "" {
		logger.Warn("APP_PASSWORD is not set, the sales API is open")
	}

	gate := newLoginGate(opts.AppPassword, opts.SecureCookies, logger)
	salesHandler := NewSalesHandler(opts.Service, opts.Catalog, logger)

	e.POST("/api/login", gate.handleLogin)
	e.POST("/api/logout", gate.handleLogout)

	api := e.Group("/api", gate.requireAuth)
	api.GET("/sales", salesHandler.handleListSales)
	api.POST("/sales", salesHandler.handleCreateSale)
	api.PUT("/sales", salesHandler.handleUpdateSale)
	api.PUT("/sales/:id", salesHandler.handleUpdateSale)
	api.DELETE("/sales", salesHandler.handleDeleteSale)
	api.DELETE("/sales/:id", salesHandler.handleDeleteSale)
	api.GET("/sales/summary", salesHandler.handleSummary)
	api.GET("/products", salesHandler.handleProducts)

	if opts.MetricsEnabled {
		e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
