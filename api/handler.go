package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_ledger/internal/report"
	"sales_ledger/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	catalog      report.Catalog
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, catalog report.Catalog, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		catalog:      catalog,
		logger:       logger,
	}
}

type createSaleRequest struct {
	Name   string           `json:"name" binding:"required"`
	Value  *decimal.Decimal `json:"value" binding:"required"`
	Buyer  string           `json:"buyer"`
	Status string           `json:"status"`
}

type updateSaleRequest struct {
	ID     string           `json:"id"`
	Name   *string          `json:"name"`
	Value  *decimal.Decimal `json:"value"`
	Buyer  *string          `json:"buyer"`
	Status *string          `json:"status"`
}

// writeError maps service errors to HTTP responses.
func (h *salesHandler) writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, sales.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "sale not found"})
	case errors.Is(err, sales.ErrInvalidStatus),
		errors.Is(err, sales.ErrNameRequired),
		errors.Is(err, sales.ErrInvalidValue):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// handleListSales handles the GET /api/sales endpoint.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	all, err := h.salesService.ListSales(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, all)
}

// handleCreateSale handles the POST /api/sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req createSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), sales.NewSale{
		Name:   req.Name,
		Value:  req.Value,
		Buyer:  req.Buyer,
		Status: sales.Status(req.Status),
	})
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// handleUpdateSale handles PUT /api/sales/:id and PUT /api/sales with the id in the body.
func (h *salesHandler) handleUpdateSale(ctx *gin.Context) {
	var req updateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id := ctx.Param("id")
	if id == "" {
		id = req.ID
	}
	if id == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "ID required"})
		return
	}

	patch := sales.SalePatch{Name: req.Name, Value: req.Value, Buyer: req.Buyer}
	if req.Status != nil {
		st := sales.Status(*req.Status)
		patch.Status = &st
	}

	updated, err := h.salesService.UpdateSale(ctx.Request.Context(), id, patch)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// handleDeleteSale handles DELETE /api/sales/:id and DELETE /api/sales?id=.
func (h *salesHandler) handleDeleteSale(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		id = ctx.Query("id")
	}
	if id == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "ID required"})
		return
	}

	if err := h.salesService.DeleteSale(ctx.Request.Context(), id); err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// handleSummary handles GET /api/sales/summary.
func (h *salesHandler) handleSummary(ctx *gin.Context) {
	all, err := h.salesService.ListSales(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, report.Summarize(all, h.catalog))
}

// handleProducts handles GET /api/products.
func (h *salesHandler) handleProducts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.catalog)
}
