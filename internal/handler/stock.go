package handler

import (
	"net/http"

	"github.com/GestharPDV/gesthar-pdv/internal/apierror"
	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/middleware"
	"github.com/GestharPDV/gesthar-pdv/internal/model"
	"github.com/GestharPDV/gesthar-pdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Add godoc
// @Summary      Register an inbound stock movement
// @Description  Increments variation stock and appends an immutable ledger entry.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AddStockRequest true "Movement data"
// @Success      200  {object} dto.VariationSnapshot
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/stock/add [post]
func (h *StockHandler) Add(c *gin.Context) {
	var req dto.AddStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	variationID, err := uuid.Parse(req.VariationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid variation_id"))
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.AddStock(c.Request.Context(), service.AddStockParams{
		VariationID: variationID,
		Quantity:    req.Quantity,
		UserID:      userID,
		UnitPrice:   req.UnitPrice,
		Type:        model.MovementType(req.Type),
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remove godoc
// @Summary      Register an outbound stock movement
// @Description  Decrements variation stock; fails if the removal would go below zero.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RemoveStockRequest true "Movement data"
// @Success      200  {object} dto.VariationSnapshot
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/stock/remove [post]
func (h *StockHandler) Remove(c *gin.Context) {
	var req dto.RemoveStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	variationID, err := uuid.Parse(req.VariationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid variation_id"))
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.RemoveStock(c.Request.Context(), service.RemoveStockParams{
		VariationID: variationID,
		Quantity:    req.Quantity,
		UserID:      userID,
		Type:        model.MovementType(req.Type),
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary      List stock movements
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        variation_id query string false "Filter by variation"
// @Param        type         query string false "IN | OUT | ADJUST_IN | ADJUST_OUT | SALE | RETURN"
// @Param        from         query string false "From date YYYY-MM-DD"
// @Param        to           query string false "To date YYYY-MM-DD (inclusive)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LowStock lists variations at or below their minimum stock.
func (h *StockHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
