package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/GestharPDV/gesthar-pdv/internal/dto"
	"github.com/GestharPDV/gesthar-pdv/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

// PriceCheckHandler serves the public price check endpoint.
// No authentication required, no side effects whatsoever.
type PriceCheckHandler struct {
	svc service.CatalogService
	rdb *redis.Client
}

func NewPriceCheckHandler(svc service.CatalogService, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{svc: svc, rdb: rdb}
}

// GetPriceBySKU godoc
// @Summary      Price check by SKU (no authentication)
// @Tags         price
// @Produce      json
// @Param        sku path string true "Variation SKU"
// @Success      200 {object} dto.PriceCheckResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price/{sku} [get]
func (h *PriceCheckHandler) GetPriceBySKU(c *gin.Context) {
	skuCode := c.Param("sku")
	ctx := c.Request.Context()
	cacheKey := "price:" + skuCode

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceCheckResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss, query DB
	resp, err := h.svc.PriceCheck(ctx, skuCode)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. Populate cache, best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
