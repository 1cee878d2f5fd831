package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-advisor/internal/dto"
)

func (h *HttpAPIHandler) SetupStatus(group *echo.Group) {
	group.GET("/status", h.GetStatus)
}

// GetStatus surfaces connectivity for operational dashboards: whether
// caching is configured, whether the store answers, and whether the market
// data provider is reachable.
func (h *HttpAPIHandler) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	resp := dto.StatusResponse{
		CachingEnabled: h.service.CacheService.Enabled(),
		MarketRegime:   h.service.LearningService.CurrentMarketRegime(ctx),
	}
	if resp.CachingEnabled {
		resp.CacheReachable = h.service.CacheService.Ping(ctx) == nil
	}
	resp.DataProviderOK = h.service.MarketDataService.Ping(ctx) == nil

	return c.JSON(http.StatusOK, resp)
}
