package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-advisor/internal/dto"
)

func (h *HttpAPIHandler) SetupMarketData(group *echo.Group) {
	group.GET("/market-data", h.GetMarketData)
}

func (h *HttpAPIHandler) GetMarketData(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	dataType := c.QueryParam("type")
	if dataType == "" {
		dataType = "overview"
	}

	ctx := c.Request().Context()

	if dataType == "stock" && symbol != "" {
		data, err := h.service.MarketDataService.GetStockData(ctx, symbol)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.MarketDataResponse{
				Success: false,
				Error:   err.Error(),
			})
		}
		return c.JSON(http.StatusOK, dto.MarketDataResponse{Success: true, Data: data})
	}

	overview, err := h.service.MarketDataService.GetOverview(ctx)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.MarketDataResponse{
			Success: false,
			Error:   err.Error(),
		})
	}
	return c.JSON(http.StatusOK, dto.MarketDataResponse{Success: true, Data: overview})
}
