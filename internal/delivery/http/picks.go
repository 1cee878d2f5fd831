package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stock-advisor/internal/dto"
)

func (h *HttpAPIHandler) SetupPicks(group *echo.Group) {
	group.POST("/picks", h.GeneratePicks)
	group.GET("/analysis/:ticker", h.AnalyzeStock)
}

// GeneratePicks runs the discovery flow. Generation and validation failures
// are the only user-visible errors; cache and learning failures never
// surface here.
func (h *HttpAPIHandler) GeneratePicks(c echo.Context) error {
	var req dto.GeneratePicksRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.GeneratePicksResponse{
			Success: false,
			Error:   "invalid request body",
			Picks:   []dto.StockPick{},
		})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.GeneratePicksResponse{
			Success: false,
			Error:   err.Error(),
			Picks:   []dto.StockPick{},
		})
	}

	criteria := req.ToCriteria()
	result, err := h.service.PicksService.GeneratePicks(c.Request().Context(), criteria, req.SessionID)
	if err != nil {
		return c.JSON(http.StatusOK, dto.GeneratePicksResponse{
			Success: false,
			Error:   err.Error(),
			Picks:   []dto.StockPick{},
		})
	}

	return c.JSON(http.StatusOK, dto.GeneratePicksResponse{
		Success:     true,
		Picks:       result.Picks,
		GeneratedAt: result.GeneratedAt,
		Criteria:    &criteria,
		ModelUsed:   result.ModelUsed,
		FromCache:   result.FromCache,
	})
}

func (h *HttpAPIHandler) AnalyzeStock(c echo.Context) error {
	ticker := c.Param("ticker")
	model := c.QueryParam("model")

	result, err := h.service.PicksService.AnalyzeStock(c.Request().Context(), ticker, model)
	if err != nil {
		return c.JSON(http.StatusOK, dto.AnalysisResponse{
			Success: false,
			Error:   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, dto.AnalysisResponse{
		Success:  true,
		Analysis: result.Analysis,
	})
}
