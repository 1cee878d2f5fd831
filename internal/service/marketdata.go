package service

import (
	"context"

	"stock-advisor/internal/dto"
	"stock-advisor/internal/repository"
	"stock-advisor/pkg/logger"
)

// MarketDataService serves the market-data pass-through endpoint, fronting
// the aggregator with the short-lived snapshot cache.
type MarketDataService struct {
	marketData repository.MarketDataRepository
	cache      *ResponseCacheService
	log        *logger.Logger
}

func NewMarketDataService(marketData repository.MarketDataRepository, cache *ResponseCacheService, log *logger.Logger) *MarketDataService {
	return &MarketDataService{
		marketData: marketData,
		cache:      cache,
		log:        log,
	}
}

func (s *MarketDataService) GetStockData(ctx context.Context, ticker string) (*dto.ComprehensiveStockData, error) {
	if cached := s.cache.GetMarketSnapshot(ctx, ticker); cached != nil {
		return cached, nil
	}

	data, err := s.marketData.ComprehensiveData(ctx, ticker)
	if err != nil {
		return nil, err
	}
	s.cache.StoreMarketSnapshot(ctx, ticker, data)
	return data, nil
}

func (s *MarketDataService) GetOverview(ctx context.Context) (*dto.MarketOverview, error) {
	return s.marketData.MarketOverview(ctx)
}

// Ping reports provider reachability for the status surface.
func (s *MarketDataService) Ping(ctx context.Context) error {
	return s.marketData.Ping(ctx)
}
