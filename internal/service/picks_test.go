package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-advisor/config"
	"stock-advisor/internal/dto"
	"stock-advisor/pkg/logger"
)

func newPicksService(store *fakeStore, market *fakeMarketData, ai *fakeAIRepo) *PicksService {
	cfg := &config.Config{Gemini: config.Gemini{Temperature: 0.3}}
	log := logger.NewNop()
	cache := NewResponseCacheService(store, log)
	learning := NewLearningService(store, log, 8)
	validator := NewPickValidator(market, log)
	return NewPicksService(cfg, log, ai, market, cache, learning, validator)
}

func TestGeneratePicks_FreshGenerationThenCacheHit(t *testing.T) {
	store := newFakeStore()
	market := &fakeMarketData{
		validTickers: map[string]bool{"NVDA": true},
		quotes: map[string]*dto.QuickQuote{
			"NVDA": {Ticker: "NVDA", Price: 100, CompanyName: "NVIDIA Inc"},
		},
	}
	ai := &fakeAIRepo{
		response: `{"picks": [{"ticker": "NVDA", "companyName": "NVIDIA", "entryPrice": 95, "targetPrice": 130, "stopLossPrice": 92}]}`,
	}
	svc := newPicksService(store, market, ai)
	ctx := context.Background()

	result, err := svc.GeneratePicks(ctx, moderateCriteria(), "session-1")
	require.NoError(t, err)
	require.Len(t, result.Picks, 1)
	assert.False(t, result.FromCache)
	assert.Equal(t, "gemini-2.0-flash", result.ModelUsed)
	assert.Equal(t, 100.0, result.Picks[0].EntryPrice)
	assert.Equal(t, 1, ai.callCount())

	// Second identical request is served from cache without a model call.
	cached, err := svc.GeneratePicks(ctx, moderateCriteria(), "session-1")
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Greater(t, cached.CachedAt, int64(0))
	assert.Equal(t, result.Picks, cached.Picks)
	assert.Equal(t, 1, ai.callCount())

	// Learning writes land asynchronously after a successful generation.
	require.Eventually(t, func() bool {
		return store.listLen(patternListKey) == 1 && store.listLen("user:session-1:searches") >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestGeneratePicks_GenerationFailure(t *testing.T) {
	store := newFakeStore()
	ai := &fakeAIRepo{err: errors.New("model overloaded")}
	svc := newPicksService(store, &fakeMarketData{}, ai)

	result, err := svc.GeneratePicks(context.Background(), moderateCriteria(), "")
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "generation failed")
}

func TestGeneratePicks_ValidationFailureNotCached(t *testing.T) {
	store := newFakeStore()
	market := &fakeMarketData{validTickers: map[string]bool{}}
	ai := &fakeAIRepo{
		response: `{"picks": [{"ticker": "FAKE", "companyName": "Fake Co", "entryPrice": 10, "targetPrice": 12, "stopLossPrice": 9}]}`,
	}
	svc := newPicksService(store, market, ai)

	result, err := svc.GeneratePicks(context.Background(), moderateCriteria(), "")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoValidPicks)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.data, "failed generations must not be cached")
}

func TestGeneratePicks_MarketContextFailureDoesNotBlock(t *testing.T) {
	store := newFakeStore()
	market := &fakeMarketData{
		validTickers: map[string]bool{"NVDA": true},
		quotes: map[string]*dto.QuickQuote{
			"NVDA": {Ticker: "NVDA", Price: 100, CompanyName: "NVIDIA Inc"},
		},
		overviewErr: errors.New("aggregator down"),
	}
	ai := &fakeAIRepo{
		response: `{"picks": [{"ticker": "NVDA", "companyName": "NVIDIA", "entryPrice": 95, "targetPrice": 130, "stopLossPrice": 92}]}`,
	}
	svc := newPicksService(store, market, ai)

	result, err := svc.GeneratePicks(context.Background(), moderateCriteria(), "")
	require.NoError(t, err)
	require.Len(t, result.Picks, 1)
}

func TestAnalyzeStock(t *testing.T) {
	store := newFakeStore()
	market := &fakeMarketData{
		comprehensive: &dto.ComprehensiveStockData{
			Quote:   dto.QuickQuote{Ticker: "NVDA", Price: 100, CompanyName: "NVIDIA Inc", Volume: 1000000},
			Profile: dto.StockProfile{Name: "NVIDIA Inc", MarketCap: 900e9, Sector: "Technology"},
		},
	}
	ai := &fakeAIRepo{
		response: `{"recommendation": "BUY", "targetPrice": 120, "stopLoss": 90, "confidence": 80, "rationale": "Momentum", "riskLevel": "HIGH", "timeframe": "1-2 weeks", "keyMetrics": {"peRatio": 40, "volatility": 0.4}}`,
	}
	svc := newPicksService(store, market, ai)
	ctx := context.Background()

	result, err := svc.AnalyzeStock(ctx, "nvda", "")
	require.NoError(t, err)
	require.NotNil(t, result.Analysis)

	analysis := result.Analysis
	assert.Equal(t, "NVDA", analysis.Ticker)
	assert.Equal(t, "NVIDIA Inc", analysis.CompanyName)
	assert.Equal(t, 100.0, analysis.CurrentPrice)
	assert.Equal(t, "BUY", analysis.Recommendation)
	assert.Equal(t, 120.0, analysis.TargetPrice)
	assert.Equal(t, "$900.0B", analysis.KeyMetrics.MarketCap)

	// Cached on the short analysis TTL.
	key := aiKeyPrefix + DeriveKey(dto.Criteria{Model: ai.ModelName()}, dto.RequestTypeAnalysis, "NVDA")
	assert.Equal(t, 15*time.Minute, store.ttl(key))

	cached, err := svc.AnalyzeStock(ctx, "NVDA", "")
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Equal(t, 1, ai.callCount())
}

func TestAnalyzeStock_DefaultsOnSparseResponse(t *testing.T) {
	store := newFakeStore()
	market := &fakeMarketData{
		comprehensive: &dto.ComprehensiveStockData{
			Quote:   dto.QuickQuote{Ticker: "NVDA", Price: 100, CompanyName: "NVIDIA Inc"},
			Profile: dto.StockProfile{Name: "NVIDIA Inc", MarketCap: 900e9},
		},
	}
	ai := &fakeAIRepo{response: `{}`}
	svc := newPicksService(store, market, ai)

	result, err := svc.AnalyzeStock(context.Background(), "NVDA", "")
	require.NoError(t, err)
	require.NotNil(t, result.Analysis)

	analysis := result.Analysis
	assert.Equal(t, "HOLD", analysis.Recommendation)
	assert.InDelta(t, 110.0, analysis.TargetPrice, 0.001)
	assert.InDelta(t, 90.0, analysis.StopLoss, 0.001)
	assert.Equal(t, 75.0, analysis.Confidence)
	assert.Equal(t, "MEDIUM", analysis.RiskLevel)
	assert.Equal(t, "2-4 weeks", analysis.Timeframe)
	assert.Equal(t, 25.0, analysis.KeyMetrics.PERatio)
}

func TestAnalyzeStock_TickerRequired(t *testing.T) {
	svc := newPicksService(newFakeStore(), &fakeMarketData{}, &fakeAIRepo{})

	result, err := svc.AnalyzeStock(context.Background(), "  ", "")
	assert.Nil(t, result)
	assert.Error(t, err)
}
