package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stock-advisor/config"
	"stock-advisor/internal/dto"
	"stock-advisor/internal/repository"
	"stock-advisor/pkg/logger"
)

const (
	discoveryMaxTokens = 4000
	analysisMaxTokens  = 2000

	maxContextTrades = 10
)

// PicksService is the generation engine: cache-lookup, prompt assembly,
// model invocation, validation, cache write-back, and best-effort learning
// writes.
type PicksService struct {
	cfg        *config.Config
	log        *logger.Logger
	aiRepo     repository.AIRepository
	marketData repository.MarketDataRepository
	cache      *ResponseCacheService
	learning   *LearningService
	validator  *PickValidator
}

func NewPicksService(
	cfg *config.Config,
	log *logger.Logger,
	aiRepo repository.AIRepository,
	marketData repository.MarketDataRepository,
	cache *ResponseCacheService,
	learning *LearningService,
	validator *PickValidator,
) *PicksService {
	return &PicksService{
		cfg:        cfg,
		log:        log,
		aiRepo:     aiRepo,
		marketData: marketData,
		cache:      cache,
		learning:   learning,
		validator:  validator,
	}
}

// GeneratePicks runs the discovery flow for the given criteria. Cached
// results are returned as-is (marked cache-derived); a miss triggers a fresh
// generation, validated and written back with the discovery TTL.
func (s *PicksService) GeneratePicks(ctx context.Context, criteria dto.Criteria, sessionID string) (*dto.CachedResult, error) {
	if criteria.Model == "" {
		criteria.Model = s.aiRepo.ModelName()
	}

	if cached := s.cache.GetResult(ctx, criteria, dto.RequestTypeDiscovery, ""); cached != nil {
		s.log.InfoContext(ctx, "Using cached discovery result",
			logger.StringField("model", cached.ModelUsed),
		)
		s.learning.RecordUserSearch(sessionID, criteria, len(cached.Picks))
		return cached, nil
	}

	overview := s.gatherMarketContext(ctx)
	patterns := s.learning.FetchSuccessPatterns(ctx, criteria)

	prompt := repository.BuildDiscoveryPrompt(criteria, overview, patterns)

	s.log.InfoContext(ctx, "Generating discovery analysis",
		logger.StringField("model", criteria.Model),
		logger.IntField("pattern_context", len(patterns)),
	)

	raw, err := s.aiRepo.Generate(ctx, prompt, s.cfg.Gemini.Temperature, discoveryMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	picks, err := s.validator.ValidateAndRepair(ctx, raw, criteria)
	if err != nil {
		return nil, err
	}

	result := &dto.CachedResult{
		Picks:       picks,
		ModelUsed:   criteria.Model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	s.cache.StoreResult(ctx, criteria, dto.RequestTypeDiscovery, "", result, DiscoveryTTLHours)

	s.learning.RecordSuccessPattern(criteria, picks)
	s.learning.RecordUserSearch(sessionID, criteria, len(picks))
	for _, pick := range picks {
		s.learning.TrackPerformance(pick.Ticker, dto.PerformanceSnapshot{
			EntryPrice:    pick.EntryPrice,
			TargetPrice:   pick.TargetPrice,
			StopLossPrice: pick.StopLossPrice,
			Timeframe:     pick.Timeframe,
			Confidence:    pick.ProbabilityOfSuccess,
		}, nil)
	}

	return result, nil
}

// gatherMarketContext fetches the market overview for prompt context,
// trimmed to the most recent trades. Failures degrade to an empty context;
// generation proceeds without it.
func (s *PicksService) gatherMarketContext(ctx context.Context) *dto.MarketOverview {
	overview, err := s.marketData.MarketOverview(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Market context gathering failed", logger.ErrorField(err))
		return &dto.MarketOverview{LastUpdated: time.Now().UTC().Format(time.RFC3339)}
	}
	if len(overview.GovernmentTrades) > maxContextTrades {
		overview.GovernmentTrades = overview.GovernmentTrades[:maxContextTrades]
	}
	return overview
}

// aiAnalysisPayload matches the JSON the model is asked to produce for a
// single-ticker analysis.
type aiAnalysisPayload struct {
	Recommendation string  `json:"recommendation"`
	TargetPrice    float64 `json:"targetPrice"`
	StopLoss       float64 `json:"stopLoss"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale"`
	RiskLevel      string  `json:"riskLevel"`
	Timeframe      string  `json:"timeframe"`
	KeyMetrics     struct {
		PERatio    float64 `json:"peRatio"`
		Volatility float64 `json:"volatility"`
	} `json:"keyMetrics"`
}

// AnalyzeStock runs the single-ticker analysis flow, cached with the short
// analysis TTL to reflect intraday price drift.
func (s *PicksService) AnalyzeStock(ctx context.Context, ticker, model string) (*dto.CachedResult, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if model == "" {
		model = s.aiRepo.ModelName()
	}
	criteria := dto.Criteria{Model: model}

	if cached := s.cache.GetResult(ctx, criteria, dto.RequestTypeAnalysis, ticker); cached != nil && cached.Analysis != nil {
		s.log.InfoContext(ctx, "Using cached analysis result", logger.StringField("ticker", ticker))
		return cached, nil
	}

	data := s.cache.GetMarketSnapshot(ctx, ticker)
	if data == nil {
		fetched, err := s.marketData.ComprehensiveData(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch market data for %s: %w", ticker, err)
		}
		data = fetched
		s.cache.StoreMarketSnapshot(ctx, ticker, data)
	}

	prompt := repository.BuildAnalysisPrompt(ticker, data)

	raw, err := s.aiRepo.Generate(ctx, prompt, s.cfg.Gemini.Temperature, analysisMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	analysis, err := s.parseAnalysis(raw, ticker, data)
	if err != nil {
		return nil, err
	}

	result := &dto.CachedResult{
		Analysis:    analysis,
		ModelUsed:   model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.cache.StoreResult(ctx, criteria, dto.RequestTypeAnalysis, ticker, result, AnalysisTTLHours)

	s.learning.TrackPerformance(ticker, dto.PerformanceSnapshot{
		EntryPrice:    analysis.CurrentPrice,
		TargetPrice:   analysis.TargetPrice,
		StopLossPrice: analysis.StopLoss,
		Timeframe:     analysis.Timeframe,
		Confidence:    analysis.Confidence,
	}, nil)

	return result, nil
}

func (s *PicksService) parseAnalysis(raw, ticker string, data *dto.ComprehensiveStockData) (*dto.StockAnalysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("failed to parse AI response: %w", ErrNoJSONFound)
	}

	var payload aiAnalysisPayload
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	analysis := &dto.StockAnalysis{
		Ticker:         ticker,
		CompanyName:    data.Profile.Name,
		CurrentPrice:   data.Quote.Price,
		Recommendation: payload.Recommendation,
		TargetPrice:    payload.TargetPrice,
		StopLoss:       payload.StopLoss,
		Confidence:     payload.Confidence,
		Rationale:      payload.Rationale,
		RiskLevel:      payload.RiskLevel,
		Timeframe:      payload.Timeframe,
		KeyMetrics: dto.KeyMetrics{
			PERatio:    payload.KeyMetrics.PERatio,
			MarketCap:  fmt.Sprintf("$%.1fB", data.Profile.MarketCap/1e9),
			Volume:     fmt.Sprintf("%d", data.Quote.Volume),
			Volatility: payload.KeyMetrics.Volatility,
		},
		DataSource: "live",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	if analysis.Recommendation == "" {
		analysis.Recommendation = "HOLD"
	}
	if analysis.TargetPrice == 0 {
		analysis.TargetPrice = data.Quote.Price * 1.1
	}
	if analysis.StopLoss == 0 {
		analysis.StopLoss = data.Quote.Price * 0.9
	}
	if analysis.Confidence == 0 {
		analysis.Confidence = 75
	}
	if analysis.Rationale == "" {
		analysis.Rationale = "Analysis based on current market conditions and company fundamentals."
	}
	if analysis.RiskLevel == "" {
		analysis.RiskLevel = "MEDIUM"
	}
	if analysis.Timeframe == "" {
		analysis.Timeframe = "2-4 weeks"
	}
	if analysis.KeyMetrics.PERatio == 0 {
		analysis.KeyMetrics.PERatio = 25.0
	}
	if analysis.KeyMetrics.Volatility == 0 {
		analysis.KeyMetrics.Volatility = 0.25
	}

	return analysis, nil
}
