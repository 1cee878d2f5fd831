package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"stock-advisor/internal/dto"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/redisdb"
	"stock-advisor/pkg/utils"
)

const (
	patternTTL     = 30 * 24 * time.Hour
	regimeTTL      = 24 * time.Hour
	searchTTL      = 7 * 24 * time.Hour
	performanceTTL = 90 * 24 * time.Hour

	patternListKey = "success_patterns"
	regimeKey      = "market_regime"

	patternListCap = 100
	searchLogCap   = 50

	learningWriteTimeout = 10 * time.Second
)

// LearningService maintains the auxiliary learning state: success patterns,
// market regime, per-session search history, and performance tracking.
// Writes are fire-and-forget: dispatched off the request path, capped in
// concurrency, and never surfaced to the caller.
type LearningService struct {
	store redisdb.Store
	log   *logger.Logger
	sem   *semaphore.Weighted
}

func NewLearningService(store redisdb.Store, log *logger.Logger, maxInflightWrites int64) *LearningService {
	if maxInflightWrites <= 0 {
		maxInflightWrites = 8
	}
	return &LearningService{
		store: store,
		log:   log,
		sem:   semaphore.NewWeighted(maxInflightWrites),
	}
}

// dispatch schedules a learning write on a detached goroutine. When the
// in-flight cap is reached the write is dropped with a warning instead of
// queueing unbounded background work.
func (s *LearningService) dispatch(name string, fn func(ctx context.Context)) {
	if !s.sem.TryAcquire(1) {
		s.log.Warn("Dropping learning write, too many in flight", logger.StringField("op", name))
		return
	}
	utils.GoSafe(func() {
		defer s.sem.Release(1)
		ctx, cancel := context.WithTimeout(context.Background(), learningWriteTimeout)
		defer cancel()
		fn(ctx)
	})
}

// RecordSuccessPattern stores a summary of a successful recommendation batch
// both under a criteria-derived key and on the capped global pattern list.
func (s *LearningService) RecordSuccessPattern(criteria dto.Criteria, picks []dto.StockPick) {
	s.dispatch("record_success_pattern", func(ctx context.Context) {
		s.recordSuccessPattern(ctx, criteria, picks)
	})
}

func (s *LearningService) recordSuccessPattern(ctx context.Context, criteria dto.Criteria, picks []dto.StockPick) {
	results := make([]dto.PatternResult, 0, len(picks))
	for _, p := range picks {
		sector := p.Sector
		if sector == "" {
			sector = "unknown"
		}
		results = append(results, dto.PatternResult{
			Ticker:     p.Ticker,
			Sector:     sector,
			MarketCap:  p.MarketCapBillion,
			TargetGain: fmt.Sprintf("%.1f", (p.TargetPrice/p.EntryPrice-1)*100),
			RiskReward: p.RiskRewardRatio,
			Confidence: p.ProbabilityOfSuccess,
		})
	}

	pattern := dto.SuccessPattern{
		Criteria:     criteria,
		Results:      results,
		Timestamp:    utils.NowUnixMilli(),
		MarketRegime: s.CurrentMarketRegime(ctx),
	}

	encoded, err := json.Marshal(pattern)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode success pattern", logger.ErrorField(err))
		return
	}

	patternKey := fmt.Sprintf("pattern:%s:%s:%s", criteria.RiskAppetite, criteria.DiscoveryMethod, criteria.Timeframe)
	s.store.Set(ctx, patternKey, string(encoded), patternTTL)
	s.store.PushCapped(ctx, patternListKey, string(encoded), patternListCap)
}

// FetchSuccessPatterns returns up to the 20 most recent global patterns
// matching the caller's risk appetite and discovery method. Absence of data
// never blocks generation: any failure yields an empty slice.
func (s *LearningService) FetchSuccessPatterns(ctx context.Context, criteria dto.Criteria) []dto.SuccessPattern {
	entries := s.store.Range(ctx, patternListKey, 0, 19)

	var patterns []dto.SuccessPattern
	for _, entry := range entries {
		var p dto.SuccessPattern
		if err := json.Unmarshal([]byte(entry), &p); err != nil {
			continue
		}
		if p.Criteria.RiskAppetite == criteria.RiskAppetite && p.Criteria.DiscoveryMethod == criteria.DiscoveryMethod {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// UpdateMarketRegime overwrites the regime singleton wholesale.
func (s *LearningService) UpdateMarketRegime(ctx context.Context, regime string, indicators map[string]float64) {
	snapshot := dto.MarketRegime{
		Regime:     regime,
		Indicators: indicators,
		Timestamp:  utils.NowUnixMilli(),
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode market regime", logger.ErrorField(err))
		return
	}
	s.store.Set(ctx, regimeKey, string(encoded), regimeTTL)
}

// CurrentMarketRegime returns the stored regime label, or "unknown" when
// absent or unreadable.
func (s *LearningService) CurrentMarketRegime(ctx context.Context) string {
	raw, ok := s.store.Get(ctx, regimeKey)
	if !ok {
		return "unknown"
	}

	var snapshot dto.MarketRegime
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil || snapshot.Regime == "" {
		return "unknown"
	}
	return snapshot.Regime
}

// RecordUserSearch appends to the per-session search log and refreshes its
// TTL on every write.
func (s *LearningService) RecordUserSearch(sessionID string, criteria dto.Criteria, resultCount int) {
	if sessionID == "" {
		return
	}
	s.dispatch("record_user_search", func(ctx context.Context) {
		search := dto.UserSearch{
			Criteria:    criteria,
			ResultCount: resultCount,
			Timestamp:   utils.NowUnixMilli(),
		}

		encoded, err := json.Marshal(search)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to encode user search", logger.ErrorField(err))
			return
		}

		searchKey := fmt.Sprintf("user:%s:searches", sessionID)
		s.store.PushCapped(ctx, searchKey, string(encoded), searchLogCap)
		s.store.Expire(ctx, searchKey, searchTTL)
	})
}

// TrackPerformance writes a time-stamped tracking record for one
// recommendation. The key embeds the write time so records for the same
// ticker coexist; actual performance is reconciled by a later job.
func (s *LearningService) TrackPerformance(ticker string, snapshot dto.PerformanceSnapshot, actual *float64) {
	s.dispatch("track_performance", func(ctx context.Context) {
		now := utils.NowUnixMilli()
		record := dto.PerformanceRecord{
			Ticker:            ticker,
			Analysis:          snapshot,
			ActualPerformance: actual,
			Timestamp:         now,
		}

		encoded, err := json.Marshal(record)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to encode performance record", logger.ErrorField(err))
			return
		}

		s.store.Set(ctx, fmt.Sprintf("performance:%s:%d", ticker, now), string(encoded), performanceTTL)
	})
}
