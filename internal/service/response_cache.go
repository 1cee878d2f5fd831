package service

import (
	"context"
	"encoding/json"
	"time"

	"stock-advisor/internal/dto"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/redisdb"
	"stock-advisor/pkg/utils"
)

// Expiration policy per request type. Discovery batches stay useful for
// hours; single-ticker analyses go stale with intraday price drift.
const (
	DiscoveryTTLHours = 4.0
	AnalysisTTLHours  = 0.25

	snapshotTTLMinutes = 15

	aiKeyPrefix     = "ai:"
	marketKeyPrefix = "market:"
)

type cacheEnvelope struct {
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
	Model     string          `json:"model,omitempty"`
	Source    string          `json:"source,omitempty"`
}

// ResponseCacheService wraps the KV store with the tiered expiration policy
// for generated results and market-data snapshots.
type ResponseCacheService struct {
	store redisdb.Store
	log   *logger.Logger
}

func NewResponseCacheService(store redisdb.Store, log *logger.Logger) *ResponseCacheService {
	return &ResponseCacheService{store: store, log: log}
}

func (s *ResponseCacheService) Enabled() bool {
	return s.store.Enabled()
}

// Ping reports store reachability for the status surface.
func (s *ResponseCacheService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// StoreResult caches a generated result under the criteria-derived key.
// Failures are swallowed by the store layer: caching is a cost optimization,
// never a correctness requirement.
func (s *ResponseCacheService) StoreResult(ctx context.Context, criteria dto.Criteria, requestType, ticker string, result *dto.CachedResult, ttlHours float64) {
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode cache payload", logger.ErrorField(err))
		return
	}

	envelope := cacheEnvelope{
		Payload:   payload,
		Timestamp: utils.NowUnixMilli(),
		Model:     result.ModelUsed,
	}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode cache envelope", logger.ErrorField(err))
		return
	}

	key := aiKeyPrefix + DeriveKey(criteria, requestType, ticker)
	ttl := time.Duration(ttlHours * float64(time.Hour))
	s.store.Set(ctx, key, string(encoded), ttl)
}

// GetResult returns the cached result for the criteria combination, marked
// as cache-derived, or nil on miss. Corrupt entries are treated as misses.
func (s *ResponseCacheService) GetResult(ctx context.Context, criteria dto.Criteria, requestType, ticker string) *dto.CachedResult {
	key := aiKeyPrefix + DeriveKey(criteria, requestType, ticker)

	raw, ok := s.store.Get(ctx, key)
	if !ok {
		return nil
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		s.log.WarnContext(ctx, "Discarding corrupt cache entry",
			logger.StringField("key", key),
			logger.ErrorField(err),
		)
		return nil
	}

	var result dto.CachedResult
	if err := json.Unmarshal(envelope.Payload, &result); err != nil {
		s.log.WarnContext(ctx, "Discarding corrupt cache payload",
			logger.StringField("key", key),
			logger.ErrorField(err),
		)
		return nil
	}

	result.FromCache = true
	result.CachedAt = envelope.Timestamp
	return &result
}

// StoreMarketSnapshot caches comprehensive market data for a ticker with a
// short expiration.
func (s *ResponseCacheService) StoreMarketSnapshot(ctx context.Context, ticker string, data *dto.ComprehensiveStockData) {
	payload, err := json.Marshal(data)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode market snapshot", logger.ErrorField(err))
		return
	}

	envelope := cacheEnvelope{
		Payload:   payload,
		Timestamp: utils.NowUnixMilli(),
		Source:    "live-api",
	}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to encode market snapshot envelope", logger.ErrorField(err))
		return
	}

	s.store.Set(ctx, marketKeyPrefix+ticker, string(encoded), snapshotTTLMinutes*time.Minute)
}

// GetMarketSnapshot returns the cached snapshot if one exists and is still
// fresh. The read-side age check backs up store-side expiry for stores with
// eventually-consistent key expiration.
func (s *ResponseCacheService) GetMarketSnapshot(ctx context.Context, ticker string) *dto.ComprehensiveStockData {
	raw, ok := s.store.Get(ctx, marketKeyPrefix+ticker)
	if !ok {
		return nil
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		s.log.WarnContext(ctx, "Discarding corrupt market snapshot",
			logger.StringField("ticker", ticker),
			logger.ErrorField(err),
		)
		return nil
	}

	age := utils.NowUnixMilli() - envelope.Timestamp
	if age >= int64(snapshotTTLMinutes*time.Minute/time.Millisecond) {
		return nil
	}

	var data dto.ComprehensiveStockData
	if err := json.Unmarshal(envelope.Payload, &data); err != nil {
		return nil
	}
	return &data
}
