package dto

// PatternResult summarizes one validated pick inside a success pattern.
type PatternResult struct {
	Ticker     string  `json:"ticker"`
	Sector     string  `json:"sector"`
	MarketCap  float64 `json:"market_cap"`
	TargetGain string  `json:"target_gain"`
	RiskReward float64 `json:"risk_reward"`
	Confidence float64 `json:"confidence"`
}

// SuccessPattern records a successful recommendation batch for future prompt
// context. Stored both under a criteria-derived key (30-day TTL) and in the
// capped global list.
type SuccessPattern struct {
	Criteria     Criteria        `json:"criteria"`
	Results      []PatternResult `json:"results"`
	Timestamp    int64           `json:"timestamp"`
	MarketRegime string          `json:"market_regime"`
}

// MarketRegime is the singleton snapshot of current market conditions,
// overwritten wholesale on update with a 24-hour TTL.
type MarketRegime struct {
	Regime     string             `json:"regime"`
	Indicators map[string]float64 `json:"indicators"`
	Timestamp  int64              `json:"timestamp"`
}

// UserSearch is one entry of the per-session search log (cap 50, 7-day TTL).
type UserSearch struct {
	Criteria    Criteria `json:"criteria"`
	ResultCount int      `json:"result_count"`
	Timestamp   int64    `json:"timestamp"`
}

// PerformanceSnapshot captures the recommendation levels at generation time.
type PerformanceSnapshot struct {
	EntryPrice    float64 `json:"entry_price"`
	TargetPrice   float64 `json:"target_price"`
	StopLossPrice float64 `json:"stop_loss_price"`
	Timeframe     string  `json:"timeframe"`
	Confidence    float64 `json:"confidence"`
}

// PerformanceRecord tracks a recommendation for post-hoc reconciliation.
// ActualPerformance stays nil at write time and is filled by a later job.
type PerformanceRecord struct {
	Ticker            string              `json:"ticker"`
	Analysis          PerformanceSnapshot `json:"analysis"`
	ActualPerformance *float64            `json:"actual_performance,omitempty"`
	Timestamp         int64               `json:"timestamp"`
}
