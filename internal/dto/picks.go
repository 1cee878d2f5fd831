package dto

// StockPick is a single structured stock recommendation parsed from the
// model output. The validation engine mutates it in place (price repair,
// ratio recomputation, default filling); after acceptance into a cached
// result set it is never mutated again.
type StockPick struct {
	Ticker               string   `json:"ticker"`
	CompanyName          string   `json:"companyName"`
	EntryPrice           float64  `json:"entryPrice"`
	TargetPrice          float64  `json:"targetPrice"`
	StopLossPrice        float64  `json:"stopLossPrice"`
	RiskRewardRatio      float64  `json:"riskRewardRatio"`
	Timeframe            string   `json:"timeframe"`
	Rationale            string   `json:"rationale"`
	Tags                 []string `json:"tags"`
	ProbabilityOfSuccess float64  `json:"probabilityOfSuccess"`
	MarketCapBillion     float64  `json:"marketCapBillion"`
	Sector               string   `json:"sector"`
	Catalysts            []string `json:"catalysts"`
	TechnicalSignals     []string `json:"technicalSignals"`
	RiskFactors          []string `json:"riskFactors"`
}

// PicksPayload is the JSON envelope expected inside the raw model output.
type PicksPayload struct {
	Picks []StockPick `json:"picks"`
}

// CachedResult is the payload stored through the response cache for both
// discovery batches and single-ticker analyses. FromCache and CachedAt are
// zero on a fresh generation and filled in by the cache manager on read-back
// so callers can tell reused results from fresh ones.
type CachedResult struct {
	Picks       []StockPick    `json:"picks,omitempty"`
	Analysis    *StockAnalysis `json:"analysis,omitempty"`
	ModelUsed   string         `json:"model_used"`
	GeneratedAt string         `json:"generated_at,omitempty"`
	FromCache   bool           `json:"from_cache"`
	CachedAt    int64          `json:"cached_at,omitempty"`
}

// StockAnalysis is the single-ticker recommendation produced by the analysis
// flow.
type StockAnalysis struct {
	Ticker         string      `json:"ticker"`
	CompanyName    string      `json:"company_name"`
	CurrentPrice   float64     `json:"current_price"`
	Recommendation string      `json:"recommendation"`
	TargetPrice    float64     `json:"target_price"`
	StopLoss       float64     `json:"stop_loss"`
	Confidence     float64     `json:"confidence"`
	Rationale      string      `json:"rationale"`
	RiskLevel      string      `json:"risk_level"`
	Timeframe      string      `json:"timeframe"`
	KeyMetrics     KeyMetrics  `json:"key_metrics"`
	DataSource     string      `json:"data_source,omitempty"`
	Timestamp      string      `json:"timestamp,omitempty"`
}

type KeyMetrics struct {
	PERatio    float64 `json:"pe_ratio"`
	MarketCap  string  `json:"market_cap"`
	Volume     string  `json:"volume"`
	Volatility float64 `json:"volatility"`
}
