package dto

// GeneratePicksRequest is the discovery endpoint body.
type GeneratePicksRequest struct {
	Timeframe        string `json:"timeframe" validate:"required"`
	RiskAppetite     string `json:"risk_appetite" validate:"required,oneof=conservative moderate aggressive"`
	CatalystType     string `json:"catalyst_type" validate:"required"`
	SectorPreference string `json:"sector_preference" validate:"required"`
	DiscoveryMethod  string `json:"discovery_method" validate:"required"`
	NumberOfPicks    int    `json:"number_of_picks" validate:"omitempty,min=1,max=10"`
	Model            string `json:"model"`
	SessionID        string `json:"session_id"`
}

func (r GeneratePicksRequest) ToCriteria() Criteria {
	return Criteria{
		Timeframe:        r.Timeframe,
		RiskAppetite:     r.RiskAppetite,
		CatalystType:     r.CatalystType,
		SectorPreference: r.SectorPreference,
		DiscoveryMethod:  r.DiscoveryMethod,
		NumberOfPicks:    r.NumberOfPicks,
		Model:            r.Model,
	}
}

type GeneratePicksResponse struct {
	Success     bool        `json:"success"`
	Picks       []StockPick `json:"picks"`
	GeneratedAt string      `json:"generated_at,omitempty"`
	Criteria    *Criteria   `json:"criteria,omitempty"`
	ModelUsed   string      `json:"model_used,omitempty"`
	FromCache   bool        `json:"from_cache"`
	Error       string      `json:"error,omitempty"`
}

type AnalysisResponse struct {
	Success  bool           `json:"success"`
	Analysis *StockAnalysis `json:"analysis,omitempty"`
	Error    string         `json:"error,omitempty"`
}

type StatusResponse struct {
	CachingEnabled bool   `json:"caching_enabled"`
	CacheReachable bool   `json:"cache_reachable"`
	DataProviderOK bool   `json:"data_provider_ok"`
	MarketRegime   string `json:"market_regime"`
}

type MarketDataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
