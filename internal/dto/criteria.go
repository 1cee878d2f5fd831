package dto

// Request types used for cache-key derivation.
const (
	RequestTypeDiscovery = "discovery"
	RequestTypeAnalysis  = "analysis"
)

const (
	RiskAppetiteConservative = "conservative"
	RiskAppetiteModerate     = "moderate"
	RiskAppetiteAggressive   = "aggressive"
)

// Criteria is the user-supplied filter set driving both generation prompts
// and cache-key derivation. It is immutable once submitted.
type Criteria struct {
	Timeframe        string `json:"timeframe"`
	RiskAppetite     string `json:"risk_appetite"`
	CatalystType     string `json:"catalyst_type"`
	SectorPreference string `json:"sector_preference"`
	DiscoveryMethod  string `json:"discovery_method"`
	NumberOfPicks    int    `json:"number_of_picks"`
	Model            string `json:"model"`
}

// MinRiskReward returns the minimum acceptable risk/reward ratio for the
// configured risk appetite.
func (c Criteria) MinRiskReward() float64 {
	switch c.RiskAppetite {
	case RiskAppetiteAggressive:
		return 2.0
	case RiskAppetiteModerate:
		return 1.5
	default:
		return 1.2
	}
}
