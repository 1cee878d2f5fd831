package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stock-advisor/internal/dto"
)

func TestDeriveKey(t *testing.T) {
	base := dto.Criteria{
		Timeframe:       "1-2 weeks",
		RiskAppetite:    dto.RiskAppetiteModerate,
		DiscoveryMethod: "all",
	}

	tests := []struct {
		name        string
		criteria    dto.Criteria
		requestType string
		ticker      string
		want        string
	}{
		{
			name:        "discovery without ticker or model",
			criteria:    base,
			requestType: dto.RequestTypeDiscovery,
			want:        "discovery:moderate:all:1-2 weeks",
		},
		{
			name:        "analysis with ticker uppercased",
			criteria:    base,
			requestType: dto.RequestTypeAnalysis,
			ticker:      "nvda",
			want:        "analysis:moderate:all:1-2 weeks:NVDA",
		},
		{
			name: "model participates when set",
			criteria: dto.Criteria{
				Timeframe:       "1-2 weeks",
				RiskAppetite:    dto.RiskAppetiteModerate,
				DiscoveryMethod: "all",
				Model:           "gemini-2.0-flash",
			},
			requestType: dto.RequestTypeDiscovery,
			want:        "discovery:moderate:all:1-2 weeks:gemini-2.0-flash",
		},
		{
			name: "extraneous fields never influence the key",
			criteria: dto.Criteria{
				Timeframe:        "1-2 weeks",
				RiskAppetite:     dto.RiskAppetiteModerate,
				DiscoveryMethod:  "all",
				CatalystType:     "earnings",
				SectorPreference: "tech",
				NumberOfPicks:    7,
			},
			requestType: dto.RequestTypeDiscovery,
			want:        "discovery:moderate:all:1-2 weeks",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveKey(tt.criteria, tt.requestType, tt.ticker)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, DeriveKey(tt.criteria, tt.requestType, tt.ticker), "key derivation must be deterministic")
		})
	}
}

func TestDeriveKey_SensitiveToEveryComponent(t *testing.T) {
	base := dto.Criteria{
		Timeframe:       "1-2 weeks",
		RiskAppetite:    dto.RiskAppetiteModerate,
		DiscoveryMethod: "all",
	}
	baseKey := DeriveKey(base, dto.RequestTypeDiscovery, "")

	variants := map[string]dto.Criteria{
		"timeframe":        {Timeframe: "1-3 months", RiskAppetite: base.RiskAppetite, DiscoveryMethod: base.DiscoveryMethod},
		"risk appetite":    {Timeframe: base.Timeframe, RiskAppetite: dto.RiskAppetiteAggressive, DiscoveryMethod: base.DiscoveryMethod},
		"discovery method": {Timeframe: base.Timeframe, RiskAppetite: base.RiskAppetite, DiscoveryMethod: "emerging-growth"},
	}
	for field, criteria := range variants {
		assert.NotEqual(t, baseKey, DeriveKey(criteria, dto.RequestTypeDiscovery, ""), "changing %s must change the key", field)
	}

	assert.NotEqual(t, baseKey, DeriveKey(base, dto.RequestTypeAnalysis, ""))
	assert.NotEqual(t, baseKey, DeriveKey(base, dto.RequestTypeDiscovery, "AAPL"))
}
