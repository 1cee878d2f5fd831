package repository

import (
	"fmt"
	"strings"

	"stock-advisor/internal/dto"
)

var discoveryPrompts = map[string]string{
	"emerging-growth": `Focus on emerging growth companies with:
- Revenue growth >25% YoY
- Market cap $500M-$10B
- Strong competitive moats
- Expanding addressable markets
- Recent positive catalysts`,

	"international-plays": `Focus on international opportunities:
- ADRs of strong foreign companies
- Currency-advantaged plays
- Emerging market leaders
- Global expansion stories
- Geopolitical beneficiaries`,

	"sector-rotation": `Focus on sector rotation opportunities:
- Sectors showing relative strength
- Cyclical turning points
- Policy beneficiaries
- Supply/demand imbalances
- Institutional rotation patterns`,

	"thematic-plays": `Focus on thematic investment opportunities:
- AI/ML transformation
- Energy transition
- Demographics shifts
- Infrastructure modernization
- Digital transformation`,

	"undervalued-gems": `Focus on undervalued opportunities:
- P/E ratios below sector average
- Strong balance sheets
- Hidden assets or catalysts
- Temporary headwinds resolving
- Management changes or activism`,

	"all": `Comprehensive analysis across all discovery methods:
- Emerging growth opportunities
- International plays and ADRs
- Sector rotation beneficiaries
- Thematic investment trends
- Undervalued gems with catalysts`,
}

var catalystPrompts = map[string]string{
	"technical":       "Focus on technical analysis signals: breakouts, momentum, volume patterns, support/resistance levels",
	"earnings":        "Focus on earnings-related catalysts: upcoming reports, guidance revisions, estimate changes",
	"gov-trades":      "Focus on government trading activity: congressional purchases, insider activity, regulatory changes",
	"sector-momentum": "Focus on sector momentum: relative strength, rotation patterns, industry trends",
	"all":             "Consider all catalyst types: technical, fundamental, government activity, and sector dynamics",
}

var sectorPrompts = map[string]string{
	"tech":        "Technology sector focus: software, semiconductors, cloud computing, AI/ML",
	"energy":      "Energy sector focus: oil & gas, renewables, utilities, energy infrastructure",
	"financials":  "Financial sector focus: banks, insurance, fintech, payment processors",
	"biotech":     "Biotechnology focus: pharmaceuticals, medical devices, healthcare innovation",
	"healthcare":  "Healthcare focus: hospitals, managed care, medical technology, services",
	"consumer":    "Consumer focus: retail, restaurants, consumer goods, e-commerce",
	"industrials": "Industrial focus: manufacturing, aerospace, defense, infrastructure",
	"all":         "Diversified across all major sectors for balanced exposure",
}

func promptFor(m map[string]string, key string) string {
	if p, ok := m[key]; ok {
		return p
	}
	return m["all"]
}

// BuildDiscoveryPrompt assembles the batch stock-discovery prompt from the
// criteria, current market context, and any historical success patterns.
func BuildDiscoveryPrompt(criteria dto.Criteria, overview *dto.MarketOverview, patterns []dto.SuccessPattern) string {
	var sb strings.Builder

	numberOfPicks := criteria.NumberOfPicks
	if numberOfPicks <= 0 {
		numberOfPicks = 4
	}

	sb.WriteString("You are a professional quantitative analyst with 15+ years of experience. Perform a comprehensive multi-step stock analysis.\n\n")

	sb.WriteString("ANALYSIS CRITERIA:\n")
	sb.WriteString(fmt.Sprintf("- Timeframe: %s\n", criteria.Timeframe))
	sb.WriteString(fmt.Sprintf("- Risk Appetite: %s\n", criteria.RiskAppetite))
	sb.WriteString(fmt.Sprintf("- Discovery Method: %s\n", promptFor(discoveryPrompts, criteria.DiscoveryMethod)))
	sb.WriteString(fmt.Sprintf("- Catalyst Focus: %s\n", promptFor(catalystPrompts, criteria.CatalystType)))
	sb.WriteString(fmt.Sprintf("- Sector Focus: %s\n\n", promptFor(sectorPrompts, criteria.SectorPreference)))

	if overview != nil && len(overview.GovernmentTrades) > 0 {
		sb.WriteString("Recent Government Trading Activity:\n")
		for _, trade := range overview.GovernmentTrades {
			sb.WriteString(fmt.Sprintf("- %s: %s %s (%s)\n",
				trade.Representative,
				strings.ToUpper(trade.TransactionType),
				trade.Ticker,
				trade.Amount,
			))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("Government trading data unavailable.\n\n")
	}

	if len(patterns) > 0 {
		sb.WriteString("Historical patterns that worked for similar criteria:\n")
		for _, p := range patterns {
			tickers := make([]string, 0, len(p.Results))
			for _, res := range p.Results {
				tickers = append(tickers, fmt.Sprintf("%s (%s, +%s%%)", res.Ticker, res.Sector, res.TargetGain))
			}
			sb.WriteString(fmt.Sprintf("- [regime: %s] %s\n", p.MarketRegime, strings.Join(tickers, ", ")))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`ANALYSIS REQUIREMENTS:

1. STOCK DISCOVERY PROCESS:
   - Screen 2000+ stocks across major indices (S&P 500, NASDAQ, Russell 2000)
   - Include international ADRs and emerging market leaders
   - Apply quantitative filters based on the discovery method
   - Consider market cap ranges: small ($300M-2B), mid ($2B-10B), large ($10B+)

2. MULTI-STEP VALIDATION:
   - Fundamental analysis: revenue growth, profitability, balance sheet strength
   - Technical analysis: price action, volume, momentum indicators
   - Catalyst validation: upcoming events, news flow, insider activity
   - Risk assessment: volatility, liquidity, sector headwinds

3. POSITION SIZING & RISK MANAGEMENT:
   - Calculate appropriate entry, target, and stop-loss levels
   - Ensure risk-reward ratios of at least 2:1 for aggressive, 1.5:1 for moderate, 1.2:1 for conservative
   - Consider position correlation and portfolio impact

4. PROBABILITY ASSESSMENT:
   - Assign probability of success (0-100%) based on confluence of factors
   - Higher probabilities require multiple confirming signals
   - Account for market regime and macro environment

`)

	sb.WriteString(fmt.Sprintf(`RESPONSE FORMAT (JSON):
{
  "picks": [
    {
      "ticker": "SYMBOL",
      "companyName": "Full Company Name",
      "entryPrice": 0.00,
      "targetPrice": 0.00,
      "stopLossPrice": 0.00,
      "riskRewardRatio": 0.0,
      "timeframe": "%s",
      "rationale": "Detailed multi-paragraph analysis explaining the investment thesis, key catalysts, technical setup, and risk factors",
      "tags": ["sector", "catalyst-type", "market-cap", "risk-level"],
      "probabilityOfSuccess": 0,
      "marketCapBillion": 0.0,
      "sector": "Sector Name",
      "catalysts": ["catalyst1", "catalyst2", "catalyst3"],
      "technicalSignals": ["signal1", "signal2"],
      "riskFactors": ["risk1", "risk2"]
    }
  ]
}

`, criteria.Timeframe))

	sb.WriteString(fmt.Sprintf(`QUALITY STANDARDS:
- Maximum %d high-conviction picks (quality over quantity)
- Each pick must have a detailed, professional rationale (minimum 150 words)
- All prices must be realistic and based on current market conditions
- Risk-reward ratios must meet the specified criteria
- Probability assessments must be conservative and well-justified

Focus on actionable, high-probability opportunities with clear catalysts and well-defined risk parameters. Prioritize stocks with strong fundamentals, technical confirmation, and upcoming catalysts that align with the specified criteria.`, numberOfPicks))

	return sb.String()
}

// BuildAnalysisPrompt assembles the single-ticker analysis prompt from live
// comprehensive data.
func BuildAnalysisPrompt(ticker string, data *dto.ComprehensiveStockData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Analyze %s (%s) and provide a comprehensive investment recommendation.\n\n", ticker, data.Profile.Name))

	sb.WriteString("CURRENT DATA:\n")
	sb.WriteString(fmt.Sprintf("- Current Price: $%.2f\n", data.Quote.Price))
	sb.WriteString(fmt.Sprintf("- Market Cap: $%.1fB\n", data.Profile.MarketCap/1e9))
	sb.WriteString(fmt.Sprintf("- Sector: %s\n", data.Profile.Sector))
	sb.WriteString(fmt.Sprintf("- Exchange: %s\n\n", data.Profile.Exchange))

	sb.WriteString(`ANALYSIS REQUIREMENTS:
1. Buy/Sell/Hold recommendation with confidence level (0-100%)
2. Specific target price and stop loss levels
3. Detailed rationale including:
   - Technical analysis (price action, momentum)
   - Fundamental analysis (valuation, growth prospects)
   - Risk assessment and key risk factors
4. Investment timeframe recommendation
5. Key metrics and volatility assessment

RESPONSE FORMAT (JSON):
{
  "recommendation": "BUY|SELL|HOLD",
  "targetPrice": 0.00,
  "stopLoss": 0.00,
  "confidence": 0,
  "rationale": "Detailed analysis explaining the recommendation",
  "riskLevel": "LOW|MEDIUM|HIGH",
  "timeframe": "timeframe recommendation",
  "keyMetrics": {
    "peRatio": 0.0,
    "marketCap": "market cap string",
    "volume": "volume string",
    "volatility": 0.0
  }
}`)

	return sb.String()
}
