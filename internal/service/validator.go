package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"stock-advisor/internal/dto"
	"stock-advisor/internal/repository"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/utils"
)

var (
	ErrNoJSONFound  = errors.New("no JSON found in AI response")
	ErrMissingPicks = errors.New("invalid response format: missing picks array")
	ErrNoValidPicks = errors.New("no valid picks after validation")
)

// Price repair constants: minimum 15% upside target, maximum 8% stop-loss
// drawdown.
const (
	minTargetMultiplier = 1.15
	maxStopMultiplier   = 0.92

	maxConcurrentPickChecks = 4
)

// PickValidator parses raw model output into structured picks and
// cross-checks each one against live market data, repairing invalid price
// relationships and filling defaulted fields.
type PickValidator struct {
	marketData repository.MarketDataRepository
	log        *logger.Logger
}

func NewPickValidator(marketData repository.MarketDataRepository, log *logger.Logger) *PickValidator {
	return &PickValidator{marketData: marketData, log: log}
}

// ValidateAndRepair runs the full batch transform. A parse or format failure
// aborts immediately; a per-pick failure only skips that pick. A batch with
// zero usable picks is a hard failure, not an empty success.
func (v *PickValidator) ValidateAndRepair(ctx context.Context, rawText string, criteria dto.Criteria) ([]dto.StockPick, error) {
	start := strings.Index(rawText, "{")
	end := strings.LastIndex(rawText, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("failed to parse AI response: %w", ErrNoJSONFound)
	}

	var payload dto.PicksPayload
	if err := json.Unmarshal([]byte(rawText[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if payload.Picks == nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", ErrMissingPicks)
	}

	v.log.DebugContext(ctx, "Validating picks", logger.IntField("count", len(payload.Picks)))

	// Picks are independent; validate them in parallel but keep the original
	// relative order by placing results by index.
	validated := make([]*dto.StockPick, len(payload.Picks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPickChecks)

	for i := range payload.Picks {
		g.Go(func() error {
			if pick, ok := v.validatePick(gctx, payload.Picks[i], criteria); ok {
				validated[i] = pick
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	picks := make([]dto.StockPick, 0, len(validated))
	for _, p := range validated {
		if p != nil {
			picks = append(picks, *p)
		}
	}

	if len(picks) == 0 {
		return nil, ErrNoValidPicks
	}

	return picks, nil
}

func (v *PickValidator) validatePick(ctx context.Context, pick dto.StockPick, criteria dto.Criteria) (*dto.StockPick, bool) {
	if pick.Ticker == "" || pick.CompanyName == "" || pick.EntryPrice == 0 || pick.TargetPrice == 0 {
		v.log.WarnContext(ctx, "Skipping pick: missing required fields", logger.StringField("ticker", pick.Ticker))
		return nil, false
	}

	valid, err := v.marketData.ValidateTicker(ctx, pick.Ticker)
	if err != nil || !valid {
		v.log.WarnContext(ctx, "Skipping pick: failed ticker validation",
			logger.StringField("ticker", pick.Ticker),
			logger.ErrorField(err),
		)
		return nil, false
	}

	// A live quote replaces the model-estimated entry price and a placeholder
	// company name. Quote failures of any kind keep the estimate; the pick
	// still passes.
	quote, err := v.marketData.QuickQuote(ctx, pick.Ticker)
	if err != nil {
		v.log.WarnContext(ctx, "Could not get current price, using AI estimate",
			logger.StringField("ticker", pick.Ticker),
			logger.ErrorField(err),
		)
	} else {
		pick.EntryPrice = quote.Price
		if quote.CompanyName != "" && quote.CompanyName != pick.Ticker+" Corporation" {
			pick.CompanyName = quote.CompanyName
		}
	}

	if pick.TargetPrice <= pick.EntryPrice {
		pick.TargetPrice = pick.EntryPrice * minTargetMultiplier
	}
	if pick.StopLossPrice >= pick.EntryPrice {
		pick.StopLossPrice = pick.EntryPrice * maxStopMultiplier
	}

	risk := pick.EntryPrice - pick.StopLossPrice
	pick.RiskRewardRatio = utils.Round2((pick.TargetPrice - pick.EntryPrice) / risk)

	// Enforce the minimum risk/reward for the risk appetite by raising the
	// target; entry and stop-loss stay untouched. The ratio is recomputed
	// from the adjusted prices rather than pinned to the floor.
	if floor := criteria.MinRiskReward(); pick.RiskRewardRatio < floor {
		pick.TargetPrice = pick.EntryPrice + risk*floor
		pick.RiskRewardRatio = utils.Round2((pick.TargetPrice - pick.EntryPrice) / risk)
	}

	v.fillDefaults(&pick, criteria)

	return &pick, true
}

func (v *PickValidator) fillDefaults(pick *dto.StockPick, criteria dto.Criteria) {
	if pick.ProbabilityOfSuccess == 0 {
		pick.ProbabilityOfSuccess = 65
	}
	if pick.MarketCapBillion == 0 {
		pick.MarketCapBillion = 5.0
	}
	if pick.Sector == "" {
		pick.Sector = "Technology"
	}
	if pick.Timeframe == "" {
		pick.Timeframe = criteria.Timeframe
	}
	if len(pick.Catalysts) == 0 {
		pick.Catalysts = []string{"Technical breakout", "Sector momentum"}
	}
	if len(pick.TechnicalSignals) == 0 {
		pick.TechnicalSignals = []string{"Volume surge", "Moving average cross"}
	}
	if len(pick.RiskFactors) == 0 {
		pick.RiskFactors = []string{"Market volatility", "Sector rotation"}
	}
	if len(pick.Tags) == 0 {
		pick.Tags = []string{strings.ToLower(pick.Sector), criteria.RiskAppetite, "mid-cap"}
	}
}
