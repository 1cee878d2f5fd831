package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"stock-advisor/config"
	"stock-advisor/internal/dto"
	"stock-advisor/internal/repository"
	"stock-advisor/pkg/logger"
)

// popularCriteria are the combinations probed during off-peak cache warming.
var popularCriteria = []dto.Criteria{
	{Timeframe: "1-2 weeks", RiskAppetite: dto.RiskAppetiteModerate, DiscoveryMethod: "all"},
	{Timeframe: "1-2 weeks", RiskAppetite: dto.RiskAppetiteAggressive, DiscoveryMethod: "emerging-growth"},
	{Timeframe: "1-3 months", RiskAppetite: dto.RiskAppetiteConservative, DiscoveryMethod: "undervalued-gems"},
	{Timeframe: "1-3 months", RiskAppetite: dto.RiskAppetiteModerate, DiscoveryMethod: "sector-rotation"},
}

// SchedulerService runs the background jobs: cache warming for popular
// criteria and the periodic market regime refresh.
type SchedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	cron       *cron.Cron
	cache      *ResponseCacheService
	learning   *LearningService
	marketData repository.MarketDataRepository
	model      string
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	cache *ResponseCacheService,
	learning *LearningService,
	marketData repository.MarketDataRepository,
	model string,
) *SchedulerService {
	return &SchedulerService{
		cfg:        cfg,
		log:        log,
		cron:       cron.New(),
		cache:      cache,
		learning:   learning,
		marketData: marketData,
		model:      model,
	}
}

func (s *SchedulerService) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.WarmCacheSpec, s.warmCache); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.RegimeRefreshSpec, s.refreshMarketRegime); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Scheduler started",
		logger.StringField("warm_cache", s.cfg.Scheduler.WarmCacheSpec),
		logger.StringField("regime_refresh", s.cfg.Scheduler.RegimeRefreshSpec),
	)
	return nil
}

func (s *SchedulerService) Stop() {
	<-s.cron.Stop().Done()
}

// warmCache probes the popular criteria combinations and logs the misses as
// pre-generation candidates. It deliberately does not generate: warming only
// surfaces where off-peak generation would pay off.
func (s *SchedulerService) warmCache() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !s.cache.Enabled() {
		return
	}

	for _, criteria := range popularCriteria {
		criteria.Model = s.model
		if cached := s.cache.GetResult(ctx, criteria, dto.RequestTypeDiscovery, ""); cached == nil {
			s.log.Info("Cache miss for popular criteria, pre-generation candidate",
				logger.StringField("key", DeriveKey(criteria, dto.RequestTypeDiscovery, "")),
			)
		}
	}
}

// refreshMarketRegime derives a coarse regime label from the balance of
// recent government trading activity and overwrites the regime singleton.
func (s *SchedulerService) refreshMarketRegime() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overview, err := s.marketData.MarketOverview(ctx)
	if err != nil {
		s.log.Warn("Regime refresh skipped, overview unavailable", logger.ErrorField(err))
		return
	}

	var buys, sells float64
	for _, trade := range overview.GovernmentTrades {
		switch trade.TransactionType {
		case "buy":
			buys++
		case "sell":
			sells++
		}
	}

	regime := "neutral"
	switch {
	case buys+sells == 0:
		regime = "unknown"
	case buys > sells*1.5:
		regime = "risk-on"
	case sells > buys*1.5:
		regime = "risk-off"
	}

	s.learning.UpdateMarketRegime(ctx, regime, map[string]float64{
		"buy_count":  buys,
		"sell_count": sells,
	})
	s.log.Info("Market regime refreshed", logger.StringField("regime", regime))
}
