package service

import (
	"stock-advisor/config"
	"stock-advisor/internal/repository"
	"stock-advisor/pkg/logger"
	"stock-advisor/pkg/redisdb"
)

type Service struct {
	PicksService      *PicksService
	MarketDataService *MarketDataService
	CacheService      *ResponseCacheService
	LearningService   *LearningService
	SchedulerService  *SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	store redisdb.Store,
) *Service {
	cacheService := NewResponseCacheService(store, log)
	learningService := NewLearningService(store, log, cfg.Learning.MaxInflightWrites)
	validator := NewPickValidator(repo.MarketDataRepo, log)

	picksService := NewPicksService(cfg, log, repo.AIRepo, repo.MarketDataRepo, cacheService, learningService, validator)
	marketDataService := NewMarketDataService(repo.MarketDataRepo, cacheService, log)
	schedulerService := NewSchedulerService(cfg, log, cacheService, learningService, repo.MarketDataRepo, repo.AIRepo.ModelName())

	return &Service{
		PicksService:      picksService,
		MarketDataService: marketDataService,
		CacheService:      cacheService,
		LearningService:   learningService,
		SchedulerService:  schedulerService,
	}
}
