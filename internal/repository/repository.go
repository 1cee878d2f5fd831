package repository

import (
	"stock-advisor/config"
	"stock-advisor/pkg/logger"
)

type Repository struct {
	AIRepo         AIRepository
	MarketDataRepo MarketDataRepository
}

func NewRepository(cfg *config.Config, log *logger.Logger) (*Repository, error) {
	aiRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		AIRepo:         aiRepo,
		MarketDataRepo: NewMarketDataRepository(cfg, log),
	}, nil
}
