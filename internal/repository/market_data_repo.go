package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"stock-advisor/config"
	"stock-advisor/internal/dto"
	"stock-advisor/pkg/httpclient"
	"stock-advisor/pkg/logger"
)

// MarketDataRepository is the market-data aggregator collaborator. Every call
// may fail; callers are expected to handle failures locally (pick validation
// soft-fails, context gathering falls back to an empty overview).
type MarketDataRepository interface {
	ValidateTicker(ctx context.Context, ticker string) (bool, error)
	QuickQuote(ctx context.Context, ticker string) (*dto.QuickQuote, error)
	ComprehensiveData(ctx context.Context, ticker string) (*dto.ComprehensiveStockData, error)
	MarketOverview(ctx context.Context) (*dto.MarketOverview, error)
	Ping(ctx context.Context) error
}

type marketDataRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	validationMemo *gocache.Cache
}

// NewMarketDataRepository creates a new instance of marketDataRepository.
// Ticker-validation results are memoized in-process since listed instruments
// rarely change within an hour.
func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &marketDataRepository{
		httpClient:     httpclient.New(cfg.MarketData.BaseURL, cfg.MarketData.BaseTimeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		validationMemo: gocache.New(cfg.MarketData.ValidationCacheTTL, cfg.MarketData.CleanupInterval),
	}
}

func (r *marketDataRepository) ValidateTicker(ctx context.Context, ticker string) (bool, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return false, nil
	}

	if cached, found := r.validationMemo.Get(ticker); found {
		return cached.(bool), nil
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return false, err
	}

	var profiles []dto.ProviderProfileResponse
	resp, err := r.httpClient.Get(ctx, "/v3/profile/"+ticker, r.withAPIKey(nil), nil, &profiles)
	if err != nil {
		return false, fmt.Errorf("failed to validate ticker %s: %w", ticker, err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("market data api returned status: %d", resp.StatusCode)
	}

	valid := len(profiles) > 0 && profiles[0].IsActively
	r.validationMemo.Set(ticker, valid, gocache.DefaultExpiration)
	return valid, nil
}

func (r *marketDataRepository) QuickQuote(ctx context.Context, ticker string) (*dto.QuickQuote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var quotes []dto.ProviderQuoteResponse
	resp, err := r.httpClient.Get(ctx, "/v3/quote/"+ticker, r.withAPIKey(nil), nil, &quotes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", ticker, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data api returned status: %d", resp.StatusCode)
	}
	if len(quotes) == 0 || quotes[0].Price <= 0 {
		return nil, fmt.Errorf("no quote data for symbol: %s", ticker)
	}

	return &dto.QuickQuote{
		Ticker:      ticker,
		Price:       quotes[0].Price,
		CompanyName: quotes[0].Name,
		Volume:      quotes[0].Volume,
	}, nil
}

func (r *marketDataRepository) ComprehensiveData(ctx context.Context, ticker string) (*dto.ComprehensiveStockData, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	quote, err := r.QuickQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var profiles []dto.ProviderProfileResponse
	resp, err := r.httpClient.Get(ctx, "/v3/profile/"+ticker, r.withAPIKey(nil), nil, &profiles)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", ticker, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data api returned status: %d", resp.StatusCode)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile data for symbol: %s", ticker)
	}

	return &dto.ComprehensiveStockData{
		Quote: *quote,
		Profile: dto.StockProfile{
			Name:      profiles[0].CompanyName,
			MarketCap: profiles[0].MktCap,
			Sector:    profiles[0].Sector,
			Exchange:  profiles[0].Exchange,
		},
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (r *marketDataRepository) MarketOverview(ctx context.Context) (*dto.MarketOverview, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var trades []dto.ProviderGovTradeResponse
	resp, err := r.httpClient.Get(ctx, "/v4/government-trades", r.withAPIKey(map[string]string{"limit": "50"}), nil, &trades)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market overview: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data api returned status: %d", resp.StatusCode)
	}

	overview := &dto.MarketOverview{
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, t := range trades {
		overview.GovernmentTrades = append(overview.GovernmentTrades, dto.GovernmentTrade{
			Representative:  t.Representative,
			Ticker:          t.Ticker,
			TransactionType: strings.ToLower(t.Type),
			Amount:          t.Amount,
			TransactionDate: t.TransactionDate,
		})
	}

	return overview, nil
}

// Ping reports provider reachability for the status endpoint, reusing the
// validation path for a liquid benchmark ticker.
func (r *marketDataRepository) Ping(ctx context.Context) error {
	ok, err := r.ValidateTicker(ctx, "AAPL")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("market data provider returned unexpected validation result")
	}
	return nil
}

func (r *marketDataRepository) withAPIKey(params map[string]string) map[string]string {
	if params == nil {
		params = map[string]string{}
	}
	params["apikey"] = r.cfg.MarketData.APIKey
	return params
}
