package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"stock-advisor/internal/dto"
)

// fakeStore is an in-memory stand-in for the remote KV store. It is mutex
// guarded because learning writes land on detached goroutines.
type fakeStore struct {
	mu      sync.Mutex
	enabled bool
	data    map[string]string
	ttls    map[string]time.Duration
	lists   map[string][]string
	pingErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		enabled: true,
		data:    map[string]string{},
		ttls:    map[string]time.Duration{},
		lists:   map[string][]string{},
	}
}

func (f *fakeStore) Enabled() bool {
	return f.enabled
}

func (f *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !f.enabled {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.ttls[key] = ttl
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool) {
	if !f.enabled {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok
}

func (f *fakeStore) PushCapped(ctx context.Context, listKey, value string, maxLen int64) {
	if !f.enabled {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := append([]string{value}, f.lists[listKey]...)
	if int64(len(list)) > maxLen {
		list = list[:maxLen]
	}
	f.lists[listKey] = list
}

func (f *fakeStore) Range(ctx context.Context, listKey string, start, stop int64) []string {
	if !f.enabled {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.lists[listKey]
	if start >= int64(len(list)) {
		return nil
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	out := make([]string, 0, stop-start+1)
	out = append(out, list[start:stop+1]...)
	return out
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) {
	if !f.enabled {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttls[key] = ttl
}

func (f *fakeStore) Ping(ctx context.Context) error {
	if !f.enabled {
		return errors.New("cache store disabled")
	}
	return f.pingErr
}

func (f *fakeStore) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	return val, ok
}

func (f *fakeStore) ttl(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ttls[key]
}

func (f *fakeStore) listLen(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lists[key])
}

// fakeMarketData answers from fixed fixtures instead of the aggregator API.
type fakeMarketData struct {
	validTickers     map[string]bool
	validateErr      error
	quotes           map[string]*dto.QuickQuote
	quoteErr         error
	comprehensive    *dto.ComprehensiveStockData
	comprehensiveErr error
	overview         *dto.MarketOverview
	overviewErr      error
	pingErr          error
}

func (f *fakeMarketData) ValidateTicker(ctx context.Context, ticker string) (bool, error) {
	if f.validateErr != nil {
		return false, f.validateErr
	}
	return f.validTickers[ticker], nil
}

func (f *fakeMarketData) QuickQuote(ctx context.Context, ticker string) (*dto.QuickQuote, error) {
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	quote, ok := f.quotes[ticker]
	if !ok {
		return nil, errors.New("no quote data for symbol: " + ticker)
	}
	return quote, nil
}

func (f *fakeMarketData) ComprehensiveData(ctx context.Context, ticker string) (*dto.ComprehensiveStockData, error) {
	if f.comprehensiveErr != nil {
		return nil, f.comprehensiveErr
	}
	return f.comprehensive, nil
}

func (f *fakeMarketData) MarketOverview(ctx context.Context) (*dto.MarketOverview, error) {
	if f.overviewErr != nil {
		return nil, f.overviewErr
	}
	if f.overview == nil {
		return &dto.MarketOverview{}, nil
	}
	return f.overview, nil
}

func (f *fakeMarketData) Ping(ctx context.Context) error {
	return f.pingErr
}

// fakeAIRepo returns a canned response for every prompt.
type fakeAIRepo struct {
	mu       sync.Mutex
	response string
	err      error
	model    string
	calls    int
}

func (f *fakeAIRepo) Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeAIRepo) ModelName() string {
	if f.model == "" {
		return "gemini-2.0-flash"
	}
	return f.model
}

func (f *fakeAIRepo) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
