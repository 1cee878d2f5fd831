package dto

// QuickQuote is the minimal live quote used during pick validation.
type QuickQuote struct {
	Ticker      string  `json:"ticker"`
	Price       float64 `json:"price"`
	CompanyName string  `json:"company_name,omitempty"`
	Volume      int64   `json:"volume,omitempty"`
}

type StockProfile struct {
	Name      string  `json:"name"`
	MarketCap float64 `json:"market_cap"`
	Sector    string  `json:"sector"`
	Exchange  string  `json:"exchange"`
}

// ComprehensiveStockData is the full quote+profile bundle backing the
// single-ticker analysis prompt.
type ComprehensiveStockData struct {
	Quote       QuickQuote   `json:"quote"`
	Profile     StockProfile `json:"profile"`
	LastUpdated string       `json:"last_updated"`
}

type GovernmentTrade struct {
	Representative  string `json:"representative"`
	Ticker          string `json:"ticker"`
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
	TransactionDate string `json:"transaction_date"`
}

type MarketOverview struct {
	GovernmentTrades []GovernmentTrade `json:"government_trades"`
	LastUpdated      string            `json:"last_updated"`
}

// Provider API response shapes.

type ProviderQuoteResponse struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
	MarketCap float64 `json:"marketCap"`
	Exchange  string  `json:"exchange"`
}

type ProviderProfileResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	MktCap      float64 `json:"mktCap"`
	Sector      string  `json:"sector"`
	Exchange    string  `json:"exchangeShortName"`
	IsActively  bool    `json:"isActivelyTrading"`
}

type ProviderGovTradeResponse struct {
	Representative  string `json:"representative"`
	Ticker          string `json:"ticker"`
	Type            string `json:"type"`
	Amount          string `json:"amount"`
	TransactionDate string `json:"transactionDate"`
}
