package service

import (
	"strings"

	"stock-advisor/internal/dto"
)

const keyDelimiter = ":"

// DeriveKey builds the deterministic cache key for a criteria combination.
// Only the request type, risk appetite, discovery method, timeframe, and the
// optional ticker and model participate; extraneous criteria fields never
// influence the key. The human-readable composite doubles as a debugging aid,
// so no fingerprint hashing.
func DeriveKey(criteria dto.Criteria, requestType string, ticker string) string {
	parts := []string{
		requestType,
		criteria.RiskAppetite,
		criteria.DiscoveryMethod,
		criteria.Timeframe,
	}
	if ticker != "" {
		parts = append(parts, strings.ToUpper(ticker))
	}
	if criteria.Model != "" {
		parts = append(parts, criteria.Model)
	}
	return strings.Join(parts, keyDelimiter)
}
