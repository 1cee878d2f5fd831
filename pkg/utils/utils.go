package utils

import (
	"log"
	"math"
	"time"
)

// GoSafe runs the given function in a new goroutine and recovers from any panic.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

// Round2 rounds a value to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// NowUnixMilli returns the current time as epoch milliseconds, the timestamp
// format stored in cache envelopes.
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

func ToPointer[T any](value T) *T {
	return &value
}

// ContainsString checks if a slice of strings contains a specific string.
func ContainsString(slice []string, str string) bool {
	for _, item := range slice {
		if item == str {
			return true
		}
	}
	return false
}
