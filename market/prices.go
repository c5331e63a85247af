// Package market holds the process-wide price cache. It is a collaborator
// of the ledger core, never a dependency of it: the core state machines
// run the same whether or not a price is cached.
package market

import (
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	mu     sync.RWMutex
	prices = map[string]decimal.Decimal{}

	client = resty.New().SetTimeout(10 * time.Second)
)

// Price returns the cached price for a symbol, if one has been fetched.
func Price(symbol string) (decimal.Decimal, bool) {
	mu.RLock()
	defer mu.RUnlock()
	price, ok := prices[symbol]
	return price, ok
}

// Snapshot copies the whole cache for read-only use.
func Snapshot() map[string]decimal.Decimal {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		out[symbol] = price
	}
	return out
}

// StartPoller refreshes the cache on a fixed interval until stop is
// closed. The upstream endpoint is expected to return symbol→price JSON.
func StartPoller(interval time.Duration, stop <-chan struct{}) {
	url := os.Getenv("MARKET_API_URL")
	if url == "" {
		logrus.Warn("MARKET_API_URL not set, market price cache disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		refresh(url)
		for {
			select {
			case <-ticker.C:
				refresh(url)
			case <-stop:
				return
			}
		}
	}()
}

func refresh(url string) {
	var payload map[string]decimal.Decimal
	resp, err := client.R().SetResult(&payload).Get(url)
	if err != nil {
		logrus.WithError(err).Warn("market price refresh failed")
		return
	}
	if resp.IsError() {
		logrus.WithField("status", resp.StatusCode()).Warn("market price refresh failed")
		return
	}

	mu.Lock()
	for symbol, price := range payload {
		prices[symbol] = price
	}
	mu.Unlock()
}
