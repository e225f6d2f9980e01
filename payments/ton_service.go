package payments

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

type tonPriceResponse struct {
	TheOpenNetwork struct {
		USD float64 `json:"usd"`
	} `json:"the-open-network"`
}

var (
	priceCache    float64
	cacheMutex    sync.RWMutex
	lastFetchTime time.Time
)

// GetTonPrice returns the cached TON/USD price, refreshing at most every 10
// minutes. Used by the wallet screen to render tier prices in fiat.
func GetTonPrice() (float64, error) {
	cacheMutex.RLock()
	if time.Since(lastFetchTime) < 10*time.Minute && priceCache > 0 {
		cacheMutex.RUnlock()
		return priceCache, nil
	}
	cacheMutex.RUnlock()

	log.Println("Fetching fresh TON price from API...")
	url := "https://api.coingecko.com/api/v3/simple/price?ids=the-open-network&vs_currencies=usd"
	resp, err := http.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price API returned status %s", resp.Status)
	}

	var data tonPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, err
	}
	if data.TheOpenNetwork.USD <= 0 {
		return 0, fmt.Errorf("price API returned no TON rate")
	}

	cacheMutex.Lock()
	priceCache = data.TheOpenNetwork.USD
	lastFetchTime = time.Now()
	cacheMutex.Unlock()
	log.Println("Successfully updated TON price cache.")

	return priceCache, nil
}
