package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeBrokerage is an httptest server that mimics the handful of
// endpoints the commands hit. Handlers can be overridden per test.
type fakeBrokerage struct {
	*httptest.Server

	mu         sync.Mutex
	placed     []map[string]any
	dryRunHits int
	liveHits   int
}

func newFakeBrokerage(t *testing.T) *fakeBrokerage {
	t.Helper()
	fb := &fakeBrokerage{}
	mux := http.NewServeMux()

	mux.HandleFunc("/instruments/equities/", func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Path[len("/instruments/equities/"):]
		if symbol == "ZZZZ" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"record_not_found","message":"Record not found"}}`))
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{"symbol": symbol, "active": true}})
	})

	mux.HandleFunc("/instruments/equity-options/", func(w http.ResponseWriter, r *http.Request) {
		occ := r.URL.Path[len("/instruments/equity-options/"):]
		writeJSON(w, map[string]any{"data": optionJSON(occ)})
	})

	mux.HandleFunc("/market-data/", func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Path[len("/market-data/"):]
		writeJSON(w, map[string]any{"data": map[string]any{
			"symbol": symbol,
			"bid":    "2.40",
			"ask":    "2.50",
		}})
	})

	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]any
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] == "wrong" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"invalid_credentials","message":"Invalid login"}}`))
			return
		}
		writeJSON(w, map[string]any{"data": map[string]any{
			"session-token": "fake-session-token",
		}})
	})

	mux.HandleFunc("/customers/me/accounts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{
			"items": []map[string]any{
				{"account": map[string]any{
					"account-number":    "5WT00001",
					"nickname":          "Individual",
					"account-type-name": "Individual",
					"margin-or-cash":    "Margin",
				}},
			},
		}})
	})

	mux.HandleFunc("/accounts/5WT00001/trading-status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"data": map[string]any{
			"can-trade-options":        true,
			"can-trade-futures":        true,
			"can-trade-cryptocurrency": true,
		}})
	})

	mux.HandleFunc("/accounts/5WT00001/orders/dry-run", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.dryRunHits++
		fb.mu.Unlock()
		writeJSON(w, map[string]any{"data": map[string]any{
			"order": map[string]any{"id": 1, "status": "Received"},
			"buying-power-effect": map[string]any{
				"current-buying-power":       "10000.00",
				"new-buying-power":           "8500.00",
				"buying-power-change-amount": "1500.00",
			},
		}})
	})

	mux.HandleFunc("/accounts/5WT00001/orders", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		fb.mu.Lock()
		fb.liveHits++
		fb.placed = append(fb.placed, body)
		fb.mu.Unlock()
		writeJSON(w, map[string]any{"data": map[string]any{
			"order": map[string]any{"id": 42, "status": "Routed"},
		}})
	})

	fb.Server = httptest.NewServer(mux)
	t.Cleanup(fb.Close)
	return fb
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// optionJSON fabricates an instrument payload from an OCC symbol so each
// test can mint contracts by symbol alone.
func optionJSON(occ string) map[string]any {
	// OCC layout: 6-char root, yymmdd, C/P, strike*1000 in 8 digits.
	root := occ[:6]
	underlying := ""
	for _, r := range root {
		if r == ' ' {
			break
		}
		underlying += string(r)
	}
	date := occ[6:12]
	contractType := string(occ[12])
	strikeRaw := occ[13:]

	strike := ""
	for i, r := range strikeRaw {
		if r != '0' {
			strike = strikeRaw[i:]
			break
		}
	}
	if strike == "" {
		strike = "0"
	}
	// last three digits are thousandths
	whole := strike
	frac := ""
	if len(strike) > 3 {
		whole, frac = strike[:len(strike)-3], strike[len(strike)-3:]
	} else {
		whole = "0"
		for len(strike) < 3 {
			strike = "0" + strike
		}
		frac = strike
	}

	return map[string]any{
		"symbol":            occ,
		"underlying-symbol": underlying,
		"strike-price":      whole + "." + frac,
		"expiration-date":   "20" + date[:2] + "-" + date[2:4] + "-" + date[4:6],
		"option-type":       contractType,
		"is-expired":        false,
		"active":            true,
	}
}

// testTradeOptions returns tradeOptions pointed at the fake brokerage.
func testTradeOptions(fb *fakeBrokerage, jsonMode bool) tradeOptions {
	return tradeOptions{
		baseURL:       fb.URL,
		sessionToken:  "test-token",
		accountNumber: "5WT00001",
		jsonMode:      jsonMode,
	}
}
