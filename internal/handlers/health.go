package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/punyarb62/dsde-cctv/internal/config"
)

type healthData struct {
	OK   bool   `json:"ok"`
	Base string `json:"base"`
}

// Health reports liveness and the configured upstream base URL.
func Health(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthData{OK: true, Base: cfg.BaseURL})
	}
}
