package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/punyarb62/dsde-cctv/internal/config"
	"github.com/punyarb62/dsde-cctv/internal/logger"
)

var logLevels = map[string]string{
	"info":    "info.log",
	"warning": "warning.log",
	"error":   "error.log",
}

// ShowLogs serves the log file for the requested level as plain text.
func ShowLogs(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileName, ok := logLevels[chi.URLParam(r, "level")]
		if !ok {
			http.Error(w, "unknown log level", http.StatusNotFound)
			return
		}

		filePath := filepath.Join(cfg.LogDirectory, fileName)
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.Error(w, "log file not found: "+fileName, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, filePath)
	}
}

// ClearLogs truncates the log file for the requested level.
func ClearLogs(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fileName, ok := logLevels[chi.URLParam(r, "level")]
		if !ok {
			http.Error(w, "unknown log level", http.StatusNotFound)
			return
		}

		if err := log.CleanLogs(fileName); err != nil {
			http.Error(w, "failed to clear log file", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
