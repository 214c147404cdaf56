package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/punyarb62/dsde-cctv/internal/logger"
	"github.com/punyarb62/dsde-cctv/internal/services"
)

// sourceTag identifies this relay in snapshot responses.
const sourceTag = "bma-snapshot-relay"

// Snapshot serves one camera frame. Mounted on both /snapshot/{playID} and
// /snapshot/{playID}/{imageID}; when the image id is absent it equals the
// play id. Responses are tagged non-cacheable so the browser polls a real
// frame every time.
func Snapshot(manager *services.Manager, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playID := chi.URLParam(r, "playID")
		imageID := chi.URLParam(r, "imageID")
		if imageID == "" {
			imageID = playID
		}

		frame, err := manager.GetSnapshot(r.Context(), playID, imageID)
		if err != nil {
			log.Error("snapshot %s/%s: %v", playID, imageID, err)
			http.Error(w,
				fmt.Sprintf("failed to fetch snapshot (play_id=%s, image_id=%s)", playID, imageID),
				http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", frame.ContentType)
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("X-Source", sourceTag)
		w.Header().Set("X-Ids", playID+"/"+imageID)
		if _, err := w.Write(frame.Bytes); err != nil {
			log.Warning("failed to write snapshot %s/%s to client: %v", playID, imageID, err)
		}
	}
}
