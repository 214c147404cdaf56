package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/punyarb62/dsde-cctv/internal/database"
	"github.com/punyarb62/dsde-cctv/internal/logger"
)

type cameraData struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func toCameraData(c database.Camera) cameraData {
	return cameraData{
		ID:   c.ID,
		Name: c.DisplayName(),
		Lat:  c.Lat,
		Lng:  c.Lng,
	}
}

// ListCameras returns the camera metadata the dashboard plots on the map.
func ListCameras(db *database.Database, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cameras, err := db.ListCameras()
		if err != nil {
			log.Error("failed to list cameras: %v", err)
			http.Error(w, "failed to list cameras", http.StatusInternalServerError)
			return
		}

		data := make([]cameraData, 0, len(cameras))
		for _, c := range cameras {
			data = append(data, toCameraData(c))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("failed to encode camera list: %v", err)
		}
	}
}

// GetCamera returns metadata for a single camera.
func GetCamera(db *database.Database, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		camera, err := db.GetCamera(id)
		if err != nil {
			log.Error("failed to load camera %s: %v", id, err)
			http.Error(w, "failed to load camera", http.StatusInternalServerError)
			return
		}
		if camera == nil {
			http.Error(w, "camera not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(toCameraData(*camera)); err != nil {
			log.Error("failed to encode camera %s: %v", id, err)
		}
	}
}
