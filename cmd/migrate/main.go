package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/punyarb62/dsde-cctv/internal/database"
)

// Imports a camera metadata CSV export (id, name_en, name_th, lat, lng)
// into the SQLite store the dashboard reads from.
func main() {
	csvPath := flag.String("csv", "data/cctv_meta.csv", "CSV file with camera metadata")
	dbPath := flag.String("db", "data/cctv.db", "Database path")
	flag.Parse()

	fmt.Printf("Importing cameras from %s into %s\n", *csvPath, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := database.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	cameras, skipped, err := readCameras(*csvPath)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(cameras) == 0 {
		fmt.Println("No cameras found to import")
		return
	}

	fmt.Printf("Upserting %d cameras...\n", len(cameras))
	if err := db.UpsertCameras(cameras); err != nil {
		log.Fatalf("Failed to upsert cameras: %v", err)
	}

	total, err := db.CountCameras()
	if err != nil {
		log.Fatalf("Failed to count cameras: %v", err)
	}

	fmt.Printf("Successfully imported %d cameras (%d rows skipped), %d total in store\n",
		len(cameras), skipped, total)
}

// readCameras parses the CSV. The first row must be a header containing at
// least id, lat and lng columns; rows without usable coordinates are
// skipped.
func readCameras(path string) ([]database.Camera, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "lat", "lng"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var cameras []database.Camera
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		id := strings.TrimSpace(record[cols["id"]])
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[cols["lat"]]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(record[cols["lng"]]), 64)
		if id == "" || latErr != nil || lngErr != nil {
			skipped++
			continue
		}

		cameras = append(cameras, database.Camera{
			ID:     id,
			NameEN: field(record, cols, "name_en"),
			NameTH: field(record, cols, "name_th"),
			Lat:    lat,
			Lng:    lng,
		})
	}

	return cameras, skipped, nil
}

func field(record []string, cols map[string]int, name string) string {
	if i, ok := cols[name]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
