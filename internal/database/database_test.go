package database

import (
	"path/filepath"
	"testing"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpsertAndList(t *testing.T) {
	db := newTestDatabase(t)

	cameras := []Camera{
		{ID: "907", NameEN: "Rama IV - Silom", NameTH: "พระราม 4", Lat: 13.7295, Lng: 100.5367},
		{ID: "42", NameEN: "", NameTH: "แยกปทุมวัน", Lat: 13.7465, Lng: 100.5306},
	}
	if err := db.UpsertCameras(cameras); err != nil {
		t.Fatalf("UpsertCameras failed: %v", err)
	}

	got, err := db.ListCameras()
	if err != nil {
		t.Fatalf("ListCameras failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 cameras, got %d", len(got))
	}
	// Ordered by id, "42" sorts before "907" as text.
	if got[0].ID != "42" || got[1].ID != "907" {
		t.Errorf("unexpected ordering: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestUpsertUpdatesExistingRow(t *testing.T) {
	db := newTestDatabase(t)

	if err := db.UpsertCameras([]Camera{{ID: "907", NameEN: "Old name", Lat: 1, Lng: 2}}); err != nil {
		t.Fatalf("initial upsert failed: %v", err)
	}
	if err := db.UpsertCameras([]Camera{{ID: "907", NameEN: "New name", Lat: 3, Lng: 4}}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	camera, err := db.GetCamera("907")
	if err != nil {
		t.Fatalf("GetCamera failed: %v", err)
	}
	if camera == nil {
		t.Fatal("expected camera 907 to exist")
	}
	if camera.NameEN != "New name" || camera.Lat != 3 {
		t.Errorf("upsert did not update row: %+v", camera)
	}

	count, err := db.CountCameras()
	if err != nil {
		t.Fatalf("CountCameras failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 camera after double upsert, got %d", count)
	}
}

func TestGetCamera_Missing(t *testing.T) {
	db := newTestDatabase(t)

	camera, err := db.GetCamera("does-not-exist")
	if err != nil {
		t.Fatalf("GetCamera failed: %v", err)
	}
	if camera != nil {
		t.Errorf("expected nil for a missing camera, got %+v", camera)
	}
}

func TestCamera_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		camera   Camera
		expected string
	}{
		{"english preferred", Camera{NameEN: "Sathorn", NameTH: "สาทร"}, "Sathorn"},
		{"thai fallback", Camera{NameEN: "", NameTH: "สาทร"}, "สาทร"},
		{"both empty", Camera{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.camera.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
