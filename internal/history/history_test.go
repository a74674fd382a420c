package history

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordSetsID(t *testing.T) {
	store := setupTestStore(t)

	entry := &Entry{
		DeviceID: "kitchen_tv",
		Key:      "POWER",
		Backend:  "lirc",
		Success:  true,
	}

	if err := store.Record(entry); err != nil {
		t.Fatalf("Failed to record entry: %v", err)
	}

	if entry.ID == 0 {
		t.Error("Expected entry ID to be set after insert")
	}
	if entry.ExecutedAt.IsZero() {
		t.Error("Expected ExecutedAt to be defaulted")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, key := range []string{"POWER", "VOL_UP", "MUTE"} {
		entry := &Entry{
			DeviceID:   "kitchen_tv",
			Key:        key,
			Backend:    "lirc",
			Success:    true,
			ExecutedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Record(entry); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}
	}

	entries, err := store.Recent("", 10)
	if err != nil {
		t.Fatalf("Failed to query recent: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Key != "MUTE" || entries[2].Key != "POWER" {
		t.Errorf("Entries not ordered newest first: %s, %s, %s",
			entries[0].Key, entries[1].Key, entries[2].Key)
	}
}

func TestRecentFiltersByDevice(t *testing.T) {
	store := setupTestStore(t)

	for _, deviceID := range []string{"kitchen_tv", "living_room_amp", "kitchen_tv"} {
		entry := &Entry{DeviceID: deviceID, Key: "POWER", Backend: "files", Success: true}
		if err := store.Record(entry); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}
	}

	entries, err := store.Recent("kitchen_tv", 10)
	if err != nil {
		t.Fatalf("Failed to query recent: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries for kitchen_tv, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.DeviceID != "kitchen_tv" {
			t.Errorf("Unexpected device in filtered result: %s", entry.DeviceID)
		}
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 5; i++ {
		entry := &Entry{DeviceID: "kitchen_tv", Key: "POWER", Backend: "lirc", Success: true}
		if err := store.Record(entry); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}
	}

	entries, err := store.Recent("", 2)
	if err != nil {
		t.Fatalf("Failed to query recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(entries))
	}
}

func TestGetStats(t *testing.T) {
	store := setupTestStore(t)

	executions := []struct {
		deviceID string
		success  bool
	}{
		{"kitchen_tv", true},
		{"kitchen_tv", false},
		{"living_room_amp", true},
	}
	for _, e := range executions {
		entry := &Entry{DeviceID: e.deviceID, Key: "POWER", Backend: "lirc", Success: e.success}
		if err := store.Record(entry); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}
	}

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Expected 3 total, got %d", stats.Total)
	}
	if stats.Failed != 1 {
		t.Errorf("Expected 1 failed, got %d", stats.Failed)
	}
	if stats.Devices != 2 {
		t.Errorf("Expected 2 devices, got %d", stats.Devices)
	}
}

func TestEmptyStoreStats(t *testing.T) {
	store := setupTestStore(t)

	stats, err := store.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.Total != 0 || stats.Failed != 0 || stats.Devices != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}
