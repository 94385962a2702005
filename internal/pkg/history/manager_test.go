package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileManager_Save(t *testing.T) {
	tmpDir := t.TempDir()
	historyFile := filepath.Join(tmpDir, "nested", "history.json")

	mgr := NewFileManager(historyFile, 100)

	entry := &Entry{
		CommitSubject: "fix bug ***BUMP MINOR*** please",
		BumpType:      "minor",
		Source:        "trigger",
		PushRequested: true,
		Bumped:        true,
		Pushed:        true,
	}

	if err := mgr.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if entry.ID == "" {
		t.Error("Expected ID to be generated")
	}
	if entry.Timestamp.IsZero() {
		t.Error("Expected Timestamp to be set")
	}
	if _, err := os.Stat(historyFile); os.IsNotExist(err) {
		t.Error("History file was not created")
	}
}

func TestFileManager_SaveKeepsGivenIDAndTimestamp(t *testing.T) {
	mgr := NewFileManager(filepath.Join(t.TempDir(), "history.json"), 10)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	entry := &Entry{ID: "run-1", Timestamp: ts, BumpType: "patch"}
	if err := mgr.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := mgr.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "run-1" || !entries[0].Timestamp.Equal(ts) {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestFileManager_List(t *testing.T) {
	mgr := NewFileManager(filepath.Join(t.TempDir(), "history.json"), 1000)

	types := []string{"major", "minor", "patch", "release", "build"}
	for _, bt := range types {
		if err := mgr.Save(&Entry{BumpType: bt, Bumped: true}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := mgr.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(all))
	}

	recent, err := mgr.List(2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(recent))
	}
	if recent[0].BumpType != "release" || recent[1].BumpType != "build" {
		t.Errorf("Expected the two most recent entries, got %s and %s", recent[0].BumpType, recent[1].BumpType)
	}
}

func TestFileManager_List_MissingFile(t *testing.T) {
	mgr := NewFileManager(filepath.Join(t.TempDir(), "missing.json"), 10)

	entries, err := mgr.List(10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestFileManager_List_CorruptFile(t *testing.T) {
	historyFile := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(historyFile, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	mgr := NewFileManager(historyFile, 10)
	if _, err := mgr.List(0); err == nil {
		t.Error("Expected error for corrupt history file")
	}
	if err := mgr.Save(&Entry{BumpType: "patch"}); err == nil {
		t.Error("Expected Save to refuse to overwrite a corrupt history file")
	}
}

func TestFileManager_Clear(t *testing.T) {
	mgr := NewFileManager(filepath.Join(t.TempDir(), "history.json"), 10)

	for i := 0; i < 3; i++ {
		if err := mgr.Save(&Entry{BumpType: "patch"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := mgr.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	entries, err := mgr.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", len(entries))
	}
}

func TestFileManager_Rotation(t *testing.T) {
	mgr := NewFileManager(filepath.Join(t.TempDir(), "history.json"), 3)

	for i := 0; i < 5; i++ {
		entry := &Entry{ID: string(rune('a' + i)), BumpType: "patch"}
		if err := mgr.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	entries, err := mgr.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries after rotation, got %d", len(entries))
	}
	if entries[0].ID != "c" || entries[2].ID != "e" {
		t.Errorf("Expected oldest entries to be dropped, got %s..%s", entries[0].ID, entries[2].ID)
	}
}

func TestNewFileManager_DefaultMaxEntries(t *testing.T) {
	mgr := NewFileManager("history.json", 0)
	if mgr.maxEntries != DefaultMaxEntries {
		t.Errorf("Expected maxEntries %d, got %d", DefaultMaxEntries, mgr.maxEntries)
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{"single line", "fix: typo", "fix: typo"},
		{"multi line", "feat: x ***BUMP MINOR***\n\nlong body", "feat: x ***BUMP MINOR***"},
		{"crlf", "fix: y\r\nbody", "fix: y"},
		{"empty", "", ""},
		{"long", strings.Repeat("a", 200), strings.Repeat("a", 117) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subject(tt.message); got != tt.expected {
				t.Errorf("Subject() = %q, want %q", got, tt.expected)
			}
		})
	}
}
