package profiles

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "my-profile", "my-profile"},
		{"spaces replaced", "nuclei run 2", "nuclei_run_2"},
		{"path separators stripped", "../../etc/passwd", "etc_passwd"},
		{"unicode collapsed", "pröfile", "pr_file"},
		{"empty", "", ""},
		{"only unsafe chars", "///", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	profile := Default()
	profile.Model = "nuclei"
	profile.Diameter = 55

	safe, err := store.Save("nuclei large", profile)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if safe != "nuclei_large" {
		t.Errorf("Expected sanitized name nuclei_large, got %s", safe)
	}

	loaded, err := store.Load(safe)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "nuclei" || loaded.Diameter != 55 {
		t.Errorf("Loaded profile does not match: %+v", loaded)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.Save("   ", Default()); err == nil {
		t.Error("Expected error for unusable profile name")
	}

	bad := Default()
	bad.FlowThreshold = 2.0
	if _, err := store.Save("bad", bad); err == nil {
		t.Error("Expected error for out-of-range flow threshold")
	}
}

func TestLoadRejectsTamperedFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "not json at all"},
		{"out of range", `{"model":"cyto3","diameter":500,"flow_threshold":0.4,"cellprob_threshold":0,"chan":0,"chan2":0,"display_channel":"RGB","colormap":"tab20b"}`},
		{"bad colormap", `{"model":"cyto3","diameter":30,"flow_threshold":0.4,"cellprob_threshold":0,"chan":0,"chan2":0,"display_channel":"RGB","colormap":"jet"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(filepath.Join(dir, "tampered.json"), []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := store.Load("tampered"); err == nil {
				t.Error("Expected error for tampered profile")
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Load("nope"); err == nil {
		t.Error("Expected error for missing profile")
	}
}

func TestListAndDelete(t *testing.T) {
	store := NewStore(t.TempDir())

	names, err := store.List()
	if err != nil {
		t.Fatalf("List on empty store failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty list, got %v", names)
	}

	for _, name := range []string{"beta", "alpha"} {
		if _, err := store.Save(name, Default()); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	names, err = store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("Expected sorted [alpha beta], got %v", names)
	}

	if err := store.Delete("alpha"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete("alpha"); err == nil {
		t.Error("Expected error deleting missing profile")
	}

	names, _ = store.List()
	if len(names) != 1 || names[0] != "beta" {
		t.Errorf("Expected [beta] after delete, got %v", names)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default profile must validate: %v", err)
	}
}
