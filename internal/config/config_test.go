package config

import (
	"path/filepath"
	"testing"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return &Manager{
		configPath: filepath.Join(t.TempDir(), "config.json"),
		config:     DefaultConfig(),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := testManager(t)

	cfg := m.Get()
	cfg.General.ListenOnly = true
	cfg.General.SwallowKeys = []string{"Alt", "MetaLeft"}
	cfg.General.APIPort = 9999
	m.Set(cfg)

	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m2 := &Manager{configPath: m.configPath, config: DefaultConfig()}
	if err := m2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	got := m2.Get()
	if !got.General.ListenOnly {
		t.Error("ListenOnly not persisted")
	}
	if got.General.APIPort != 9999 {
		t.Errorf("APIPort = %d, want 9999", got.General.APIPort)
	}
	if len(got.General.SwallowKeys) != 2 || got.General.SwallowKeys[0] != "Alt" {
		t.Errorf("SwallowKeys = %v", got.General.SwallowKeys)
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m := testManager(t)
	if err := m.Load(); err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if m.Get().General.APIPort != DefaultConfig().General.APIPort {
		t.Error("defaults not kept")
	}
}

func TestChangeCallback(t *testing.T) {
	m := testManager(t)

	called := 0
	m.RegisterChangeCallback(func() { called++ })

	cfg := m.Get()
	cfg.General.TrayEnabled = false
	m.Set(cfg)

	if called != 1 {
		t.Errorf("change callback called %d times, want 1", called)
	}
}
