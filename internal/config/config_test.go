package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MinClipDurationMs != DefaultConfig().MinClipDurationMs {
		t.Fatalf("MinClipDurationMs = %d, want %d", cfg.MinClipDurationMs, DefaultConfig().MinClipDurationMs)
	}
	if cfg.DefaultFramerate != "30/1" {
		t.Fatalf("DefaultFramerate = %q, want %q", cfg.DefaultFramerate, "30/1")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"min_clip_duration_ms": 40, "default_framerate": "30000/1001"}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MinClipDurationMs != 40 {
		t.Fatalf("MinClipDurationMs = %d, want %d", cfg.MinClipDurationMs, 40)
	}
	if cfg.DefaultFramerate != "30000/1001" {
		t.Fatalf("DefaultFramerate = %q, want %q", cfg.DefaultFramerate, "30000/1001")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{"disabled_tools": ["clear_history", "delete_clip"]}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "clear_history" {
		t.Errorf("DisabledTools[0] = %q, want %q", cfg.DisabledTools[0], "clear_history")
	}
	if cfg.DisabledTools[1] != "delete_clip" {
		t.Errorf("DisabledTools[1] = %q, want %q", cfg.DisabledTools[1], "delete_clip")
	}
}

func TestLoad_DisabledToolsEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.DisabledTools) != 0 {
		t.Fatalf("DisabledTools = %v, want nil or empty", cfg.DisabledTools)
	}
}

func TestLoadWithProject_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	projectRoot := t.TempDir()

	// Global config
	globalConfig := `{"min_clip_duration_ms": 10, "disabled_tools": ["clear_history"]}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// Project config at projectRoot/.montage/config.json
	montageDir := filepath.Join(projectRoot, ".montage")
	if err := os.MkdirAll(montageDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	projectConfig := `{"min_clip_duration_ms": 25, "disabled_tools": ["delete_clip"]}`
	if err := os.WriteFile(filepath.Join(montageDir, "config.json"), []byte(projectConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadWithProject(globalDir, projectRoot)
	if err != nil {
		t.Fatalf("LoadWithProject() error = %v", err)
	}

	// Project overrides scalar
	if cfg.MinClipDurationMs != 25 {
		t.Errorf("MinClipDurationMs = %d, want 25 (project override)", cfg.MinClipDurationMs)
	}

	// Arrays merged
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithProject_OnlyGlobal(t *testing.T) {
	globalDir := t.TempDir()
	projectDir := t.TempDir() // No config file

	globalConfig := `{"min_clip_duration_ms": 10, "disabled_tools": ["clear_history"]}`
	if err := os.WriteFile(filepath.Join(globalDir, "config.json"), []byte(globalConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadWithProject(globalDir, projectDir)
	if err != nil {
		t.Fatalf("LoadWithProject() error = %v", err)
	}

	if cfg.MinClipDurationMs != 10 {
		t.Errorf("MinClipDurationMs = %d, want 10", cfg.MinClipDurationMs)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "clear_history" {
		t.Errorf("DisabledTools = %v, want [clear_history]", cfg.DisabledTools)
	}
}

func TestLoadWithProject_OnlyProject(t *testing.T) {
	globalDir := t.TempDir() // No config file
	projectRoot := t.TempDir()

	// Project config at projectRoot/.montage/config.json
	montageDir := filepath.Join(projectRoot, ".montage")
	if err := os.MkdirAll(montageDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	projectConfig := `{"disabled_tools": ["delete_clip", "clear_history"]}`
	if err := os.WriteFile(filepath.Join(montageDir, "config.json"), []byte(projectConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadWithProject(globalDir, projectRoot)
	if err != nil {
		t.Fatalf("LoadWithProject() error = %v", err)
	}

	// Default value preserved
	if cfg.MinClipDurationMs != 1 {
		t.Errorf("MinClipDurationMs = %d, want 1 (default)", cfg.MinClipDurationMs)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
}

func TestLoadWithProject_NeitherPresent(t *testing.T) {
	globalDir := t.TempDir()
	projectDir := t.TempDir()

	cfg, err := LoadWithProject(globalDir, projectDir)
	if err != nil {
		t.Fatalf("LoadWithProject() error = %v", err)
	}

	// All defaults
	if cfg.MinClipDurationMs != 1 {
		t.Errorf("MinClipDurationMs = %d, want 1", cfg.MinClipDurationMs)
	}
	if cfg.HTTPPort != 7453 {
		t.Errorf("HTTPPort = %d, want 7453", cfg.HTTPPort)
	}
	if len(cfg.DisabledTools) != 0 {
		t.Errorf("DisabledTools = %v, want empty", cfg.DisabledTools)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{MinClipDurationMs: 10, DBMaxOpenConns: 5}
	overlay := &Config{MinClipDurationMs: 40} // DBMaxOpenConns is 0 (zero value)

	result := Merge(base, overlay)

	if result.MinClipDurationMs != 40 {
		t.Errorf("MinClipDurationMs = %d, want 40 (overlay)", result.MinClipDurationMs)
	}
	if result.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want 5 (base, overlay is zero)", result.DBMaxOpenConns)
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"clear_history", "delete_clip"}}
	overlay := &Config{DisabledTools: []string{"delete_clip", "split_clip"}}

	result := Merge(base, overlay)

	if len(result.DisabledTools) != 3 {
		t.Errorf("DisabledTools length = %d, want 3 (merged, deduped)", len(result.DisabledTools))
	}

	// Check all three are present
	has := make(map[string]bool)
	for _, s := range result.DisabledTools {
		has[s] = true
	}
	for _, want := range []string{"clear_history", "delete_clip", "split_clip"} {
		if !has[want] {
			t.Errorf("DisabledTools missing %q", want)
		}
	}
}

func TestFindProjectConfig_InCurrentDir(t *testing.T) {
	tmpDir := t.TempDir()
	montageDir := filepath.Join(tmpDir, ".montage")
	if err := os.MkdirAll(montageDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	configPath := filepath.Join(montageDir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	found := FindProjectConfig(tmpDir)
	if found != configPath {
		t.Errorf("FindProjectConfig() = %q, want %q", found, configPath)
	}
}

func TestFindProjectConfig_InParentDir(t *testing.T) {
	// Create: tmpDir/.montage/config.json
	//         tmpDir/subdir/deeper/
	tmpDir := t.TempDir()
	montageDir := filepath.Join(tmpDir, ".montage")
	if err := os.MkdirAll(montageDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	configPath := filepath.Join(montageDir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	subdir := filepath.Join(tmpDir, "subdir", "deeper")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	// Start from subdir, should find config in parent
	found := FindProjectConfig(subdir)
	if found != configPath {
		t.Errorf("FindProjectConfig() = %q, want %q", found, configPath)
	}
}

func TestFindProjectConfig_NotFound(t *testing.T) {
	tmpDir := t.TempDir()
	// No .montage directory

	found := FindProjectConfig(tmpDir)
	if found != "" {
		t.Errorf("FindProjectConfig() = %q, want empty string", found)
	}
}

func TestLoadWithProject_WalksUpward(t *testing.T) {
	// Create: tmpDir/.montage/config.json with disabled_tools
	//         tmpDir/subdir/
	tmpDir := t.TempDir()
	globalDir := t.TempDir() // Separate global dir

	montageDir := filepath.Join(tmpDir, ".montage")
	if err := os.MkdirAll(montageDir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	projectConfig := `{"disabled_tools": ["clear_history"]}`
	if err := os.WriteFile(filepath.Join(montageDir, "config.json"), []byte(projectConfig), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	subdir := filepath.Join(tmpDir, "subdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	// Load from subdir, should find project config in parent
	cfg, err := LoadWithProject(globalDir, subdir)
	if err != nil {
		t.Fatalf("LoadWithProject() error = %v", err)
	}

	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "clear_history" {
		t.Errorf("DisabledTools = %v, want [clear_history]", cfg.DisabledTools)
	}
}
