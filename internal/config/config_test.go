package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gantt2svg/internal/timeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.View.Granularity != "week" {
		t.Errorf("granularity = %q, want week", cfg.View.Granularity)
	}
	if cfg.Layout.MinWidthPercent != timeline.DefaultMinWidthPercent {
		t.Errorf("min width = %v", cfg.Layout.MinWidthPercent)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
view:
  granularity: month
  reference: "2024-02-15"
layout:
  slot_height: 30
colors:
  statuses:
    on_hold: "#000000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.View.Granularity != "month" || cfg.Layout.SlotHeight != 30 {
		t.Errorf("yaml values not applied: %+v", cfg.View)
	}
	if cfg.Layout.Width != 1200 {
		t.Errorf("width = %d, want default 1200", cfg.Layout.Width)
	}
	if cfg.Colors.Statuses["on_hold"] != "#000000" {
		t.Errorf("on_hold colour = %q", cfg.Colors.Statuses["on_hold"])
	}
	if cfg.Colors.Statuses["completed"] == "" {
		t.Errorf("default status colours were dropped")
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, "view:\n  granularity: month\n")
	t.Setenv("GANTT_VIEW_GRANULARITY", "year")
	t.Setenv("GANTT_LAYOUT_MIN_WIDTH_PERCENT", "4.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.View.Granularity != "year" {
		t.Errorf("granularity = %q, want year", cfg.View.Granularity)
	}
	if cfg.Layout.MinWidthPercent != 4.5 {
		t.Errorf("min width = %v, want 4.5", cfg.Layout.MinWidthPercent)
	}
}

func TestLoadZeroFloor(t *testing.T) {
	cfg, err := Load(writeConfig(t, "layout:\n  min_width_percent: 0\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	opts := cfg.EngineOptions()
	if opts.MinWidthPercent == nil || *opts.MinWidthPercent != 0 {
		t.Fatalf("EngineOptions().MinWidthPercent = %v, want 0", opts.MinWidthPercent)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"unknown granularity", "view:\n  granularity: quarter\n", nil, "invalid config"},
		{"zero slot height", "layout:\n  slot_height: 0\n", nil, "SlotHeight"},
		{"floor above 100", "layout:\n  min_width_percent: 120\n", nil, "MinWidthPercent"},
		{"negative floor", "layout:\n  min_width_percent: -1\n", nil, "MinWidthPercent"},
		{"broken yaml", "view: [", nil, "error parsing config file"},
		{"bad env number", "", map[string]string{"GANTT_LAYOUT_WIDTH": "wide"}, "error reading environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestViewport(t *testing.T) {
	now := time.Date(2025, 10, 1, 15, 4, 0, 0, time.UTC)

	cfg := Default()
	v, err := cfg.Viewport(now)
	if err != nil {
		t.Fatalf("Viewport() error = %v", err)
	}
	if v.Granularity != timeline.Week || !v.Reference.Equal(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Viewport() = %+v", v)
	}

	cfg.View.Reference = "2025-09-29"
	cfg.View.Granularity = "day"
	v, err = cfg.Viewport(now)
	if err != nil {
		t.Fatalf("Viewport() error = %v", err)
	}
	if v.Granularity != timeline.Day || v.Reference.Day() != 29 {
		t.Errorf("Viewport() = %+v", v)
	}

	cfg.View.Reference = "29/09/2025"
	if _, err := cfg.Viewport(now); err == nil {
		t.Error("expected an error for a malformed reference")
	}
}
