// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "frugalconv.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Protocol != "binary" {
		t.Errorf("expected protocol=binary, got %s", cfg.Protocol)
	}
	if cfg.Indent != 4 {
		t.Errorf("expected indent=4, got %d", cfg.Indent)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("expected color=auto, got %s", cfg.Color)
	}
	if cfg.Strict {
		t.Error("expected strict=false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_WithoutVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_WithVariable(t *testing.T) {
	configPath := writeConfig(t, `
protocol: compact
indent: 2
color: never
strict: true
`)
	t.Setenv(EnvironmentVariable, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := Config{Protocol: "compact", Indent: 2, Color: ColorNever, Strict: true}
	if *cfg != want {
		t.Errorf("got %+v, want %+v", *cfg, want)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	configPath := writeConfig(t, "indent: 0\n")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Indent != 0 {
		t.Errorf("expected indent=0, got %d", cfg.Indent)
	}
	if cfg.Protocol != "binary" || cfg.Color != ColorAuto {
		t.Errorf("unset fields lost their defaults: %+v", cfg)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown key",
			content: "protocl: compact\n",
			wantErr: "protocl",
		},
		{
			name:    "bad protocol",
			content: "protocol: json\n",
			wantErr: "protocol must be one of",
		},
		{
			name:    "negative indent",
			content: "indent: -1\n",
			wantErr: "indent must be between",
		},
		{
			name:    "bad color",
			content: "color: sometimes\n",
			wantErr: "color must be one of",
		},
		{
			name:    "not yaml",
			content: "protocol: [unterminated\n",
			wantErr: "load config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := &Config{Protocol: "x", Indent: 99, Color: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, fragment := range []string{"protocol", "indent", "color"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q does not mention %s", err.Error(), fragment)
		}
	}
}
