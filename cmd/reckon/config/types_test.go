// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// TestDefaultConfig verifies sane first-run defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseDir == "" {
		t.Error("BaseDir should not be empty")
	}
	if !strings.HasPrefix(cfg.HistoryDir, cfg.BaseDir) {
		t.Errorf("HistoryDir %q should be under BaseDir %q", cfg.HistoryDir, cfg.BaseDir)
	}
	if !strings.HasPrefix(cfg.LogDir, cfg.BaseDir) {
		t.Errorf("LogDir %q should be under BaseDir %q", cfg.LogDir, cfg.BaseDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero history size", func(c *Config) { c.MaxHistorySize = 0 }, true},
		{"negative precision", func(c *Config) { c.Precision = -1 }, true},
		{"missing base dir", func(c *Config) { c.BaseDir = "" }, true},
		{"missing history file", func(c *Config) { c.HistoryFile = "" }, true},
		{"garbage max input", func(c *Config) { c.MaxInputValue = "abc" }, true},
		{"empty max input is unbounded", func(c *Config) { c.MaxInputValue = "" }, false},
		{"empty log dir is allowed", func(c *Config) { c.LogDir = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MaxInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInputValue = "1e100"
	want, _ := decimal.NewFromString("1e100")
	if !cfg.MaxInput().Equal(want) {
		t.Errorf("MaxInput() = %s, want %s", cfg.MaxInput(), want)
	}

	cfg.MaxInputValue = ""
	if !cfg.MaxInput().IsZero() {
		t.Error("empty MaxInputValue should disable the bound")
	}

	cfg.MaxInputValue = "garbage"
	if !cfg.MaxInput().IsZero() {
		t.Error("unparseable MaxInputValue should disable the bound")
	}
}

func TestConfig_HistoryFilePath(t *testing.T) {
	cfg := Config{HistoryDir: "/tmp/reckon/history", HistoryFile: "ledger.csv"}
	want := filepath.Join("/tmp/reckon/history", "ledger.csv")
	if got := cfg.HistoryFilePath(); got != want {
		t.Errorf("HistoryFilePath() = %q, want %q", got, want)
	}
}
