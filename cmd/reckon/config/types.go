// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Config holds every tunable the calculator reads at startup.
type Config struct {
	// BaseDir is the root directory for all calculator state.
	BaseDir string `yaml:"base_dir" mapstructure:"base_dir" validate:"required"`

	// HistoryDir is where history files are written.
	HistoryDir string `yaml:"history_dir" mapstructure:"history_dir" validate:"required"`

	// LogDir is where log files are written.
	LogDir string `yaml:"log_dir" mapstructure:"log_dir"`

	// HistoryFile is the file name of the default history table inside
	// HistoryDir.
	HistoryFile string `yaml:"history_file" mapstructure:"history_file" validate:"required"`

	// MaxHistorySize caps the undo and redo stacks.
	MaxHistorySize int `yaml:"max_history_size" mapstructure:"max_history_size" validate:"gt=0"`

	// Precision controls how many decimal places results are displayed
	// with. Stored values keep full precision regardless.
	Precision int `yaml:"precision" mapstructure:"precision" validate:"gte=0,lte=50"`

	// MaxInputValue bounds the magnitude of accepted operands. Expressed
	// as a string so the full decimal range survives the YAML round trip.
	// An empty string or "0" disables the bound.
	MaxInputValue string `yaml:"max_input_value" mapstructure:"max_input_value"`

	// AutoSave persists history after every successful calculation.
	AutoSave bool `yaml:"auto_save" mapstructure:"auto_save"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	base := defaultBaseDir()
	return Config{
		BaseDir:        base,
		HistoryDir:     filepath.Join(base, "history"),
		LogDir:         filepath.Join(base, "logs"),
		HistoryFile:    "reckon_history.csv",
		MaxHistorySize: 1000,
		Precision:      10,
		MaxInputValue:  "1e100",
		AutoSave:       true,
	}
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to a relative directory when no home is resolvable.
		return ".reckon"
	}
	return filepath.Join(home, ".reckon")
}

// Validate checks structural constraints and the decimal fields that
// struct tags cannot express.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.MaxInputValue != "" {
		if _, err := decimal.NewFromString(c.MaxInputValue); err != nil {
			return fmt.Errorf("invalid configuration: max_input_value %q is not a decimal: %w", c.MaxInputValue, err)
		}
	}
	return nil
}

// MaxInput parses MaxInputValue. Zero disables the magnitude check.
func (c Config) MaxInput() decimal.Decimal {
	if c.MaxInputValue == "" {
		return decimal.Zero
	}
	max, err := decimal.NewFromString(c.MaxInputValue)
	if err != nil {
		return decimal.Zero
	}
	return max
}

// HistoryFilePath returns the absolute path of the default history table.
func (c Config) HistoryFilePath() string {
	return filepath.Join(c.HistoryDir, c.HistoryFile)
}
