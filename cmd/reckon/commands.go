// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/reckonhq/reckon/cmd/reckon/config"
	"github.com/reckonhq/reckon/pkg/logging"
	"github.com/reckonhq/reckon/pkg/storage"
	"github.com/reckonhq/reckon/pkg/ux"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// --- Global Command Variables ---
var (
	configPath string
	plainMode  bool
	debugMode  bool
	forceClear bool

	cfg config.Config
	log *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "reckon",
		Short: "An interactive calculator with durable, undoable history",
		Long: `Reckon is an interactive command line calculator. Every
calculation is appended to a persistent history that survives
restarts and supports unlimited undo and redo within a session.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if plainMode {
				ux.SetPersonalityLevel(ux.PersonalityMachine)
			} else {
				ux.InitPersonality()
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			level := logging.LevelInfo
			if debugMode {
				level = logging.LevelDebug
			}
			log = logging.New(logging.Config{
				Level:   level,
				LogDir:  cfg.LogDir,
				Service: "reckon",
				Quiet:   true, // stderr stays clean for the REPL
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Close()
			}
		},
		RunE: runRepl, // Defined below
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Print the persisted calculation history",
		RunE:  runHistory,
	}

	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted calculation history",
		RunE:  runClear,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reckon %s\n", Version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ~/.reckon/reckon.yaml)")
	rootCmd.PersistentFlags().BoolVar(&plainMode, "plain", false, "plain output without colors or icons")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	clearCmd.Flags().BoolVar(&forceClear, "force", false, "skip the confirmation prompt")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(versionCmd)
}

// runRepl starts an interactive session.
func runRepl(cmd *cobra.Command, args []string) error {
	reader := NewInteractiveInputReader(50)
	runner := NewReplRunner(cfg, reader, log)
	return runner.Run(cmd.Context())
}

// runHistory prints the persisted history table without a session.
func runHistory(cmd *cobra.Command, args []string) error {
	store := storage.NewCSVStore(cfg.HistoryFilePath(), log)
	entries, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(entries) == 0 {
		ux.Muted("history is empty")
		return nil
	}
	for i, entry := range entries {
		ux.HistoryLine(i+1, entry.String())
	}
	return nil
}

// runClear deletes the persisted history. Interactive runs confirm via
// a prompt; non-TTY runs require --force.
func runClear(cmd *cobra.Command, args []string) error {
	path := cfg.HistoryFilePath()

	if !forceClear {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("refusing to clear history without --force in a non-interactive session")
		}
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all persisted history at %s?", path)).
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			ux.Muted("history kept")
			return nil
		}
	}

	store := storage.NewCSVStore(path, log)
	if err := store.Save(nil); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	log.Info("persisted history cleared", "path", path)
	ux.Success("history cleared")
	return nil
}
