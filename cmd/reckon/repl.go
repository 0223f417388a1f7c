// Copyright (C) 2026 Reckon Contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package main contains the Reckon REPL loop.
//
// Architecture:
//
//	commands.go → ReplRunner → engine.Calculator
//	                           operation.Registry
//	                           InputReader (stdin abstraction)
//	                           pkg/ux (output styling)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/reckonhq/reckon/cmd/reckon/config"
	"github.com/reckonhq/reckon/pkg/engine"
	"github.com/reckonhq/reckon/pkg/errs"
	"github.com/reckonhq/reckon/pkg/logging"
	"github.com/reckonhq/reckon/pkg/operation"
	"github.com/reckonhq/reckon/pkg/storage"
	"github.com/reckonhq/reckon/pkg/ux"
)

// errExit signals a clean user-requested exit from the REPL loop.
var errExit = errors.New("exit requested")

// aliases maps REPL shorthand to canonical operation names. Canonical
// names always resolve to themselves via the registry, so only the
// shorthand forms appear here.
var aliases = map[string]string{
	"sub":        "subtract",
	"mult":       "multiply",
	"div":        "divide",
	"exp":        "power",
	"int-divide": "integer-divide",
	"idiv":       "integer-divide",
	"mod":        "modulus",
	"percent":    "percentage",
	"perc":       "percentage",
	"abs-diff":   "absolute-difference",
	"absv":       "absolute-difference",
}

// replCommands are the non-operation commands, for the help screen.
var replCommands = []string{
	"help", "history", "undo", "redo", "clear", "save", "load", "exit",
}

// ReplRunner drives an interactive calculator session.
//
// It owns the engine, the operation registry, and the persistent store.
// Not safe for concurrent use; the REPL is single-threaded.
type ReplRunner struct {
	calc      *engine.Calculator
	registry  *operation.Registry
	store     *storage.CSVStore
	reader    InputReader
	log       *logging.Logger
	precision int32
	sessionID string
}

// NewReplRunner wires an engine, registry, and store from the loaded
// configuration. Each runner carries a fresh session id in all of its
// log records.
func NewReplRunner(cfg config.Config, reader InputReader, log *logging.Logger) *ReplRunner {
	if log == nil {
		log = logging.Default()
	}
	sessionID := uuid.New().String()
	sessionLog := log.With("session_id", sessionID)

	store := storage.NewCSVStore(cfg.HistoryFilePath(), sessionLog)
	calc := engine.New(engine.Config{
		MaxInputValue:  cfg.MaxInput(),
		MaxHistorySize: cfg.MaxHistorySize,
	}, store, sessionLog)

	calc.AddObserver(engine.NewLoggingObserver(sessionLog))
	if cfg.AutoSave {
		calc.AddObserver(engine.NewAutoSaveObserver(calc))
	}

	return &ReplRunner{
		calc:      calc,
		registry:  operation.NewRegistry(),
		store:     store,
		reader:    reader,
		log:       sessionLog,
		precision: int32(cfg.Precision),
		sessionID: sessionID,
	}
}

// Run executes the REPL until exit, EOF, or context cancellation.
// History is saved best-effort on the way out.
func (r *ReplRunner) Run(ctx context.Context) error {
	r.log.Info("session started")
	ux.Title("Reckon")
	ux.Muted("type 'help' for commands, 'exit' to leave")

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return ctx.Err()
		default:
		}

		line, err := r.readLine("reckon> ")
		if err != nil {
			if err == io.EOF {
				r.shutdown()
				return nil
			}
			return err
		}

		if err := r.dispatch(line); err != nil {
			if errors.Is(err, errExit) {
				r.shutdown()
				return nil
			}
			return err
		}
	}
}

// shutdown saves history best-effort and logs the session end.
func (r *ReplRunner) shutdown() {
	if err := r.calc.SaveHistory(); err != nil {
		r.log.Warn("failed to save history on exit", "error", err)
	}
	r.log.Info("session ended", "entries", len(r.calc.History()))
	ux.Muted("goodbye")
}

// readLine displays prompt and reads one line of input.
func (r *ReplRunner) readLine(prompt string) (string, error) {
	if p, ok := r.reader.(PromptingInputReader); ok {
		p.SetPrompt(prompt)
	} else {
		fmt.Print(prompt)
	}
	return r.reader.ReadLine()
}

// dispatch routes a single REPL line. Returns errExit on exit/quit.
func (r *ReplRunner) dispatch(line string) error {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "":
		return nil
	case "exit", "quit":
		return errExit
	case "help":
		r.printHelp()
	case "history":
		r.printHistory()
	case "clear":
		r.calc.ClearHistory()
		ux.Success("history cleared")
	case "undo":
		if r.calc.Undo() {
			ux.Success("undone")
		} else {
			ux.Warning("nothing to undo")
		}
	case "redo":
		if r.calc.Redo() {
			ux.Success("redone")
		} else {
			ux.Warning("nothing to redo")
		}
	case "save":
		if err := r.calc.SaveHistory(); err != nil {
			ux.Error(fmt.Sprintf("save failed: %v", err))
			return nil
		}
		ux.Success(fmt.Sprintf("saved %d entries to %s", len(r.calc.History()), r.store.Path()))
	case "load":
		if err := r.calc.LoadHistory(); err != nil {
			ux.Error(fmt.Sprintf("load failed: %v", err))
			return nil
		}
		ux.Success(fmt.Sprintf("loaded %d entries from %s", len(r.calc.History()), r.store.Path()))
	default:
		r.runOperation(cmd)
	}
	return nil
}

// runOperation resolves an operation token, prompts for two operands,
// and performs the calculation.
func (r *ReplRunner) runOperation(name string) {
	canonical := name
	if target, ok := aliases[canonical]; ok {
		canonical = target
	}

	op, err := r.registry.Create(canonical)
	if err != nil {
		if errs.IsUnknownOperation(err) {
			ux.Error(fmt.Sprintf("unknown command %q", name))
			ux.Muted("type 'help' for the list of commands")
			return
		}
		ux.Error(err.Error())
		return
	}
	r.calc.SetOperation(op)

	a, ok := r.promptOperand("operand 1> ")
	if !ok {
		return
	}
	b, ok := r.promptOperand("operand 2> ")
	if !ok {
		return
	}

	result, err := r.calc.Perform(a, b)
	if err != nil {
		ux.Error(err.Error())
		return
	}
	ux.Result(fmt.Sprintf("%s(%s, %s) = %s", canonical, a, b, r.format(result)))
}

// promptOperand reads one operand. Typing "cancel" aborts the operation
// and returns ok=false, as does EOF.
func (r *ReplRunner) promptOperand(prompt string) (string, bool) {
	for {
		raw, err := r.readLine(prompt)
		if err != nil {
			if err != io.EOF {
				ux.Error(err.Error())
			}
			return "", false
		}
		if strings.EqualFold(strings.TrimSpace(raw), "cancel") {
			ux.Muted("cancelled")
			return "", false
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		return raw, true
	}
}

// format rounds a result for display. Stored history keeps full
// precision regardless.
func (r *ReplRunner) format(d decimal.Decimal) string {
	if r.precision > 0 {
		return d.Round(r.precision).String()
	}
	return d.String()
}

func (r *ReplRunner) printHelp() {
	ux.Title("Operations")
	names := r.registry.Names()
	sort.Strings(names)
	for _, name := range names {
		short := shorthandFor(name)
		if short != "" {
			ux.Info(fmt.Sprintf("%s (%s)", name, short))
		} else {
			ux.Info(name)
		}
	}
	ux.Title("Commands")
	for _, cmd := range replCommands {
		ux.Info(cmd)
	}
	ux.Muted("operations prompt for two operands; type 'cancel' to abort")
}

// shorthandFor returns the comma-joined aliases of a canonical name.
func shorthandFor(canonical string) string {
	var shorts []string
	for alias, target := range aliases {
		if target == canonical {
			shorts = append(shorts, alias)
		}
	}
	sort.Strings(shorts)
	return strings.Join(shorts, ", ")
}

func (r *ReplRunner) printHistory() {
	lines := r.calc.ShowHistory()
	if len(lines) == 0 {
		ux.Muted("history is empty")
		return
	}
	for i, line := range lines {
		ux.HistoryLine(i+1, line)
	}
	ux.Summary(len(lines), r.calc.UndoDepth(), r.calc.RedoDepth())
}
