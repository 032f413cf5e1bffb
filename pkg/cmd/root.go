// Copyright IKOS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package cmd implements the ikos-analyze demonstration CLI: a thin cobra
// wrapper exposing pkg/engine's config knobs as flags and running it over
// a single hard-coded toy CFG (pkg/engine has no IR frontend of its own to
// point at a real source file).
//
// Grounded on the teacher's own pkg/cmd/root.go: a package-level rootCmd,
// GetFlag/GetUint/GetString accessor helpers that exit on a cobra error
// rather than threading one through, and an init() that registers every
// flag in one place.
package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/NASA-SW-VnV/ikos-sub006/pkg/config"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/engine"
	"github.com/NASA-SW-VnV/ikos-sub006/pkg/results"
)

var rootCmd = &cobra.Command{
	Use:   "ikos-analyze",
	Short: "Run the abstract-interpretation engine over a toy CFG.",
	Long: `ikos-analyze demonstrates the analyzer core on a single built-in loop
function ("x = 0; while (x < bound) x = x + 1;"), printing the invariant
computed at every program point. It exists to exercise pkg/engine from the
command line; a real frontend would build its own ir.CFG and call the
library directly instead of going through this command.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAnalyze(cmd)
	},
}

// Execute runs rootCmd, which has no subcommands. Called once by
// main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.DefaultConfig()
	cfg.WideningDelay = GetUint(cmd, "widening-delay")
	cfg.NarrowingIterations = GetUint(cmd, "narrowing-iterations")
	cfg.MaxReductionCycles = GetUint(cmd, "max-reduction-cycles")

	domain, err := parseNumericalDomain(GetString(cmd, "numerical-domain"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	cfg.NumericalDomain = domain

	precision, err := parsePrecision(GetString(cmd, "precision"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	cfg.Precision = precision

	eng := engine.New(toyVariableFactory{}, cfg)
	table, err := eng.Analyze(toyCFG{}, "toy")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	printTable(table)
}

func printTable(table *results.Table) {
	width := terminalWidth()
	table.ForEach(func(e results.Entry) bool {
		line := fmt.Sprintf("node %d [%s]: %s = %s", e.Key.Node, e.Key.CallContext, e.Status, e.Value)
		if e.Message != "" {
			line += " (" + e.Message + ")"
		}
		if len(line) > width {
			line = line[:width-3] + "..."
		}
		fmt.Println(line)
		return true
	})
}

// terminalWidth reports stdout's column count, falling back to a sane
// default when stdout isn't a terminal (redirected to a file, piped, or
// running in CI) the way the teacher's termio package does before it ever
// draws a widget.
func terminalWidth() int {
	const fallback = 100
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

func parseNumericalDomain(s string) (config.NumericalDomain, error) {
	switch s {
	case "interval":
		return config.Interval, nil
	case "interval-congruence":
		return config.IntervalCongruence, nil
	case "dbm":
		return config.DBM, nil
	case "apron-octagon":
		return config.ApronOctagon, nil
	case "apron-polka":
		return config.ApronPolka, nil
	case "varpacking-dbm":
		return config.VarPackingDBM, nil
	default:
		return 0, fmt.Errorf("unknown numerical domain %q", s)
	}
}

func parsePrecision(s string) (config.Precision, error) {
	switch s {
	case "register":
		return config.RegisterOnly, nil
	case "pointer":
		return config.Pointer, nil
	case "memory":
		return config.Memory, nil
	default:
		return 0, fmt.Errorf("unknown precision level %q", s)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Uint("widening-delay", 1, "iterations at a loop head before widening starts")
	rootCmd.PersistentFlags().Uint("narrowing-iterations", 2, "descending passes after the ascending phase")
	rootCmd.PersistentFlags().Uint("max-reduction-cycles", 10, "reduction cycle budget, recorded in the config; the domains' linear solver always uses linear.DefaultMaxReductionCycles (10)")
	rootCmd.PersistentFlags().String("numerical-domain", "interval",
		"interval|interval-congruence|dbm|apron-octagon|apron-polka|varpacking-dbm")
	rootCmd.PersistentFlags().String("precision", "register", "register|pointer|memory")
}
