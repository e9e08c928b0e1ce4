/*
 * memsim - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	memsim "github.com/rcornwell/memsim"
	"github.com/rcornwell/memsim/config"
	"github.com/rcornwell/memsim/internal/simlog"
	"github.com/rcornwell/memsim/loader"
)

var Logger *slog.Logger

func main() {
	optMemImage := getopt.StringLong("memimage", 'm', "", "Memory description file")
	optScript := getopt.StringLong("script", 's', "", "Command script to replay")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optHierTLB := getopt.BoolLong("hier-tlb", 't', "Use the direct-mapped TLB hierarchy instead of the fully-associative TLB")
	optInteractive := getopt.BoolLong("interactive", 'i', "Start an interactive command REPL")
	optProgress := getopt.BoolLong("progress", 'p', "Show a progress bar while loading the memory image")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	defaults := config.LoadDefaults()

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "creating log file:", err)
			os.Exit(1)
		}
	}
	level := new(slog.LevelVar)
	level.Set(defaults.LogLevel)
	Logger = slog.New(simlog.New(file, &slog.HandlerOptions{Level: level}, false))
	slog.SetDefault(Logger)

	if *optMemImage == "" {
		Logger.Error("please specify a memory description file with --memimage")
		os.Exit(1)
	}

	mem, err := loader.Load(*optMemImage, *optProgress)
	if err != nil {
		Logger.Error("loading memory image", "error", err)
		os.Exit(1)
	}

	mode := memsim.FullyAssociative
	if *optHierTLB {
		mode = memsim.Hierarchical
	}
	sim := memsim.New(mem, mode, Logger)

	if *optScript != "" {
		if err := runScript(sim, *optScript); err != nil {
			Logger.Error("replaying command script", "error", err)
			os.Exit(1)
		}
	}

	if *optInteractive {
		runREPL(sim)
	}
}
