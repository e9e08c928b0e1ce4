/*
 * memsim - Interactive command REPL.
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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/peterh/liner"

	memsim "github.com/rcornwell/memsim"
	"github.com/rcornwell/memsim/command"
	"github.com/rcornwell/memsim/internal/access"
	"github.com/rcornwell/memsim/internal/cache"
)

// runREPL reads §6-format command lines one at a time from the
// terminal, executes each against sim, and prints the result or error.
// Grounded on the teacher's command/reader.ConsoleReader: a liner.Liner
// prompt loop with history, reused here without a completer since the
// command grammar has no sub-command tree to complete against.
func runREPL(sim *memsim.Simulator) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		text, err := line.Prompt("memsim> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("reading line", "error", err)
			return
		}
		line.AppendHistory(text)

		if text == "quit" || text == "exit" {
			return
		}
		if text == "" {
			continue
		}

		cmd, err := command.Parse(text)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if err := execute(sim, cmd); err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Println("ok")
		printDump(sim, cmd.Access)
	}
}

// printDump shows the §6 dump format for the L1 cache level the just-
// executed command touched, the "translation/cache result" the
// --interactive mode is for.
func printDump(sim *memsim.Simulator, acc access.Kind) {
	level := cache.L1Data
	if acc == access.Instruction {
		level = cache.L1Instruction
	}
	if err := sim.DumpCache(os.Stdout, level); err != nil {
		fmt.Println("error dumping cache:", err)
	}
}
