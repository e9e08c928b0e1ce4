/*
 * memsim - Command script replay.
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
	"os"

	"github.com/schollz/progressbar/v3"

	memsim "github.com/rcornwell/memsim"
	"github.com/rcornwell/memsim/command"
)

// runScript replays every command in the script file at path against
// sim, halting and returning the first error (§7: the simulator prints
// the error and the offending command and halts the run).
func runScript(sim *memsim.Simulator, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cmds, err := command.ParseScript(f)
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(cmds)), "replaying script")
	for _, cmd := range cmds {
		if err := execute(sim, cmd); err != nil {
			fmt.Fprintf(os.Stderr, "command failed: %+v: %v\n", cmd, err)
			return err
		}
		_ = bar.Add(1)
	}
	return nil
}

// execute dispatches one parsed Command to the Simulator's read/write
// path.
func execute(sim *memsim.Simulator, cmd command.Command) error {
	switch cmd.Order {
	case command.Read:
		if cmd.DataSize == 1 {
			_, err := sim.ReadByte(cmd.Vaddr, cmd.Access)
			return err
		}
		_, err := sim.ReadWord(cmd.Vaddr, cmd.Access)
		return err
	case command.Write:
		if cmd.DataSize == 1 {
			return sim.WriteByte(cmd.Vaddr, byte(cmd.WriteVal))
		}
		return sim.WriteWord(cmd.Vaddr, cmd.WriteVal)
	default:
		return fmt.Errorf("unknown command order %v", cmd.Order)
	}
}
