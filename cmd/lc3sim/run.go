// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Run an image until it halts",
		Long: "Run loads an .obj image (origin word first) or a .bin image " +
			"(loaded at x0000) and executes it until HALT. Breakpoints are " +
			"reported and execution continues; ctrl-c stops the run.",
		Args: cobra.ExactArgs(1),
		RunE: runImage,
	}

	addMachineFlags(cmd)
	cmd.Flags().Bool("state", false, "print the machine state when the run ends")

	return cmd
}

func runImage(cmd *cobra.Command, args []string) error {
	ss, err := openSession(cmd, args[0])
	if err != nil {
		return err
	}
	defer ss.Close()

	state := ss.sim.Run(ss.start)

	for state.Success && !state.Halted() && !ss.stopped.Load() {
		ss.logger.Debug("resuming after breakpoint", zap.Uint32("pc", state.PC))
		state = ss.sim.Run(uint16(state.PC))
	}

	ss.printer.Flush()

	out := cmd.OutOrStdout()

	if ss.stopped.Load() && !state.Halted() {
		fmt.Fprintf(out, "\nStopped at x%04X\n", state.PC)
	}

	if show, _ := cmd.Flags().GetBool("state"); show {
		printState(out, state)
	}

	if !state.Success {
		return errors.Errorf("exceptional stop at x%04X", state.PC)
	}

	return nil
}
