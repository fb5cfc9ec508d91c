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
	"github.com/spf13/cobra"

	"github.com/lassandro/lc3sim/pkg/debugger"
	"github.com/lassandro/lc3sim/pkg/encoding"
	"github.com/lassandro/lc3sim/pkg/image"
	"github.com/lassandro/lc3sim/pkg/sim"
)

func newMemCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mem <image> <addr> [count]",
		Short: "Dump memory of a loaded image without running it",
		Args:  cobra.RangeArgs(2, 3),
		RunE:  dumpMemory,
	}
}

func dumpMemory(cmd *cobra.Command, args []string) error {
	img, err := image.Load(args[0])
	if err != nil {
		return err
	}

	addr, err := encoding.DecodeAddr(args[1])
	if err != nil {
		return err
	}

	count := uint16(1)
	if len(args) > 2 {
		if count, err = encoding.DecodeAddr(args[2]); err != nil {
			return err
		}
	}

	s := sim.NewWithNoOpIO()
	defer s.Close()

	s.LoadProgram(img)
	debugger.PrintMem(cmd.OutOrStdout(), s.Machine(), addr, count)

	return nil
}
