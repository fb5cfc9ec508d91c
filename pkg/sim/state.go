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

package sim

import (
	"github.com/lassandro/lc3sim/pkg/machine"
)

// State is a copy of the machine registers taken when a run returns.
type State struct {
	Regs    [8]uint32
	PC      uint32
	CC      byte
	PSR     uint32
	MCR     uint32
	Success bool
}

func snapshot(mc *machine.Machine, success bool) State {
	var state State

	for i := range state.Regs {
		state.Regs[i] = uint32(mc.GetReg(uint8(i)))
	}

	state.PC = uint32(mc.GetPC())
	state.CC = mc.GetCC()
	state.PSR = uint32(mc.GetPSR())
	state.MCR = uint32(mc.GetMCR())
	state.Success = success

	return state
}

// Halted reports whether the clock was stopped, as opposed to a pause at
// a breakpoint.
func (s State) Halted() bool {
	return s.MCR&uint32(machine.MCR_CLOCK) == 0
}
