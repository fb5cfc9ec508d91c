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

package machine

// Reinitialize resets memory and registers to the power-on baseline.
func (mc *Machine) Reinitialize() {
	mc.State.Reset()
	mc.fault = nil
	mc.paused.Store(false)
}

func (mc *Machine) SetMem(addr uint16, value uint16) {
	mc.State.Memory[addr] = value
}

func (mc *Machine) GetMem(addr uint16) uint16 {
	return mc.State.Memory[addr]
}

func (mc *Machine) SetPC(addr uint16) {
	mc.State.Program = addr
}

func (mc *Machine) GetPC() uint16 {
	return mc.State.Program
}

func (mc *Machine) GetReg(id uint8) uint16 {
	return mc.State.Registers[id&0x7]
}

// GetCC returns the condition code as 'N', 'Z' or 'P'.
func (mc *Machine) GetCC() byte {
	switch {
	case mc.State.Procstat&FLAG_NEG != 0:
		return 'N'
	case mc.State.Procstat&FLAG_ZERO != 0:
		return 'Z'
	case mc.State.Procstat&FLAG_POS != 0:
		return 'P'
	}

	return 'Z'
}

// Current is the address of the instruction most recently fetched.
func (mc *Machine) Current() uint16 {
	return mc.current
}

func (mc *Machine) GetPSR() uint16 {
	return mc.State.Procstat
}

func (mc *Machine) GetMCR() uint16 {
	return mc.State.Control
}

// Fault returns the reason for the last exceptional stop, or nil.
func (mc *Machine) Fault() *Fault {
	return mc.fault
}

// Pause stops RunUntilHalt after the current instruction without halting
// the machine. The clock bit in MCR stays set. Pause may be called from
// another goroutine.
func (mc *Machine) Pause() {
	mc.paused.Store(true)
}

func (mc *Machine) Paused() bool {
	return mc.paused.Load()
}

// RunUntilHalt executes from the current PC until the clock is stopped, an
// exception has nowhere to go, or a debugger pauses the machine. It
// reports false only for the exceptional stop.
func (mc *Machine) RunUntilHalt() bool {
	mc.fault = nil
	mc.paused.Store(false)
	mc.State.Control |= MCR_CLOCK

	if mc.Inputter != nil {
		mc.Inputter.BeginInput()
		defer mc.Inputter.EndInput()
	}

	for mc.State.Control&MCR_CLOCK != 0 && mc.fault == nil && !mc.paused.Load() {
		mc.Step()
	}

	return mc.fault == nil
}
