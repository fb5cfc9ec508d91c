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

import (
	"runtime"
)

const inPrompt = "Input a character> "

func (mc *Machine) display(c byte) {
	if mc.Printer == nil {
		return
	}

	if c == '\n' {
		mc.Printer.Newline()
	} else {
		mc.Printer.Print(string([]byte{c}))
	}
}

func (mc *Machine) pollKeyboard() {
	if mc.State.keyLatched || mc.Inputter == nil {
		return
	}

	if key, ok := mc.Inputter.GetChar(); ok {
		mc.State.keyLatched = true
		mc.State.Memory[DEV_KBDR] = uint16(key)
		mc.State.Memory[DEV_KBSR] |= STATUS_READY
	}
}

func (mc *Machine) checkKeyboardInterrupt() {
	if mc.State.Memory[DEV_KBSR]&STATUS_INTENA == 0 || mc.getPriority() >= 4 {
		return
	}

	handler := mc.State.Memory[MEMSPACE_INT_TABLE|uint16(VEC_KEYBOARD)]
	if handler == 0 {
		return
	}

	mc.pollKeyboard()

	if mc.State.keyLatched {
		mc.enterSupervisor(handler, 4)
	}
}

// waitChar blocks until the inputter produces a character. A latched
// keyboard character is consumed first. It gives up and reports false if
// the machine is paused meanwhile, rewinding PC so the trap runs again on
// resume.
func (mc *Machine) waitChar() (byte, bool) {
	for {
		mc.pollKeyboard()

		if mc.State.keyLatched {
			return byte(mc.read(DEV_KBDR)), true
		}

		if mc.paused.Load() {
			mc.State.Program = mc.current
			return 0, false
		}

		runtime.Gosched()
	}
}

// serviceTrap handles the standard system calls when no trap routine is
// installed in the vector table. R7 is left untouched.
func (mc *Machine) serviceTrap(vector uint16) {
	switch vector {
	case TRAP_GETC:
		if c, ok := mc.waitChar(); ok {
			mc.State.Registers[0] = uint16(c)
		}

	case TRAP_OUT:
		mc.display(byte(mc.State.Registers[0] & 0xFF))

	case TRAP_PUTS:
		for addr := mc.State.Registers[0]; ; addr++ {
			word := mc.read(addr)
			if word == 0 {
				break
			}

			mc.display(byte(word & 0xFF))
		}

	case TRAP_IN:
		if mc.Printer != nil {
			mc.Printer.Print(inPrompt)
		}

		c, ok := mc.waitChar()
		if !ok {
			return
		}

		mc.display(c)

		if c != '\n' && mc.Printer != nil {
			mc.Printer.Newline()
		}

		mc.State.Registers[0] = uint16(c)

	case TRAP_PUTSP:
		for addr := mc.State.Registers[0]; ; addr++ {
			word := mc.read(addr)
			if word == 0 {
				break
			}

			mc.display(byte(word & 0xFF))

			if high := byte(word >> 8); high != 0 {
				mc.display(high)
			} else {
				break
			}
		}

	case TRAP_HALT:
		mc.State.Program = mc.current
		mc.State.Control &^= MCR_CLOCK

	default:
		// An unknown system call with no routine behind it can't be serviced
		mc.State.Program = mc.current
		mc.State.Control &^= MCR_CLOCK
		mc.fault = &Fault{Vector: uint8(vector), Program: mc.current}
	}
}
