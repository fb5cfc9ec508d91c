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
	"github.com/lassandro/lc3sim/pkg/encoding"
)

func (mc *MachineState) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i := range mc.Memory {
		mc.Memory[i] = 0x0000
	}

	// Program begins in the supervisor memory space, but user programs are
	// run unprivileged so the baseline PSR is user mode with the Z flag set
	mc.Program = MEMSPACE_SUPERVISOR
	mc.Procstat = FLAG_ZERO

	// R6 is USP, SSP is saved in state
	mc.Registers[6] = MEMSPACE_DEVICES
	mc.Stack = MEMSPACE_USER

	mc.Control = MCR_CLOCK
	mc.keyLatched = false
}

func (mc *Machine) push(value uint16) {
	mc.State.Registers[6]--
	mc.write(mc.State.Registers[6], value)
}

func (mc *Machine) pop() uint16 {
	result := mc.read(mc.State.Registers[6])
	mc.State.Registers[6]++
	return result
}

func (mc *Machine) accessible(addr uint16) bool {
	if mc.getPrivilege() {
		return true
	}

	return addr >= MEMSPACE_USER && addr < MEMSPACE_DEVICES
}

// load is a memory read issued by an instruction. It raises an access
// control violation instead of reading when user code touches system space.
func (mc *Machine) load(addr uint16) (uint16, bool) {
	if !mc.accessible(addr) {
		mc.raiseException(VEC_ACV, mc.getPriority())
		return 0, false
	}

	return mc.read(addr), true
}

func (mc *Machine) store(addr uint16, value uint16) bool {
	if !mc.accessible(addr) {
		mc.raiseException(VEC_ACV, mc.getPriority())
		return false
	}

	mc.write(addr, value)
	return true
}

func (mc *Machine) read(addr uint16) uint16 {
	var value uint16

	switch addr {
	case DEV_KBSR:
		mc.pollKeyboard()
		value = mc.State.Memory[DEV_KBSR]
	case DEV_KBDR:
		value = mc.State.Memory[DEV_KBDR]
		mc.State.keyLatched = false
		mc.State.Memory[DEV_KBSR] &^= STATUS_READY
	case DEV_DSR:
		if mc.Printer != nil {
			mc.State.Memory[DEV_DSR] = STATUS_READY
		} else {
			mc.State.Memory[DEV_DSR] = 0
		}
		value = mc.State.Memory[DEV_DSR]
	case DEV_DDR:
		value = 0
	case DEV_PSR:
		value = mc.State.Procstat
	case DEV_MCR:
		value = mc.State.Control
	default:
		value = mc.State.Memory[addr]
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return value
}

func (mc *Machine) write(addr uint16, value uint16) {
	switch addr {
	case DEV_DDR:
		mc.display(byte(value & 0xFF))
		mc.State.Memory[DEV_DDR] = value
	case DEV_KBDR:
		// Read only
	case DEV_KBSR:
		// Only the interrupt enable bit is writable
		mc.State.Memory[DEV_KBSR] &= STATUS_READY
		mc.State.Memory[DEV_KBSR] |= value & STATUS_INTENA
	case DEV_PSR:
		mc.State.Procstat = value
	case DEV_MCR:
		mc.State.Control = value
	default:
		mc.State.Memory[addr] = value
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) setPrivilege(privileged bool) {
	if privileged != mc.getPrivilege() {
		// Swap USP/SSP
		currentStack := mc.State.Registers[6]
		mc.State.Registers[6] = mc.State.Stack
		mc.State.Stack = currentStack
	}

	if privileged {
		// Enable privilege bit, but preserve priority and condition bits
		mc.State.Procstat |= uint16(0x1 << 15)
	} else {
		// Reset privilege bit, but preserve priority and condition bits
		mc.State.Procstat &= ^uint16(0x1 << 15)
	}
}

func (mc *Machine) getPrivilege() bool {
	return mc.State.Procstat>>15 == 1
}

func (mc *Machine) setPriority(value uint8) {
	if value > 0x7 {
		panic("Invalid priority value")
	}

	mc.State.Procstat &= ^uint16(0x7 << 8)
	mc.State.Procstat |= uint16(value&0x7) << 8
}

func (mc *Machine) getPriority() uint8 {
	return uint8((mc.State.Procstat >> 8) & 0x7)
}

// enterSupervisor saves PSR and PC on the supervisor stack and transfers
// control to handler.
func (mc *Machine) enterSupervisor(handler uint16, priority uint8) {
	procstat := mc.State.Procstat

	mc.setPrivilege(true)
	mc.push(procstat)
	mc.push(mc.State.Program)
	mc.setPriority(priority)
	mc.State.Program = handler
}

func (mc *Machine) raiseException(vector uint8, priority uint8) {
	if mc.Debugger != nil {
		mc.Debugger.Exception(vector, mc)
	}

	handler := mc.State.Memory[MEMSPACE_INT_TABLE|uint16(vector)]

	if handler == 0 {
		// Nothing installed to service it, so the machine stops on the
		// offending instruction
		mc.State.Program = mc.current
		mc.State.Control &^= MCR_CLOCK
		mc.fault = &Fault{Vector: vector, Program: mc.current}
		return
	}

	mc.enterSupervisor(handler, priority)
}

func (mc *Machine) setFlags(value uint16) {
	// Reset condition flags, but preserve privilege and priority bits
	mc.State.Procstat &= ^uint16(0x7)

	if value == 0 {
		mc.State.Procstat |= FLAG_ZERO
	} else if value>>15 == 1 {
		mc.State.Procstat |= FLAG_NEG
	} else {
		mc.State.Procstat |= FLAG_POS
	}
}

func (mc *Machine) Step() {
	mc.current = mc.State.Program

	if instruction, ok := mc.load(mc.State.Program); ok {
		mc.State.Program++
		mc.execute(instruction)
	}

	if mc.fault != nil {
		return
	}

	mc.checkKeyboardInterrupt()

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}
}

func (mc *Machine) execute(instruction uint16) {
	opcode := instruction >> 12

	switch opcode {
	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		dest := (instruction >> 9) & 0x7
		src1 := (instruction >> 6) & 0x7

		if (instruction>>5)&0x1 == 1 {
			imm5 := encoding.SignExtend(instruction&0x1F, 5)

			mc.State.Registers[dest] = mc.State.Registers[src1] + imm5
		} else {
			src2 := instruction & 0x7

			mc.State.Registers[dest] = mc.State.Registers[src1] +
				mc.State.Registers[src2]
		}

		mc.setFlags(mc.State.Registers[dest])

	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_AND:
		dest := (instruction >> 9) & 0x7
		src1 := (instruction >> 6) & 0x7

		if (instruction>>5)&0x1 == 1 {
			imm5 := encoding.SignExtend(instruction&0x1F, 5)

			mc.State.Registers[dest] = mc.State.Registers[src1] & imm5
		} else {
			src2 := instruction & 0x7

			mc.State.Registers[dest] = mc.State.Registers[src1] &
				mc.State.Registers[src2]
		}

		mc.setFlags(mc.State.Registers[dest])

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_BR:
		flags := (instruction >> 9) & 0x7

		if flags&(mc.State.Procstat&0x7) > 0 {
			mc.State.Program += encoding.SignExtend(instruction&0x1FF, 9)
		}

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		src := (instruction >> 6) & 0x7

		mc.State.Program = mc.State.Registers[src]

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JSR:
		var target uint16

		if (instruction>>11)&0x1 == 1 {
			target = mc.State.Program +
				encoding.SignExtend(instruction&0x7FF, 11)
		} else {
			target = mc.State.Registers[(instruction>>6)&0x7]
		}

		mc.State.Registers[7] = mc.State.Program
		mc.State.Program = target

	// LD   |0010    |DR   |PCoffset9         | Load
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD:
		dest := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction&0x1FF, 9)

		value, ok := mc.load(addr)
		if !ok {
			return
		}

		mc.State.Registers[dest] = value
		mc.setFlags(value)

	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDI:
		dest := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction&0x1FF, 9)

		pointer, ok := mc.load(addr)
		if !ok {
			return
		}

		value, ok := mc.load(pointer)
		if !ok {
			return
		}

		mc.State.Registers[dest] = value
		mc.setFlags(value)

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDR:
		dest := (instruction >> 9) & 0x7
		src := (instruction >> 6) & 0x7
		addr := mc.State.Registers[src] +
			encoding.SignExtend(instruction&0x3F, 6)

		value, ok := mc.load(addr)
		if !ok {
			return
		}

		mc.State.Registers[dest] = value
		mc.setFlags(value)

	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LEA:
		dest := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction&0x1FF, 9)

		mc.State.Registers[dest] = addr

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_NOT:
		dest := (instruction >> 9) & 0x7
		src := (instruction >> 6) & 0x7

		mc.State.Registers[dest] = ^mc.State.Registers[src]

		mc.setFlags(mc.State.Registers[dest])

	// RTI  |1000    |000000000000            | Return from interrupt
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_RTI:
		if !mc.getPrivilege() {
			mc.raiseException(VEC_PRIVILEGE, mc.getPriority())
			return
		}

		program := mc.pop()
		procstat := mc.pop()

		if procstat>>15 == 0 {
			mc.setPrivilege(false)
		}

		mc.State.Program = program
		mc.State.Procstat = procstat

	// ST   |0011    |SR   |PCoffset9         | Store
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ST:
		src := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction&0x1FF, 9)

		mc.store(addr, mc.State.Registers[src])

	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STI:
		src := (instruction >> 9) & 0x7
		addr := mc.State.Program + encoding.SignExtend(instruction&0x1FF, 9)

		pointer, ok := mc.load(addr)
		if !ok {
			return
		}

		mc.store(pointer, mc.State.Registers[src])

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STR:
		src := (instruction >> 9) & 0x7
		base := (instruction >> 6) & 0x7
		addr := mc.State.Registers[base] +
			encoding.SignExtend(instruction&0x3F, 6)

		mc.store(addr, mc.State.Registers[src])

	// TRAP |1111    |0000   |trapvect8       | System call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_TRAP:
		vector := encoding.ZeroExtend(instruction&0xFF, 8)
		handler := mc.State.Memory[MEMSPACE_TRAP_TABLE|vector]

		if handler == 0 {
			mc.serviceTrap(vector)
		} else {
			mc.State.Registers[7] = mc.State.Program
			mc.enterSupervisor(handler, mc.getPriority())
		}

	// RES  |1101    |                        | Reserved (illegal)
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	default:
		mc.raiseException(VEC_ILLEGAL, mc.getPriority())
	}
}
