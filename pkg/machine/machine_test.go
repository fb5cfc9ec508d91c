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

package machine_test

import (
	"testing"
	"time"

	"github.com/lassandro/lc3sim/pkg/machine"
	"github.com/lassandro/lc3sim/pkg/shims"
)

type testMachineState struct {
	Registers [8]uint16
	Program   uint16
	Privilege bool
	Priority  uint16
	Condition uint16
	Memory    map[uint16]uint16
	Stack     uint16
}

type testCase struct {
	Name     string
	Steps    uint
	Keyboard string
	Display  string
	Halted   bool
	Fault    bool
	Input    testMachineState
	Output   testMachineState
}

func testMachineSuccess(t *testing.T, test *testCase) {
	if test.Input.Priority > 0x7 {
		panic("Priority must be 0x7 or lower")
	}

	if test.Input.Condition > 0x7 {
		panic("Condition must be 0x7 or lower")
	}

	if test.Input.Memory == nil && test.Output.Memory == nil {
		panic("No memory maps provided")
	}

	var mc machine.Machine

	display := shims.NewBufferPrinter(make([]byte, 256))
	mc.Printer = display
	mc.Inputter = shims.NewBufferInputter([]byte(test.Keyboard))

	mc.Reinitialize()
	mc.State.Registers = test.Input.Registers
	mc.State.Program = test.Input.Program
	mc.State.Stack = test.Input.Stack

	if test.Input.Privilege {
		mc.State.Procstat |= (1 << 15)
	} else {
		mc.State.Procstat = 0
	}
	mc.State.Procstat |= test.Input.Priority << 8
	mc.State.Procstat |= test.Input.Condition

	for addr, value := range test.Input.Memory {
		mc.State.Memory[addr] = value
	}

	if test.Steps == 0 {
		test.Steps = 1
	}

	for i := uint(0); i < test.Steps; i++ {
		mc.Step()
	}

	for i := 0; i < 8; i++ {
		want := test.Output.Registers[i]
		have := mc.State.Registers[i]
		if have != want {
			t.Errorf(
				"Register mismatch"+
					"\nwant:%#04x (test.Output.Registers[%d])\nhave:%#04x",
				want,
				i,
				have,
			)
		}
	}

	if mc.State.Program != test.Output.Program {
		t.Errorf(
			"Program register mismatch"+
				"\nwant:%#04x (test.Output.Program)\nhave:%#04x",
			test.Output.Program,
			mc.State.Program,
		)
	}

	if test.Output.Privilege && (mc.State.Procstat>>15) != 1 {
		t.Error(
			"Privilege level mismatch" +
				"\nwant:Supervisor Mode (test.Output.Privilege)" +
				"\nhave:User Mode",
		)
	} else if !test.Output.Privilege && (mc.State.Procstat>>15) != 0 {
		t.Error(
			"Privilege level mismatch" +
				"\nwant:User Mode (test.Output.Privilege)" +
				"\nhave:Supervisor Mode",
		)
	}

	if have := ((mc.State.Procstat >> 8) & 0x7); have != test.Output.Priority {
		t.Errorf(
			"Priority level mismatch"+
				"\nwant:%#01x (test.Output.Priority)\nhave:%#01x",
			test.Output.Priority,
			have,
		)
	}

	if have := (mc.State.Procstat & 0x7); have != test.Output.Condition {
		t.Errorf(
			"Condition flag mismatch"+
				"\nwant:%#03b (test.Output.Condition)\nhave:%#03b",
			test.Output.Condition,
			have,
		)
	}

	if have := mc.State.Stack; have != test.Output.Stack {
		t.Errorf(
			"Saved stack mismatch"+
				"\nwant:%#04x (test.Output.Stack)\nhave:%#04x",
			test.Output.Stack,
			have,
		)
	}

	if have := mc.GetMCR()&machine.MCR_CLOCK == 0; have != test.Halted {
		t.Errorf(
			"Clock state mismatch\nwant halted:%v (test.Halted)\nhave:%v",
			test.Halted,
			have,
		)
	}

	if have := mc.Fault() != nil; have != test.Fault {
		t.Errorf(
			"Fault mismatch\nwant:%v (test.Fault)\nhave:%v",
			test.Fault,
			have,
		)
	}

	for i, value := range mc.State.Memory {
		input, expectingInput := test.Input.Memory[uint16(i)]
		output, expectingOutput := test.Output.Memory[uint16(i)]

		if expectingOutput {
			// Value was supposed to change
			if value != output {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%#02x (test.Output.Memory[%#04x])\nhave:%#02x",
					output,
					i,
					value,
				)
			}
		} else if expectingInput {
			// Value was supposed to remain
			if value != input {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%#02x (test.Input.Memory[%#04x])\nhave:%#02x",
					input,
					i,
					value,
				)
			}
		} else if value != 0 {
			// Value was expected to remain unitialized
			t.Fatalf(
				"Memory unexpectedly changed"+
					"\nwant:0x00 (test.Output.Memory[%#04x])\nhave:%#02x",
				i,
				value,
			)
		}
	}

	if have := display.String(); have != test.Display {
		t.Errorf(
			"Display output mismatch"+
				"\nwant:%q (test.Display)\nhave:%q",
			test.Display,
			have,
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestAdd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ADD SR2 Negative",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xCAFE, // DR
					1: 0x0001, // SR1
					2: 0x8001, // SR2
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0001_000_001_000_010,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b100,
				Registers: [8]uint16{
					0: 0x8002, // DR
					1: 0x0001, // SR1
					2: 0x8001, // SR2
				},
			},
		},
		{
			Name: "ADD imm5 Overflow Zero",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xCAFE, // DR
					1: 0xFFF1, // SR1
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0001_000_001_1_01111,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b010,
				Registers: [8]uint16{
					0: 0x0000, // DR
					1: 0xFFF1, // SR1
				},
			},
		},
	})
}

// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestAnd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "AND SR2 High Register",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xCAFE, // DR
					1: 0x0F0F, // SR1
					4: 0x00FF, // SR2
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0101_000_001_000_100,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b001,
				Registers: [8]uint16{
					0: 0x000F, // DR
					1: 0x0F0F, // SR1
					4: 0x00FF, // SR2
				},
			},
		},
		{
			Name: "AND imm5 Clear",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xCAFE, // DR
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0101_000_000_1_00000,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b010,
			},
		},
	})
}

// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestBranch(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "BR No Flags Is NOP",
			Input: testMachineState{
				Program:   0x3000,
				Condition: 0b010,
				Memory: map[uint16]uint16{
					0x3000: 0b0000_000_000000101,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b010,
			},
		},
		{
			Name: "BRz Taken",
			Input: testMachineState{
				Program:   0x3000,
				Condition: 0b010,
				Memory: map[uint16]uint16{
					0x3000: 0b0000_010_000000101,
				},
			},
			Output: testMachineState{
				Program:   0x3006,
				Condition: 0b010,
			},
		},
		{
			Name: "BRn Not Taken",
			Input: testMachineState{
				Program:   0x3000,
				Condition: 0b001,
				Memory: map[uint16]uint16{
					0x3000: 0b0000_100_111111110,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b001,
			},
		},
	})
}

// JSR  |0100    |1|PCoffset11            | Jump to subroutine
// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestJump(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "JSR Offset",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b0100_1_00000010000,
				},
			},
			Output: testMachineState{
				Program: 0x3011,
				Registers: [8]uint16{
					7: 0x3001,
				},
			},
		},
		{
			Name: "JSRR Through R7",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					7: 0x4000,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0100_0_00_111_000000,
				},
			},
			Output: testMachineState{
				Program: 0x4000,
				Registers: [8]uint16{
					7: 0x3001,
				},
			},
		},
		{
			Name: "RET",
			Input: testMachineState{
				Program: 0x4000,
				Registers: [8]uint16{
					7: 0x3001,
				},
				Memory: map[uint16]uint16{
					0x4000: 0b1100_000_111_000000,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					7: 0x3001,
				},
			},
		},
	})
}

func TestLoadStore(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "LD Positive",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b0010_011_000000010,
					0x3003: 0x0042,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b001,
				Registers: [8]uint16{
					3: 0x0042,
				},
			},
		},
		{
			Name: "LEA Keeps Flags",
			Input: testMachineState{
				Program:   0x3000,
				Condition: 0b100,
				Memory: map[uint16]uint16{
					0x3000: 0b1110_000_000000010,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b100,
				Registers: [8]uint16{
					0: 0x3003,
				},
			},
		},
		{
			Name: "STI",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0xBEEF,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b1011_001_000000001,
					0x3002: 0x4000,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					1: 0xBEEF,
				},
				Memory: map[uint16]uint16{
					0x4000: 0xBEEF,
				},
			},
		},
		{
			Name:   "LD User Access Violation",
			Halted: true,
			Fault:  true,
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xCAFE,
				},
				Memory: map[uint16]uint16{
					// LD R0 #-2 -> x2FFF
					0x3000: 0b0010_000_111111110,
				},
			},
			Output: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xCAFE,
				},
			},
		},
		{
			Name: "STR User Access Violation Handled",
			Input: testMachineState{
				Program: 0x3000,
				Stack:   0x3000, // SSP
				Registers: [8]uint16{
					1: 0xFE06, // STR BaseR
					6: 0xFE00, // USP
				},
				Memory: map[uint16]uint16{
					0x0102: 0x6000,
					0x3000: 0b0111_000_001_000000,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Program:   0x6000,
				Stack:     0xFE00, // USP
				Registers: [8]uint16{
					1: 0xFE06,
					6: 0x2FFE, // SSP
				},
				Memory: map[uint16]uint16{
					0x2FFE: 0x3001, // Program
				},
			},
		},
		{
			Name: "Supervisor Reads System Space",
			Input: testMachineState{
				Privilege: true,
				Program:   0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b0110_000_001_000000,
					0x0000: 0x7777,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Program:   0x3001,
				Condition: 0b001,
				Registers: [8]uint16{
					0: 0x7777,
				},
			},
		},
	})
}

// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestNot(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "NOT Negative",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0x00FF,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b1001_000_001_1_11111,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b100,
				Registers: [8]uint16{
					0: 0xFF00,
					1: 0x00FF,
				},
			},
		},
	})
}

// TRAP |1111    |0000   |trapvect8       | System call
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestTrap(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "TRAP Installed Routine",
			Input: testMachineState{
				Program: 0x3000,
				Stack:   0x3000, // SSP
				Registers: [8]uint16{
					6: 0xFE00, // USP
					7: 0xCAFE,
				},
				Memory: map[uint16]uint16{
					0x0010: 0x6000, // TRAP Vector value
					0x3000: 0b1111_0000_00010000,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Program:   0x6000,
				Stack:     0xFE00, // USP
				Registers: [8]uint16{
					6: 0x2FFE, // SSP
					7: 0x3001,
				},
				Memory: map[uint16]uint16{
					0x2FFE: 0x3001, // Program
				},
			},
		},
		{
			Name:   "HALT",
			Halted: true,
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					7: 0xCAFE,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF025,
				},
			},
			Output: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					7: 0xCAFE,
				},
			},
		},
		{
			Name:    "OUT",
			Display: "A",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0x0041,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF021,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0x0041,
				},
			},
		},
		{
			Name:    "PUTS",
			Display: "hi\n",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0x4000,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF022,
					0x4000: 'h',
					0x4001: 'i',
					0x4002: '\n',
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0x4000,
				},
			},
		},
		{
			Name:    "PUTSP",
			Display: "hi!",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0x4000,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF024,
					0x4000: 'i'<<8 | 'h',
					0x4001: '!',
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0x4000,
				},
			},
		},
		{
			Name:     "GETC",
			Keyboard: "z",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0xF020,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 'z',
				},
				Memory: map[uint16]uint16{
					0xFE02: 'z',
				},
			},
		},
		{
			Name:     "IN",
			Keyboard: "q",
			Display:  "Input a character> q\n",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0xF023,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 'q',
				},
				Memory: map[uint16]uint16{
					0xFE02: 'q',
				},
			},
		},
		{
			Name:   "Unknown Vector",
			Halted: true,
			Fault:  true,
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0xF030,
				},
			},
			Output: testMachineState{
				Program: 0x3000,
			},
		},
	})
}

// RES  |1101    |                        | Reserved (illegal)
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestReserved(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "RES Illegal Opcode Handled",
			Input: testMachineState{
				Privilege: false,
				Priority:  4,
				Program:   0x3000,
				Stack:     0x3000, // SSP
				Registers: [8]uint16{
					6: 0xFE00, // USP
				},
				Memory: map[uint16]uint16{
					0x0101: 0x6000,
					0x3000: 0b1101_000000000000,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Program:   0x6000,
				Priority:  4,
				Stack:     0xFE00, // USP
				Registers: [8]uint16{
					6: 0x2FFE, // SSP
				},
				Memory: map[uint16]uint16{
					0x2FFF: 0x0400, // Procstat
					0x2FFE: 0x3001, // Program
				},
			},
		},
		{
			Name:   "RES Illegal Opcode Unhandled",
			Halted: true,
			Fault:  true,
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b1101_000000000000,
				},
			},
			Output: testMachineState{
				Program: 0x3000,
			},
		},
	})
}

// RTI  |1000    |000000000000            | Return from interrupt
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestReturnFromInterrupt(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "RTI To User Mode",
			Input: testMachineState{
				Privilege: true,
				Program:   0x6000,
				Stack:     0xFE00, // USP
				Registers: [8]uint16{
					6: 0x2FFE, // SSP
				},
				Memory: map[uint16]uint16{
					0x2FFE: 0x3001,
					0x2FFF: 0x0001,
					0x6000: 0b1000_000000000000,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: 0b001,
				Stack:     0x3000, // SSP
				Registers: [8]uint16{
					6: 0xFE00, // USP
				},
			},
		},
		{
			Name:   "RTI In User Mode",
			Halted: true,
			Fault:  true,
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b1000_000000000000,
				},
			},
			Output: testMachineState{
				Program: 0x3000,
			},
		},
	})
}

func TestInterrupt(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "Interrupt Low Priority Process",
			Keyboard: "foobar",
			Input: testMachineState{
				Privilege: false,
				Priority:  1,
				Program:   0x3000,
				Stack:     0x3000, // SSP
				Registers: [8]uint16{
					6: 0xFE00, // USP
				},
				Memory: map[uint16]uint16{
					0x0180: 0x6000,              // Interrupt Handler Address
					0x3000: 0b0000_000_00000000, // NOP
					0xFE00: 0x4000,              // KBSR interrupt enable
				},
			},
			Output: testMachineState{
				Privilege: true,
				Priority:  4,
				Program:   0x6000,
				Stack:     0xFE00, // USP
				Registers: [8]uint16{
					6: 0x2FFE, // SSP
				},
				Memory: map[uint16]uint16{
					0x2FFF: 0x0100, // Procstat
					0x2FFE: 0x3001, // Program (after NOP)
					0xFE00: 0xC000, // KBSR ready + enable
					0xFE02: 'f',
				},
			},
		},
		{
			Name:     "Interrupt High Priority Process",
			Keyboard: "foobar",
			Input: testMachineState{
				Privilege: false,
				Priority:  5,
				Program:   0x3000,
				Registers: [8]uint16{
					6: 0xFE00, // USP
				},
				Memory: map[uint16]uint16{
					0x0180: 0x6000,              // Interrupt Handler Address
					0x3000: 0b0000_000_00000000, // NOP
					0xFE00: 0x4000,              // KBSR interrupt enable
				},
			},
			Output: testMachineState{
				Privilege: false,
				Priority:  5,
				Program:   0x3001,
				Registers: [8]uint16{
					6: 0xFE00, // USP
				},
			},
		},
	})
}

func TestKeyboard(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "Read Keyboard",
			Steps:    2,
			Keyboard: "foobar",
			Input: testMachineState{
				Privilege: true,
				Priority:  7,
				Program:   0x3000,
				Registers: [8]uint16{
					0: 0xDEAD, // LDR[0] DR
					1: 0xFE00, // LDR[0] BaseR (Keyboard Status Register)
					2: 0xDEAD, // LDR[1] DR
					3: 0xFE02, // LDR[1] BaseR (Keyboard Data Register)
				},
				Memory: map[uint16]uint16{
					// LDR R0 R1 0x0
					0x3000: 0b0110_000_001_000000,
					// LDR R2 R3 0x0
					0x3001: 0b0110_010_011_000000,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Priority:  7,
				Program:   0x3002,
				Condition: 0b001, // Positive LDR[1] DR (#102)
				Registers: [8]uint16{
					0: 0x8000, // LDR[0] DR (KBSR: 1 << 15)
					1: 0xFE00, // LDR[0] BaseR (Keyboard Status Register)
					2: 0x0066, // LDR[1] DR (KBDR: 'f', #102)
					3: 0xFE02, // LDR[1] BaseR (Keyboard Data Register)
				},
				Memory: map[uint16]uint16{
					// KBDR: 'f', #102
					0xFE02: 0x0066,
				},
			},
		},
		{
			Name:  "Read Empty Keyboard",
			Steps: 1,
			Input: testMachineState{
				Privilege: true,
				Program:   0x3000,
				Registers: [8]uint16{
					0: 0xDEAD,
					1: 0xFE00,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0110_000_001_000000,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Program:   0x3001,
				Condition: 0b010,
				Registers: [8]uint16{
					1: 0xFE00,
				},
			},
		},
	})
}

func TestDisplay(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "Write Display",
			Steps:   8,
			Display: "aaa",
			Input: testMachineState{
				Privilege: true,
				Program:   0x3000,
				Registers: [8]uint16{
					0: 0xDEAD, // LDR DR
					1: 0xFE04, // LDR BaseR (Display Status Register)
					2: 0x0061, // STR SR ('a', #97)
					3: 0xFE06, // STR BaseR (Display Data Register)
					4: 0x3000, // JMP BaseR
				},
				Memory: map[uint16]uint16{
					// LDR R0 R1 0x0
					0x3000: 0b0110_000_001_000000,
					// STR R2 R3 0x0
					0x3001: 0b0111_010_011_000000,
					// JMP R4
					0x3002: 0b1100_000_100_000000,
				},
			},
			Output: testMachineState{
				Privilege: true,
				Program:   0x3002,
				Condition: 0b100, // Negative LDR DR (1<<15)
				Registers: [8]uint16{
					0: 0x8000, // LDR DR (DSR: 1 << 15)
					1: 0xFE04, // LDR BaseR (Display Status Register)
					2: 0x0061, // STR SR ('a', #97)
					3: 0xFE06, // STR BaseR (Display Data Register)
					4: 0x3000, // JMP BaseR
				},
				Memory: map[uint16]uint16{
					// DSR: 1 << 15
					0xFE04: 0x8000,
					// DDR: Contains last written character
					0xFE06: 0x0061,
				},
			},
		},
	})
}

func TestPauseDuringInput(t *testing.T) {
	var mc machine.Machine

	mc.Printer = shims.NoOpPrinter()
	mc.Inputter = shims.NewInputterShim(
		shims.BeginInputNoOp,
		func() (byte, bool) {
			mc.Pause()
			return 0, false
		},
		shims.EndInputNoOp,
	)

	mc.Reinitialize()
	mc.SetMem(0x3000, 0xF020) // GETC
	mc.SetMem(0x3001, 0xF025) // HALT
	mc.SetPC(0x3000)
	mc.State.Registers[0] = 0x1234

	if !mc.RunUntilHalt() {
		t.Fatalf("unexpected fault %v", mc.Fault())
	}

	if !mc.Paused() {
		t.Errorf("Paused: want true, have false")
	}

	if have := mc.GetPC(); have != 0x3000 {
		t.Errorf("PC: want 0x3000, have %#04x", have)
	}

	if have := mc.GetReg(0); have != 0x1234 {
		t.Errorf("R0: want 0x1234, have %#04x", have)
	}

	if mc.GetMCR()&machine.MCR_CLOCK == 0 {
		t.Errorf("clock stopped by a pause")
	}

	// Resuming runs the GETC again
	mc.Inputter = shims.NewBufferInputter([]byte("k"))

	if !mc.RunUntilHalt() {
		t.Fatalf("unexpected fault %v", mc.Fault())
	}

	if have := mc.GetReg(0); have != 'k' {
		t.Errorf("R0: want %#04x, have %#04x", 'k', have)
	}

	if have := mc.GetPC(); have != 0x3001 {
		t.Errorf("PC: want 0x3001, have %#04x", have)
	}
}

func TestPauseFromAnotherGoroutine(t *testing.T) {
	var mc machine.Machine

	mc.Printer = shims.NoOpPrinter()
	mc.Inputter = shims.NoOpInputter()

	mc.Reinitialize()
	mc.SetMem(0x3000, 0xF020) // GETC
	mc.SetPC(0x3000)

	done := make(chan bool, 1)
	go func() { done <- mc.RunUntilHalt() }()

	deadline := time.After(5 * time.Second)

	for {
		select {
		case ok := <-done:
			if !ok {
				t.Fatalf("unexpected fault %v", mc.Fault())
			}

			if have := mc.GetPC(); have != 0x3000 {
				t.Errorf("PC: want 0x3000, have %#04x", have)
			}
			return

		case <-time.After(time.Millisecond):
			// RunUntilHalt clears a pause issued before it starts
			mc.Pause()

		case <-deadline:
			t.Fatal("run still blocked on input after pausing")
		}
	}
}
