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

import "sync/atomic"

// PrintColor is a hint to a Printer about how following text should be
// rendered. Printers without color support ignore it.
type PrintColor uint8

const (
	ColorReset PrintColor = iota
	ColorRed
	ColorYellow
	ColorGreen
	ColorMagenta
	ColorBlue
	ColorGray
	ColorBold
)

func (c PrintColor) String() string {
	switch c {
	case ColorReset:
		return "reset"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorMagenta:
		return "magenta"
	case ColorBlue:
		return "blue"
	case ColorGray:
		return "gray"
	case ColorBold:
		return "bold"
	}

	return "unknown"
}

// Printer receives all output the machine produces. It may be called any
// number of times per instruction and has no way to report failure.
type Printer interface {
	SetColor(color PrintColor)
	Print(text string)
	Newline()
}

// Inputter supplies characters to the machine. GetChar reports false when
// no character is available; the machine treats that as "try again later",
// never as an error.
type Inputter interface {
	BeginInput()
	GetChar() (byte, bool)
	EndInput()
}

type MachineState struct {
	Registers [8]uint16
	Program   uint16
	Procstat  uint16
	Stack     uint16
	Control   uint16
	Memory    [1 << 16]uint16

	// Keyboard character waiting to be read through KBDR
	keyLatched bool
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
	Exception(vector uint8, mc *Machine)
}

// Fault describes why the machine stopped exceptionally.
type Fault struct {
	Vector  uint8
	Program uint16
}

type Machine struct {
	Printer  Printer
	Inputter Inputter
	State    MachineState
	Debugger MachineDebugger

	fault   *Fault
	paused  atomic.Bool
	current uint16
}
