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

// Package shims adapts fixed buffers, caller callbacks and plain functions
// into the machine's Printer and Inputter capabilities.
package shims

import (
	"github.com/lassandro/lc3sim/pkg/machine"
)

// PrinterShim binds three independent behaviors into a machine.Printer.
// Every method delegates to the matching function unchanged.
type PrinterShim struct {
	setColor func(machine.PrintColor)
	print    func(string)
	newline  func()
}

// NewPrinterShim requires all three behaviors; a nil behavior is a
// programming error and panics.
func NewPrinterShim(
	setColor func(machine.PrintColor),
	print func(string),
	newline func(),
) *PrinterShim {
	if setColor == nil || print == nil || newline == nil {
		panic("shims: PrinterShim needs setColor, print and newline")
	}

	return &PrinterShim{setColor: setColor, print: print, newline: newline}
}

func (p *PrinterShim) SetColor(color machine.PrintColor) { p.setColor(color) }
func (p *PrinterShim) Print(text string)                 { p.print(text) }
func (p *PrinterShim) Newline()                          { p.newline() }

// InputterShim binds three independent behaviors into a machine.Inputter.
type InputterShim struct {
	beginInput func()
	getChar    func() (byte, bool)
	endInput   func()
}

func NewInputterShim(
	beginInput func(),
	getChar func() (byte, bool),
	endInput func(),
) *InputterShim {
	if beginInput == nil || getChar == nil || endInput == nil {
		panic("shims: InputterShim needs beginInput, getChar and endInput")
	}

	return &InputterShim{
		beginInput: beginInput,
		getChar:    getChar,
		endInput:   endInput,
	}
}

func (i *InputterShim) BeginInput()           { i.beginInput() }
func (i *InputterShim) GetChar() (byte, bool) { return i.getChar() }
func (i *InputterShim) EndInput()             { i.endInput() }
