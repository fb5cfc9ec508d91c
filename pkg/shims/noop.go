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

package shims

import (
	"github.com/lassandro/lc3sim/pkg/machine"
)

func SetColorNoOp(machine.PrintColor) {}
func PrintNoOp(string)                {}
func NewlineNoOp()                    {}

func BeginInputNoOp()           {}
func GetCharNoOp() (byte, bool) { return 0, false }
func EndInputNoOp()             {}

// NoOpPrinter discards everything printed to it.
func NoOpPrinter() *PrinterShim {
	return NewPrinterShim(SetColorNoOp, PrintNoOp, NewlineNoOp)
}

// NoOpInputter never has a character available.
func NoOpInputter() *InputterShim {
	return NewInputterShim(BeginInputNoOp, GetCharNoOp, EndInputNoOp)
}
