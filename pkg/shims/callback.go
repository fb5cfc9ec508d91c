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

// CallbackPrinter forwards every printed byte to a caller function, one
// call per byte. Newline is forwarded as a single '\n'.
type CallbackPrinter struct {
	callback func(byte)
}

func NewCallbackPrinter(callback func(byte)) *CallbackPrinter {
	if callback == nil {
		panic("shims: CallbackPrinter needs a callback")
	}

	return &CallbackPrinter{callback: callback}
}

func (p *CallbackPrinter) SetColor(machine.PrintColor) {}

func (p *CallbackPrinter) Print(text string) {
	if p.callback == nil {
		return
	}

	for i := 0; i < len(text); i++ {
		p.callback(text[i])
	}
}

func (p *CallbackPrinter) Newline() {
	if p.callback != nil {
		p.callback('\n')
	}
}

// Close drops the callback; later output is discarded.
func (p *CallbackPrinter) Close() error {
	p.callback = nil
	return nil
}

// CallbackInputter asks a caller function for each character. The function
// always produces one; it may block for as long as it needs to.
type CallbackInputter struct {
	callback func() byte
}

func NewCallbackInputter(callback func() byte) *CallbackInputter {
	if callback == nil {
		panic("shims: CallbackInputter needs a callback")
	}

	return &CallbackInputter{callback: callback}
}

func (i *CallbackInputter) BeginInput() {}
func (i *CallbackInputter) EndInput()   {}

func (i *CallbackInputter) GetChar() (byte, bool) {
	if i.callback == nil {
		return 0, false
	}

	return i.callback(), true
}

func (i *CallbackInputter) Close() error {
	i.callback = nil
	return nil
}
