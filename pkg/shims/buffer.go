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

// BufferPrinter writes printed text into a borrowed, fixed size buffer.
// Text past the end of the buffer is dropped.
type BufferPrinter struct {
	buffer []byte
	cursor int
}

// NewBufferPrinter borrows buffer; the caller keeps ownership and must
// keep it alive for as long as the printer is in use.
func NewBufferPrinter(buffer []byte) *BufferPrinter {
	return &BufferPrinter{buffer: buffer}
}

func (p *BufferPrinter) SetColor(machine.PrintColor) {}

func (p *BufferPrinter) Print(text string) {
	n := copy(p.buffer[p.cursor:], text)
	p.cursor += n
}

func (p *BufferPrinter) Newline() {
	if p.cursor < len(p.buffer) {
		p.buffer[p.cursor] = '\n'
		p.cursor++
	}
}

// Cursor is the number of bytes written so far.
func (p *BufferPrinter) Cursor() int {
	return p.cursor
}

func (p *BufferPrinter) Len() int {
	return len(p.buffer)
}

func (p *BufferPrinter) Exhausted() bool {
	return p.cursor == len(p.buffer)
}

// Bytes returns the written part of the buffer.
func (p *BufferPrinter) Bytes() []byte {
	return p.buffer[:p.cursor]
}

func (p *BufferPrinter) String() string {
	return string(p.Bytes())
}

// Close gives the buffer back to its owner. The printer behaves as an
// exhausted zero length printer afterwards.
func (p *BufferPrinter) Close() error {
	p.buffer = nil
	p.cursor = 0
	return nil
}

// BufferInputter hands out the bytes of a borrowed buffer one at a time.
type BufferInputter struct {
	buffer []byte
	cursor int
}

func NewBufferInputter(buffer []byte) *BufferInputter {
	return &BufferInputter{buffer: buffer}
}

func (i *BufferInputter) BeginInput() {}
func (i *BufferInputter) EndInput()   {}

func (i *BufferInputter) GetChar() (byte, bool) {
	if i.cursor >= len(i.buffer) {
		return 0, false
	}

	c := i.buffer[i.cursor]
	i.cursor++
	return c, true
}

func (i *BufferInputter) Cursor() int {
	return i.cursor
}

func (i *BufferInputter) Len() int {
	return len(i.buffer)
}

func (i *BufferInputter) Exhausted() bool {
	return i.cursor == len(i.buffer)
}

func (i *BufferInputter) Close() error {
	i.buffer = nil
	i.cursor = 0
	return nil
}
