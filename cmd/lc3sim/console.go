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

package main

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/lassandro/lc3sim/pkg/machine"
)

const (
	keyInterrupt = 0x03
	keyEOT       = 0x04
)

var ansiColors = map[machine.PrintColor]string{
	machine.ColorReset:   "\033[0m",
	machine.ColorRed:     "\033[31m",
	machine.ColorYellow:  "\033[33m",
	machine.ColorGreen:   "\033[32m",
	machine.ColorMagenta: "\033[35m",
	machine.ColorBlue:    "\033[34m",
	machine.ColorGray:    "\033[1;30m",
	machine.ColorBold:    "\033[1m",
}

// ConsolePrinter writes machine output to a terminal or pipe.
type ConsolePrinter struct {
	w *bufio.Writer

	// Color enables ANSI escapes for SetColor
	Color bool

	// CRLF ends lines with "\r\n", needed while the terminal is raw
	CRLF bool
}

func NewConsolePrinter(w io.Writer) *ConsolePrinter {
	return &ConsolePrinter{w: bufio.NewWriter(w)}
}

func (p *ConsolePrinter) SetColor(color machine.PrintColor) {
	if p.Color {
		p.w.WriteString(ansiColors[color])
	}
}

func (p *ConsolePrinter) Print(text string) {
	p.w.WriteString(text)
	p.w.Flush()
}

func (p *ConsolePrinter) Newline() {
	if p.CRLF {
		p.w.WriteString("\r\n")
	} else {
		p.w.WriteString("\n")
	}

	p.w.Flush()
}

func (p *ConsolePrinter) Flush() error {
	return p.w.Flush()
}

func (p *ConsolePrinter) Close() error {
	return p.w.Flush()
}

// ConsoleInputter feeds keys from a file descriptor without blocking the
// machine. A terminal is switched to raw mode for the duration of each run.
type ConsoleInputter struct {
	fd     int
	state  *term.State
	eof    bool
	logger *zap.Logger

	// Interrupt is called when ctrl-c is typed or the input is exhausted
	Interrupt func()
}

func NewConsoleInputter(f *os.File, logger *zap.Logger) *ConsoleInputter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConsoleInputter{fd: int(f.Fd()), logger: logger}
}

func (i *ConsoleInputter) BeginInput() {
	if !term.IsTerminal(i.fd) {
		return
	}

	state, err := term.MakeRaw(i.fd)
	if err != nil {
		i.logger.Warn("entering raw mode", zap.Error(err))
		return
	}

	i.state = state
}

func (i *ConsoleInputter) EndInput() {
	if i.state == nil {
		return
	}

	if err := term.Restore(i.fd, i.state); err != nil {
		i.logger.Warn("restoring terminal", zap.Error(err))
	}

	i.state = nil
}

func (i *ConsoleInputter) GetChar() (byte, bool) {
	if i.eof {
		return keyEOT, true
	}

	fds := []unix.PollFd{{Fd: int32(i.fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, 0)
	if err != nil || n == 0 {
		return 0, false
	}

	if fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
		return 0, false
	}

	var buf [1]byte

	read, err := unix.Read(i.fd, buf[:])
	if err != nil {
		return 0, false
	}

	if read == 0 {
		i.eof = true
		i.interrupt()
		return keyEOT, true
	}

	if buf[0] == keyInterrupt {
		i.interrupt()
	}

	return buf[0], true
}

func (i *ConsoleInputter) interrupt() {
	if i.Interrupt != nil {
		i.Interrupt()
	}
}
