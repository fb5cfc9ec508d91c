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

package debugger

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/lassandro/lc3sim/pkg/machine"
)

func New(printer machine.Printer, logger *zap.Logger) *Debugger {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Debugger{Printer: printer, Logger: logger}
}

func (dbg *Debugger) logger() *zap.Logger {
	if dbg.Logger == nil {
		return zap.NewNop()
	}

	return dbg.Logger
}

func (dbg *Debugger) report(level uint, color machine.PrintColor, format string, args ...interface{}) {
	if dbg.Printer == nil || dbg.PrintLevel < level {
		return
	}

	dbg.Printer.SetColor(color)
	dbg.Printer.Print(fmt.Sprintf(format, args...))
	dbg.Printer.SetColor(machine.ColorReset)
	dbg.Printer.Newline()
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.PrintLevel >= LevelTrace {
		addr := mc.Current()
		instruction := mc.GetMem(addr)

		dbg.report(
			LevelTrace,
			machine.ColorGray,
			"[x%04X] x%04X %s",
			addr,
			instruction,
			machine.Mnemonics[instruction>>12],
		)
	}

	if dbg.Break {
		mc.Pause()
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.report(
				LevelEvents,
				machine.ColorYellow,
				"Breakpoint hit at x%04X",
				breakpoint.Addr,
			)

			dbg.logger().Debug(
				"breakpoint",
				zap.Uint16("addr", breakpoint.Addr),
			)

			mc.Pause()
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.report(
				LevelEvents,
				machine.ColorYellow,
				"Read x%04X at x%04X",
				addr,
				mc.Current(),
			)
			dbg.logger().Debug("watch read", zap.Uint16("addr", addr))
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.report(
				LevelEvents,
				machine.ColorYellow,
				"Write x%04X = x%04X at x%04X",
				addr,
				mc.GetMem(addr),
				mc.Current(),
			)
			dbg.logger().Debug("watch write", zap.Uint16("addr", addr))
			break
		}
	}
}

func exceptionName(vector uint8) string {
	switch vector {
	case machine.VEC_PRIVILEGE:
		return "Privilege mode violation"
	case machine.VEC_ILLEGAL:
		return "Illegal opcode"
	case machine.VEC_ACV:
		return "Access control violation"
	}

	return fmt.Sprintf("Exception x%02X", vector)
}

func (dbg *Debugger) Exception(vector uint8, mc *machine.Machine) {
	dbg.report(
		LevelExceptions,
		machine.ColorRed,
		"%s at x%04X",
		exceptionName(vector),
		mc.Current(),
	)

	dbg.logger().Debug(
		"exception",
		zap.Uint8("vector", vector),
		zap.Uint16("pc", mc.Current()),
	)
}

// PrintMem writes count words starting at addr, four to a line
func PrintMem(w io.Writer, mc *machine.Machine, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		at := addr + i

		if i == 0 {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		} else if i%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		}

		result := mc.GetMem(at)

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#04x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#04x ", result)
		}
	}

	fmt.Fprintln(w)
}
