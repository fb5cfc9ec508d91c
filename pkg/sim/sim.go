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

// Package sim wraps a machine together with the printer and inputter it
// owns, and exposes the load/run/inspect/close lifecycle.
package sim

import (
	"io"

	"go.uber.org/zap"

	"github.com/lassandro/lc3sim/pkg/debugger"
	"github.com/lassandro/lc3sim/pkg/image"
	"github.com/lassandro/lc3sim/pkg/machine"
	"github.com/lassandro/lc3sim/pkg/shims"
)

// Sim is a single simulator instance. It is not safe for concurrent use;
// separate instances are fully independent.
type Sim struct {
	mc       *machine.Machine
	dbg      *debugger.Debugger
	printer  machine.Printer
	inputter machine.Inputter
	logger   *zap.Logger
}

// New takes ownership of printer and inputter. They are released by Close
// and must not be used by the caller afterwards, nor shared with another
// Sim. A nil printer or inputter is replaced with a no-op one.
func New(printer machine.Printer, inputter machine.Inputter, opts ...Option) *Sim {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if printer == nil {
		printer = shims.NoOpPrinter()
	}

	if inputter == nil {
		inputter = shims.NoOpInputter()
	}

	mc := &machine.Machine{
		Printer:  printer,
		Inputter: inputter,
	}

	var dbg *debugger.Debugger

	if o.debugger || o.printLevel > 0 || len(o.breakpoints) > 0 || len(o.watchpoints) > 0 {
		dbg = debugger.New(printer, o.logger)
		dbg.PrintLevel = o.printLevel
		dbg.Watchpoints = o.watchpoints

		for _, addr := range o.breakpoints {
			dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})
		}

		mc.Debugger = dbg
	}

	mc.Reinitialize()

	o.logger.Debug(
		"simulator created",
		zap.Uint("print_level", o.printLevel),
		zap.Int("breakpoints", len(o.breakpoints)),
	)

	return &Sim{
		mc:       mc,
		dbg:      dbg,
		printer:  printer,
		inputter: inputter,
		logger:   o.logger,
	}
}

// NewWithNoOpIO builds a Sim whose output is discarded and which never has
// input available.
func NewWithNoOpIO(opts ...Option) *Sim {
	return New(shims.NoOpPrinter(), shims.NoOpInputter(), opts...)
}

// LoadProgram resets memory and registers, then stores every cell of img.
// Anything loaded before is discarded.
func (s *Sim) LoadProgram(img image.Image) {
	s.mc.Reinitialize()

	for _, cell := range img {
		s.mc.SetMem(cell.Addr, cell.Word)
	}

	s.logger.Debug(
		"program loaded",
		zap.Int("cells", len(img)),
		zap.Uint16("origin", img.Origin()),
	)
}

func (s *Sim) GetMem(addr uint16) uint16 {
	return s.mc.GetMem(addr)
}

// Run starts execution at start and returns once the machine halts, stops
// on an exception or pauses on a breakpoint. Memory and registers carry
// over from whatever state the previous run left behind.
//
// Run blocks for as long as the inputter does.
func (s *Sim) Run(start uint16) State {
	s.logger.Debug("run", zap.Uint16("start", start))

	s.mc.SetPC(start)
	success := s.mc.RunUntilHalt()

	state := snapshot(s.mc, success)

	fields := []zap.Field{
		zap.Bool("success", success),
		zap.Uint32("pc", state.PC),
		zap.Bool("paused", s.mc.Paused()),
	}

	if fault := s.mc.Fault(); fault != nil {
		fields = append(fields, zap.Uint8("vector", fault.Vector))
	}

	s.logger.Debug("run finished", fields...)

	return state
}

// Debugger returns the attached debugger, or nil if no option asked for
// one. Changes to its breakpoints apply to the next Run.
func (s *Sim) Debugger() *debugger.Debugger {
	return s.dbg
}

// Machine exposes the underlying machine for inspection tools.
func (s *Sim) Machine() *machine.Machine {
	return s.mc
}

// Close destroys the machine and releases the printer and inputter. The
// Sim must not be used afterwards.
func (s *Sim) Close() error {
	var firstErr error

	for _, owned := range []interface{}{s.printer, s.inputter} {
		if closer, ok := owned.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	s.mc.Printer = nil
	s.mc.Inputter = nil
	s.mc.Debugger = nil
	s.mc = nil
	s.dbg = nil
	s.printer = nil
	s.inputter = nil

	s.logger.Debug("simulator released")

	return firstErr
}
