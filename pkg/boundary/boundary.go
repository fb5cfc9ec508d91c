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

// Package boundary implements the operations exposed to foreign callers on
// top of opaque handles. Every operation tolerates unknown handles and
// contains panics, so nothing escapes to the caller but a zero value.
package boundary

import (
	"go.uber.org/zap"

	"github.com/lassandro/lc3sim/pkg/handle"
	"github.com/lassandro/lc3sim/pkg/image"
	"github.com/lassandro/lc3sim/pkg/machine"
	"github.com/lassandro/lc3sim/pkg/shims"
	"github.com/lassandro/lc3sim/pkg/sim"
)

type Registry struct {
	sims      handle.Table[*sim.Sim]
	printers  handle.Table[machine.Printer]
	inputters handle.Table[machine.Inputter]

	logger  *zap.Logger
	simOpts []sim.Option
}

// New returns a registry whose simulators are all built with opts.
func New(logger *zap.Logger, opts ...sim.Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		logger:  logger,
		simOpts: append([]sim.Option{sim.WithLogger(logger)}, opts...),
	}
}

func (r *Registry) contain(op string) {
	if p := recover(); p != nil {
		r.logger.Error(
			"recovered panic",
			zap.String("op", op),
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}
}

func (r *Registry) invalid(op string, kind string, h handle.Handle) {
	r.logger.Warn(
		"invalid handle",
		zap.String("op", op),
		zap.String("kind", kind),
		zap.Uint64("handle", uint64(h)),
	)
}

func (r *Registry) NoOpPrinter() (h handle.Handle) {
	defer r.contain("no_op_printer")
	return r.printers.Insert(shims.NoOpPrinter())
}

func (r *Registry) NoOpInputter() (h handle.Handle) {
	defer r.contain("no_op_inputter")
	return r.inputters.Insert(shims.NoOpInputter())
}

// BufferPrinter borrows buf without copying it.
func (r *Registry) BufferPrinter(buf []byte) (h handle.Handle) {
	defer r.contain("buffer_printer")
	return r.printers.Insert(shims.NewBufferPrinter(buf))
}

// BufferInputter borrows buf without copying it.
func (r *Registry) BufferInputter(buf []byte) (h handle.Handle) {
	defer r.contain("buffer_inputter")
	return r.inputters.Insert(shims.NewBufferInputter(buf))
}

func (r *Registry) CallbackPrinter(fn func(byte)) (h handle.Handle) {
	defer r.contain("callback_printer")

	if fn == nil {
		r.logger.Warn("nil printer callback")
		return 0
	}

	return r.printers.Insert(shims.NewCallbackPrinter(fn))
}

func (r *Registry) CallbackInputter(fn func() byte) (h handle.Handle) {
	defer r.contain("callback_inputter")

	if fn == nil {
		r.logger.Warn("nil inputter callback")
		return 0
	}

	return r.inputters.Insert(shims.NewCallbackInputter(fn))
}

// FreePrinter releases a printer that was never handed to NewSim.
func (r *Registry) FreePrinter(h handle.Handle) {
	defer r.contain("free_printer")

	if _, ok := r.printers.Take(h); !ok {
		r.invalid("free_printer", "printer", h)
	}
}

func (r *Registry) FreeInputter(h handle.Handle) {
	defer r.contain("free_inputter")

	if _, ok := r.inputters.Take(h); !ok {
		r.invalid("free_inputter", "inputter", h)
	}
}

// NewSim moves the printer and inputter behind p and i into a new
// simulator; both handles are invalid afterwards. If either handle is
// unknown nothing is consumed and the zero handle is returned.
func (r *Registry) NewSim(p, i handle.Handle) (h handle.Handle) {
	defer r.contain("new_sim")

	if _, ok := r.printers.Get(p); !ok {
		r.invalid("new_sim", "printer", p)
		return 0
	}

	if _, ok := r.inputters.Get(i); !ok {
		r.invalid("new_sim", "inputter", i)
		return 0
	}

	printer, _ := r.printers.Take(p)
	inputter, _ := r.inputters.Take(i)

	return r.sims.Insert(sim.New(printer, inputter, r.simOpts...))
}

func (r *Registry) NewSimWithNoOpIO() (h handle.Handle) {
	defer r.contain("new_sim_with_no_op_io")
	return r.sims.Insert(sim.NewWithNoOpIO(r.simOpts...))
}

func (r *Registry) LoadProgram(h handle.Handle, addrs, words []uint16) {
	defer r.contain("load_program")

	s, ok := r.sims.Get(h)
	if !ok {
		r.invalid("load_program", "sim", h)
		return
	}

	s.LoadProgram(image.FromArrays(addrs, words))
}

func (r *Registry) GetMem(h handle.Handle, addr uint16) (word uint16) {
	defer r.contain("get_mem")

	s, ok := r.sims.Get(h)
	if !ok {
		r.invalid("get_mem", "sim", h)
		return 0
	}

	return s.GetMem(addr)
}

// RunProgram blocks until the simulator halts, faults or pauses. An unknown
// handle yields a zero State, which reports failure.
func (r *Registry) RunProgram(h handle.Handle, pc uint16) (state sim.State) {
	defer r.contain("run_program")

	s, ok := r.sims.Get(h)
	if !ok {
		r.invalid("run_program", "sim", h)
		return sim.State{}
	}

	return s.Run(pc)
}

// FreeSim destroys the simulator along with its printer and inputter.
func (r *Registry) FreeSim(h handle.Handle) {
	defer r.contain("free_sim")

	s, ok := r.sims.Take(h)
	if !ok {
		r.invalid("free_sim", "sim", h)
		return
	}

	if err := s.Close(); err != nil {
		r.logger.Warn("releasing simulator", zap.Error(err))
	}
}

// Live reports how many simulators, printers and inputters are held.
func (r *Registry) Live() (sims, printers, inputters int) {
	return r.sims.Len(), r.printers.Len(), r.inputters.Len()
}
