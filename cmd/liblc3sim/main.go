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

// Command liblc3sim builds the simulator as a C shared library:
//
//	go build -buildmode=c-shared -o liblc3sim.so ./cmd/liblc3sim
//
// The build also writes liblc3sim.h with the exported function
// declarations. That header includes lc3sim.h for the State struct, handle
// and callback typedefs, so the two headers ship together and C callers
// include liblc3sim.h.
//
// Settings come from LC3SIM_* environment variables and from the YAML file
// named by LC3SIM_CONFIG, read once when the library is loaded.
package main

/*
#include "lc3sim.h"
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/lassandro/lc3sim/pkg/boundary"
	"github.com/lassandro/lc3sim/pkg/config"
	"github.com/lassandro/lc3sim/pkg/handle"
	"github.com/lassandro/lc3sim/pkg/sim"
)

var registry = newRegistry()

func newRegistry() *boundary.Registry {
	cfg, err := config.Load(os.Getenv("LC3SIM_CONFIG"), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "liblc3sim: %v\n", err)
		return boundary.New(zap.NewNop())
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "liblc3sim: %v\n", err)
		logger = zap.NewNop()
	}

	opts, err := cfg.SimOptions(logger)
	if err != nil {
		logger.Warn("ignoring simulator options", zap.Error(err))
		opts = nil
	}

	return boundary.New(logger, opts...)
}

func bytesOf(length C.size_t, buf *C.uint8_t) []byte {
	if buf == nil {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(length))
}

func wordsOf(length C.size_t, arr *C.uint16_t) []uint16 {
	if arr == nil {
		return nil
	}

	return unsafe.Slice((*uint16)(unsafe.Pointer(arr)), int(length))
}

func toState(s sim.State) C.State {
	var out C.State

	for i, reg := range s.Regs {
		out.regs[i] = C.uint32_t(reg)
	}

	out.pc = C.uint32_t(s.PC)
	out.cc = C.char(s.CC)
	out.psr = C.uint32_t(s.PSR)
	out.mcr = C.uint32_t(s.MCR)
	out.success = C.bool(s.Success)

	return out
}

//export new_sim
func new_sim(printer, inputter C.lc3_handle) C.lc3_handle {
	return C.lc3_handle(registry.NewSim(handle.Handle(printer), handle.Handle(inputter)))
}

//export new_sim_with_no_op_io
func new_sim_with_no_op_io() C.lc3_handle {
	return C.lc3_handle(registry.NewSimWithNoOpIO())
}

//export no_op_printer
func no_op_printer() C.lc3_handle {
	return C.lc3_handle(registry.NoOpPrinter())
}

//export no_op_inputter
func no_op_inputter() C.lc3_handle {
	return C.lc3_handle(registry.NoOpInputter())
}

// buf must stay valid until the simulator owning the printer is freed.
//
//export buffer_printer
func buffer_printer(length C.size_t, buf *C.uint8_t) C.lc3_handle {
	return C.lc3_handle(registry.BufferPrinter(bytesOf(length, buf)))
}

//export buffer_inputter
func buffer_inputter(length C.size_t, buf *C.uint8_t) C.lc3_handle {
	return C.lc3_handle(registry.BufferInputter(bytesOf(length, buf)))
}

//export callback_printer
func callback_printer(fn C.lc3_print_fn) C.lc3_handle {
	return C.lc3_handle(registry.CallbackPrinter(printFunc(fn)))
}

//export callback_inputter
func callback_inputter(fn C.lc3_input_fn) C.lc3_handle {
	return C.lc3_handle(registry.CallbackInputter(inputFunc(fn)))
}

//export callback_printer_ctx
func callback_printer_ctx(fn C.lc3_print_ctx_fn, ctx unsafe.Pointer) C.lc3_handle {
	return C.lc3_handle(registry.CallbackPrinter(printCtxFunc(fn, ctx)))
}

//export callback_inputter_ctx
func callback_inputter_ctx(fn C.lc3_input_ctx_fn, ctx unsafe.Pointer) C.lc3_handle {
	return C.lc3_handle(registry.CallbackInputter(inputCtxFunc(fn, ctx)))
}

//export free_printer
func free_printer(printer C.lc3_handle) {
	registry.FreePrinter(handle.Handle(printer))
}

//export free_inputter
func free_inputter(inputter C.lc3_handle) {
	registry.FreeInputter(handle.Handle(inputter))
}

//export load_program
func load_program(s C.lc3_handle, length C.size_t, addrs, words *C.uint16_t) {
	registry.LoadProgram(
		handle.Handle(s),
		wordsOf(length, addrs),
		wordsOf(length, words),
	)
}

//export get_mem
func get_mem(s C.lc3_handle, addr C.uint16_t) C.uint16_t {
	return C.uint16_t(registry.GetMem(handle.Handle(s), uint16(addr)))
}

//export run_program
func run_program(s C.lc3_handle, pc C.uint16_t) C.State {
	return toState(registry.RunProgram(handle.Handle(s), uint16(pc)))
}

//export free_sim
func free_sim(s C.lc3_handle) {
	registry.FreeSim(handle.Handle(s))
}

func main() {}
