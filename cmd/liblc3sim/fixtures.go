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

/*
#include <string.h>
#include "lc3sim.h"

typedef struct {
    uint8_t buf[64];
    size_t  len;
} lc3_sink;

static lc3_sink lc3_plain_sink;
static lc3_sink lc3_ctx_sink;
static uint8_t  lc3_ctx_key = 'B';

static lc3_sink *lc3_plain(void) { return &lc3_plain_sink; }
static lc3_sink *lc3_ctx(void) { return &lc3_ctx_sink; }
static uint8_t *lc3_key(void) { return &lc3_ctx_key; }

static void lc3_sink_reset(lc3_sink *s) { memset(s, 0, sizeof *s); }

static void lc3_sink_put(lc3_sink *s, uint8_t c) {
    if (s->len < sizeof s->buf) {
        s->buf[s->len++] = c;
    }
}

static void lc3_record(uint8_t c) { lc3_sink_put(&lc3_plain_sink, c); }
static void lc3_record_ctx(void *ctx, uint8_t c) { lc3_sink_put(ctx, c); }

static uint8_t lc3_key_a(void) { return 'A'; }
static uint8_t lc3_key_ctx(void *ctx) { return *(uint8_t *)ctx; }
*/
import "C"

import (
	"unsafe"

	"github.com/lassandro/lc3sim/pkg/sim"
)

// C-side fixtures for the package tests, which cannot use cgo directly.

// stateLayout returns sizeof(State) followed by the offsets of regs, pc,
// cc, psr, mcr and success.
func stateLayout() (uintptr, [6]uintptr) {
	var s C.State

	return unsafe.Sizeof(s), [6]uintptr{
		unsafe.Offsetof(s.regs),
		unsafe.Offsetof(s.pc),
		unsafe.Offsetof(s.cc),
		unsafe.Offsetof(s.psr),
		unsafe.Offsetof(s.mcr),
		unsafe.Offsetof(s.success),
	}
}

func goState(s C.State) sim.State {
	var out sim.State

	for i := range out.Regs {
		out.Regs[i] = uint32(s.regs[i])
	}

	out.PC = uint32(s.pc)
	out.CC = byte(s.cc)
	out.PSR = uint32(s.psr)
	out.MCR = uint32(s.mcr)
	out.Success = bool(s.success)

	return out
}

func sinkString(s *C.lc3_sink) string {
	return C.GoStringN((*C.char)(unsafe.Pointer(&s.buf[0])), C.int(s.len))
}

// recordingPrinter registers a callback printer that appends to a C buffer
// read back by recorded.
func recordingPrinter() C.lc3_handle {
	C.lc3_sink_reset(C.lc3_plain())
	return callback_printer(C.lc3_print_fn(C.lc3_record))
}

func recorded() string {
	return sinkString(C.lc3_plain())
}

func recordingPrinterCtx() C.lc3_handle {
	sink := C.lc3_ctx()
	C.lc3_sink_reset(sink)

	return callback_printer_ctx(C.lc3_print_ctx_fn(C.lc3_record_ctx), unsafe.Pointer(sink))
}

func recordedCtx() string {
	return sinkString(C.lc3_ctx())
}

// constantInputter always answers 'A'.
func constantInputter() C.lc3_handle {
	return callback_inputter(C.lc3_input_fn(C.lc3_key_a))
}

// keyInputterCtx answers the byte its context points at, 'B'.
func keyInputterCtx() C.lc3_handle {
	return callback_inputter_ctx(C.lc3_input_ctx_fn(C.lc3_key_ctx), unsafe.Pointer(C.lc3_key()))
}

func bufferPrinter(buf []byte) C.lc3_handle {
	if len(buf) == 0 {
		return buffer_printer(0, nil)
	}

	return buffer_printer(C.size_t(len(buf)), (*C.uint8_t)(unsafe.Pointer(&buf[0])))
}

func loadWords(s C.lc3_handle, origin uint16, words ...uint16) {
	addrs := make([]uint16, len(words))
	for i := range addrs {
		addrs[i] = origin + uint16(i)
	}

	if len(words) == 0 {
		load_program(s, 0, nil, nil)
		return
	}

	load_program(
		s,
		C.size_t(len(words)),
		(*C.uint16_t)(unsafe.Pointer(&addrs[0])),
		(*C.uint16_t)(unsafe.Pointer(&words[0])),
	)
}

func runFrom(s C.lc3_handle, pc uint16) sim.State {
	return goState(run_program(s, C.uint16_t(pc)))
}

func memAt(s C.lc3_handle, addr uint16) uint16 {
	return uint16(get_mem(s, C.uint16_t(addr)))
}
