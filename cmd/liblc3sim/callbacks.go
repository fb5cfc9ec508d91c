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
#include "lc3sim.h"

static void lc3_call_print(lc3_print_fn fn, uint8_t c) { fn(c); }
static uint8_t lc3_call_input(lc3_input_fn fn) { return fn(); }

static void lc3_call_print_ctx(lc3_print_ctx_fn fn, void *ctx, uint8_t c) {
    fn(ctx, c);
}

static uint8_t lc3_call_input_ctx(lc3_input_ctx_fn fn, void *ctx) {
    return fn(ctx);
}
*/
import "C"

import "unsafe"

// The wrappers return nil for a nil function pointer so the registry can
// reject it.

func printFunc(fn C.lc3_print_fn) func(byte) {
	if fn == nil {
		return nil
	}

	return func(c byte) { C.lc3_call_print(fn, C.uint8_t(c)) }
}

func inputFunc(fn C.lc3_input_fn) func() byte {
	if fn == nil {
		return nil
	}

	return func() byte { return byte(C.lc3_call_input(fn)) }
}

// ctx is never dereferenced on this side.
func printCtxFunc(fn C.lc3_print_ctx_fn, ctx unsafe.Pointer) func(byte) {
	if fn == nil {
		return nil
	}

	return func(c byte) { C.lc3_call_print_ctx(fn, ctx, C.uint8_t(c)) }
}

func inputCtxFunc(fn C.lc3_input_ctx_fn, ctx unsafe.Pointer) func() byte {
	if fn == nil {
		return nil
	}

	return func() byte { return byte(C.lc3_call_input_ctx(fn, ctx)) }
}
