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

package sim

import (
	"go.uber.org/zap"

	"github.com/lassandro/lc3sim/pkg/debugger"
)

type options struct {
	logger      *zap.Logger
	printLevel  uint
	breakpoints []uint16
	watchpoints []debugger.Watchpoint
	debugger    bool
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPrintLevel sets how much the simulator reports through its printer:
// 0 is silent, 1 reports exceptions, 3 breakpoints and watchpoints, 5
// traces every instruction.
func WithPrintLevel(level uint) Option {
	return func(o *options) {
		o.printLevel = level
	}
}

// WithBreakpoints pauses Run whenever execution reaches one of addrs.
func WithBreakpoints(addrs ...uint16) Option {
	return func(o *options) {
		o.breakpoints = append(o.breakpoints, addrs...)
	}
}

func WithWatchpoints(watchpoints ...debugger.Watchpoint) Option {
	return func(o *options) {
		o.watchpoints = append(o.watchpoints, watchpoints...)
	}
}

// WithDebugger attaches a debugger even when no other option needs one.
func WithDebugger() Option {
	return func(o *options) {
		o.debugger = true
	}
}
