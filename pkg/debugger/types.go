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
	"go.uber.org/zap"

	"github.com/lassandro/lc3sim/pkg/machine"
)

type WatchpointType uint

const (
	ReadWatch WatchpointType = iota
	WriteWatch
	ReadWriteWatch
)

type Watchpoint struct {
	Addr uint16
	Type WatchpointType
}

type Breakpoint struct {
	Addr uint16
}

// Print levels
const (
	LevelSilent     uint = 0
	LevelExceptions uint = 1
	LevelEvents     uint = 3
	LevelTrace      uint = 5
)

type Debugger struct {
	PrintLevel uint

	// Break pauses the machine after every instruction
	Break bool

	Breakpoints []Breakpoint
	Watchpoints []Watchpoint

	// Messages are written here; usually the same printer the machine uses
	Printer machine.Printer
	Logger  *zap.Logger
}
