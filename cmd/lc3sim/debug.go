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
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lassandro/lc3sim/pkg/debugger"
	"github.com/lassandro/lc3sim/pkg/encoding"
	"github.com/lassandro/lc3sim/pkg/image"
	"github.com/lassandro/lc3sim/pkg/machine"
	"github.com/lassandro/lc3sim/pkg/sim"
)

type action int

const (
	actionNone action = iota
	actionContinue
	actionNext
	actionQuit
)

func newDebugCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug <image>",
		Short: "Step through an image in an interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE:  debugImage,
	}

	addMachineFlags(cmd)

	return cmd
}

func debugImage(cmd *cobra.Command, args []string) error {
	ss, err := openSession(cmd, args[0], sim.WithDebugger())
	if err != nil {
		return err
	}
	defer ss.Close()

	r := &repl{sim: ss.sim, img: ss.img, start: ss.start, out: cmd.OutOrStdout()}
	r.sim.Machine().SetPC(r.start)

	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(r.out, "\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return nil
		}

		switch r.exec(scanner.Text()) {
		case actionQuit:
			return nil
		case actionContinue:
			ss.stopped.Store(false)
			r.resume(false)
			ss.printer.Flush()
		case actionNext:
			ss.stopped.Store(false)
			r.resume(true)
			ss.printer.Flush()
		}
	}
}

type repl struct {
	sim     *sim.Sim
	img     image.Image
	start   uint16
	out     io.Writer
	lastcmd []string
}

func (r *repl) errorf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "error: "+format+"\n", args...)
}

func (r *repl) exec(line string) action {
	args := strings.Fields(line)

	if len(args) == 0 {
		if len(r.lastcmd) == 0 {
			return actionNone
		}
		args = r.lastcmd
	} else {
		r.lastcmd = make([]string, len(args))
		copy(r.lastcmd, args)
	}

	cmd := args[0]
	args = args[1:]

	dbg := r.sim.Debugger()
	mc := r.sim.Machine()

	switch cmd {
	case "b", "bp", "break", "breakpoint":
		r.debugBreak(dbg, args)

	case "w", "wp", "watch", "watchpoint":
		r.debugWatch(dbg, args)

	case "r", "reg", "register", "registers":
		r.debugReg(mc, args)

	case "m", "mem", "memory":
		r.debugMemory(mc, args)

	case "set":
		r.debugSet(mc, args)

	case "j", "jmp", "jump":
		r.debugJump(mc, args)

	case "p", "print":
		r.debugPrint(dbg, args)

	case "c", "continue":
		return actionContinue

	case "n", "next":
		return actionNext

	case "q", "quit", "exit":
		return actionQuit

	case "clear":
		fmt.Fprint(r.out, "\033[H\033[2J")

	case "reset":
		r.sim.LoadProgram(r.img)
		mc.SetPC(r.start)
		fmt.Fprintf(r.out, "\033[1mPC:\033[0m x%04X\n", r.start)

	default:
		r.errorf("'%s' is not a valid command", cmd)
	}

	return actionNone
}

// resume runs from the current PC. With single set it stops after one
// instruction.
func (r *repl) resume(single bool) sim.State {
	dbg := r.sim.Debugger()
	dbg.Break = single

	state := r.sim.Run(r.sim.Machine().GetPC())
	dbg.Break = false

	switch {
	case !state.Success:
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Exceptional stop at x%04X\n", state.PC)
	case state.Halted():
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Program halted")
	default:
		if !single {
			fmt.Fprintln(r.out)
			fmt.Fprintln(r.out, "Program stopped")
		}
		debugger.PrintMem(r.out, r.sim.Machine(), uint16(state.PC), 1)
	}

	return state
}

func (r *repl) debugBreak(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [x####]"

		if len(args) != 1 {
			r.errorf(usage)
			return
		}

		addr, err := encoding.DecodeAddr(args[0])
		if err != nil {
			r.errorf("%v", err)
			return
		}

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				return
			}
		}

		dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})
		fmt.Fprintf(r.out, "Breakpoint added [x%04X]\n", addr)

	case "l", "ls", "list":
		format := indexFormat(len(dbg.Breakpoints), "x%04X")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Fprintf(r.out, format, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		i, ok := r.index(args, len(dbg.Breakpoints), "break remove [#]")
		if !ok {
			return
		}

		dbg.Breakpoints = append(dbg.Breakpoints[:i], dbg.Breakpoints[i+1:]...)
		fmt.Fprintf(r.out, "Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Fprintln(r.out, "Breakpoints reset")

	default:
		r.errorf("break: '%s' is not a valid command", cmd)
	}
}

func watchName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	}

	return "readwrite"
}

func (r *repl) debugWatch(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [x####] [read|write|readwrite]"

		if len(args) != 2 {
			r.errorf(usage)
			return
		}

		addr, err := encoding.DecodeAddr(args[0])
		if err != nil {
			r.errorf("%v", err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			r.errorf(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(dbg.Watchpoints, debugger.Watchpoint{Addr: addr, Type: wtype})

		// Watch hits are only reported from the events level up
		if dbg.PrintLevel < debugger.LevelEvents {
			dbg.PrintLevel = debugger.LevelEvents
		}

		fmt.Fprintf(r.out, "Watchpoint added [x%04X] (%s)\n", addr, watchName(wtype))

	case "l", "ls", "list":
		format := indexFormat(len(dbg.Watchpoints), "x%04X %s")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Fprintf(r.out, format, i, watchpoint.Addr, watchName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		i, ok := r.index(args, len(dbg.Watchpoints), "watch remove [#]")
		if !ok {
			return
		}

		dbg.Watchpoints = append(dbg.Watchpoints[:i], dbg.Watchpoints[i+1:]...)
		fmt.Fprintf(r.out, "Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Fprintln(r.out, "Watchpoints reset")

	default:
		r.errorf("watch: '%s' is not a valid command", cmd)
	}
}

func (r *repl) debugPrint(dbg *debugger.Debugger, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Print level %d\n", dbg.PrintLevel)
		return
	}

	level, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		r.errorf("%v", err)
		return
	}

	dbg.PrintLevel = uint(level)
	fmt.Fprintf(r.out, "Print level %d\n", dbg.PrintLevel)
}

func (r *repl) debugReg(mc *machine.Machine, args []string) {
	const usage = "register [R#|PC|PSR] [x####|#-5]"

	if len(args) == 0 {
		for i, register := range mc.State.Registers {
			fmt.Fprintf(r.out, "\033[1mR%d:\033[0m x%04X\t", i, register)
			if i == (len(mc.State.Registers)-1)/2 {
				fmt.Fprintln(r.out)
			}
		}

		fmt.Fprintln(r.out)
		fmt.Fprintf(
			r.out,
			"\033[1mPC:\033[0m x%04X\t\033[1mPSR:\033[0m x%04X\t\033[1mCC:\033[0m %c\n",
			mc.GetPC(),
			mc.GetPSR(),
			mc.GetCC(),
		)
		return
	}

	if len(args) != 2 {
		r.errorf(usage)
		return
	}

	value, err := decodeWord(args[1])
	if err != nil {
		r.errorf("%v", err)
		return
	}

	name := strings.ToUpper(args[0])

	switch {
	case name == "PC":
		mc.SetPC(value)
	case name == "PSR" || name == "PS":
		mc.State.Procstat = value
	case len(name) == 2 && name[0] == 'R' && name[1] >= '0' && name[1] <= '7':
		mc.State.Registers[name[1]-'0'] = value
	default:
		r.errorf("invalid register '%s'", args[0])
		return
	}

	fmt.Fprintf(r.out, "\033[1m%s:\033[0m x%04X\n", name, value)
}

func (r *repl) debugMemory(mc *machine.Machine, args []string) {
	const usage = "memory [x####] [#]"

	if len(args) > 2 {
		r.errorf(usage)
		return
	}

	addr := mc.GetPC()
	size := uint16(1)

	var err error

	if len(args) > 0 {
		if addr, err = encoding.DecodeAddr(args[0]); err != nil {
			r.errorf("%v", err)
			return
		}
	}

	if len(args) > 1 {
		if size, err = encoding.DecodeAddr(args[1]); err != nil {
			r.errorf("%v", err)
			return
		}
	}

	debugger.PrintMem(r.out, mc, addr, size)
}

func (r *repl) debugSet(mc *machine.Machine, args []string) {
	const usage = "set [x####] [x####|#-5]"

	if len(args) != 2 {
		r.errorf(usage)
		return
	}

	addr, err := encoding.DecodeAddr(args[0])
	if err != nil {
		r.errorf("%v", err)
		return
	}

	value, err := decodeWord(args[1])
	if err != nil {
		r.errorf("%v", err)
		return
	}

	mc.SetMem(addr, value)
	debugger.PrintMem(r.out, mc, addr, 1)
}

func (r *repl) debugJump(mc *machine.Machine, args []string) {
	const usage = "jump [x####]"

	if len(args) != 1 {
		r.errorf(usage)
		return
	}

	addr, err := encoding.DecodeAddr(args[0])
	if err != nil {
		r.errorf("%v", err)
		return
	}

	mc.SetPC(addr)
	fmt.Fprintf(r.out, "\033[1mPC:\033[0m x%04X\n", addr)
}

func (r *repl) index(args []string, n int, usage string) (int, bool) {
	if len(args) != 1 {
		r.errorf(usage)
		return 0, false
	}

	i, err := strconv.Atoi(args[0])
	if err != nil {
		r.errorf("%v", err)
		return 0, false
	}

	if i < 0 || i >= n {
		r.errorf("invalid index %d", i)
		return 0, false
	}

	return i, true
}

// decodeWord reads a value as hex (x####) or signed decimal (#-5). Negative
// values are stored in two's complement.
func decodeWord(s string) (uint16, error) {
	if strings.ContainsAny(s, "xX") {
		return encoding.DecodeHex(s)
	}

	value, err := encoding.DecodeInt(s)
	return uint16(value), err
}

// indexFormat pads list indices to the width of the largest one.
func indexFormat(n int, item string) string {
	digits := math.Floor(math.Log10(float64(n + 1)))
	return fmt.Sprintf("#%%0%dd: %s\n", int64(digits)+1, item)
}
