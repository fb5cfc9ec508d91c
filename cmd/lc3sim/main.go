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
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lassandro/lc3sim/pkg/config"
	"github.com/lassandro/lc3sim/pkg/image"
	"github.com/lassandro/lc3sim/pkg/sim"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "lc3sim",
		Short:        "Run LC-3 machine images",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "YAML config file")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error or off")

	root.AddCommand(newRunCommand(), newDebugCommand(), newMemCommand())

	return root
}

// addMachineFlags registers the flags shared by commands that execute an
// image. They take precedence over the config file and environment.
func addMachineFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "start address, e.g. x3000")
	cmd.Flags().Uint("print-level", 0, "0 silent, 1 exceptions, 3 breakpoints and watchpoints, 5 trace")
	cmd.Flags().StringArray("break", nil, "pause at address (repeatable)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	overrides := map[string]interface{}{}

	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		overrides["log_level"] = level
	}

	if flags.Lookup("start") != nil && flags.Changed("start") {
		start, _ := flags.GetString("start")
		overrides["start"] = start
	}

	if flags.Lookup("print-level") != nil && flags.Changed("print-level") {
		level, _ := flags.GetUint("print-level")
		overrides["print_level"] = level
	}

	if flags.Lookup("break") != nil && flags.Changed("break") {
		breakpoints, _ := flags.GetStringArray("break")
		overrides["breakpoints"] = breakpoints
	}

	path, _ := flags.GetString("config")

	return config.Load(path, overrides)
}

// session is an image loaded into a simulator wired to the console.
type session struct {
	sim      *sim.Sim
	img      image.Image
	start    uint16
	printer  *ConsolePrinter
	logger   *zap.Logger
	stopped  atomic.Bool
	signals  chan os.Signal
	inputter *ConsoleInputter
}

func openSession(cmd *cobra.Command, path string, extra ...sim.Option) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	opts, err := cfg.SimOptions(logger)
	if err != nil {
		return nil, err
	}

	start, err := cfg.StartAddr()
	if err != nil {
		return nil, err
	}

	img, err := image.Load(path)
	if err != nil {
		return nil, err
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	printer := NewConsolePrinter(cmd.OutOrStdout())
	printer.Color = term.IsTerminal(int(os.Stdout.Fd()))
	printer.CRLF = interactive

	inputter := NewConsoleInputter(os.Stdin, logger)

	ss := &session{
		img:      img,
		start:    start,
		printer:  printer,
		inputter: inputter,
		logger:   logger,
		signals:  make(chan os.Signal, 1),
	}

	ss.sim = sim.New(printer, inputter, append(opts, extra...)...)
	ss.sim.LoadProgram(img)

	inputter.Interrupt = ss.stop

	signal.Notify(ss.signals, os.Interrupt)
	go func() {
		for range ss.signals {
			ss.stop()
		}
	}()

	return ss, nil
}

// stop pauses the machine at the next instruction boundary.
func (ss *session) stop() {
	ss.stopped.Store(true)
	ss.sim.Machine().Pause()
}

func (ss *session) Close() error {
	signal.Stop(ss.signals)
	close(ss.signals)

	err := ss.sim.Close()
	ss.logger.Sync()

	return errors.Wrap(err, "closing simulator")
}

func printState(w io.Writer, state sim.State) {
	for i, reg := range state.Regs {
		fmt.Fprintf(w, "\033[1mR%d:\033[0m x%04X\t", i, reg)
		if i == (len(state.Regs)-1)/2 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(
		w,
		"\033[1mPC:\033[0m x%04X\t\033[1mCC:\033[0m %c\t\033[1mPSR:\033[0m x%04X\t\033[1mMCR:\033[0m x%04X\n",
		state.PC,
		state.CC,
		state.PSR,
		state.MCR,
	)
}
