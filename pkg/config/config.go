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

// Package config loads simulator settings. Values are layered: built-in
// defaults, then an optional YAML file, then LC3SIM_* environment variables,
// then explicit overrides such as command line flags.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lassandro/lc3sim/pkg/encoding"
	"github.com/lassandro/lc3sim/pkg/sim"
)

const EnvPrefix = "LC3SIM_"

type Config struct {
	LogLevel    string   `koanf:"log_level"`
	PrintLevel  uint     `koanf:"print_level"`
	Breakpoints []string `koanf:"breakpoints"`
	Start       string   `koanf:"start"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"log_level":   "off",
		"print_level": 0,
		"breakpoints": []string{},
		"start":       "x3000",
	}
}

// Load builds a Config. An empty path skips the file layer; overrides may
// be nil.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "loading %s", path)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, errors.Wrap(err, "loading environment")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, "loading overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	return &cfg, nil
}

// LC3SIM_PRINT_LEVEL becomes print_level. Breakpoint lists may be separated
// by commas or spaces.
func envValue(key, value string) (string, interface{}) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	if key == "breakpoints" {
		return key, strings.Fields(strings.ReplaceAll(value, ",", " "))
	}

	return key, value
}

func (c *Config) StartAddr() (uint16, error) {
	addr, err := encoding.DecodeAddr(c.Start)
	return addr, errors.Wrap(err, "start")
}

func (c *Config) BreakpointAddrs() ([]uint16, error) {
	addrs := make([]uint16, 0, len(c.Breakpoints))

	for _, text := range c.Breakpoints {
		addr, err := encoding.DecodeAddr(text)
		if err != nil {
			return nil, errors.Wrap(err, "breakpoint")
		}

		addrs = append(addrs, addr)
	}

	return addrs, nil
}

// Logger returns a development logger at LogLevel, or a no-op logger when
// logging is off.
func (c *Config) Logger() (*zap.Logger, error) {
	switch strings.ToLower(c.LogLevel) {
	case "", "off", "none":
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true

	return zc.Build()
}

// SimOptions translates the config into options for sim.New.
func (c *Config) SimOptions(logger *zap.Logger) ([]sim.Option, error) {
	breakpoints, err := c.BreakpointAddrs()
	if err != nil {
		return nil, err
	}

	return []sim.Option{
		sim.WithLogger(logger),
		sim.WithPrintLevel(c.PrintLevel),
		sim.WithBreakpoints(breakpoints...),
	}, nil
}
