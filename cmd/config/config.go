/*
Copyright © 2025 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package config

import "time"

// DaemonConfig controls the background daemon's lifecycle and RPC surface.
type DaemonConfig struct {
	// SocketPath overrides the default uid-scoped unix socket path.
	// When empty, the daemon derives a path from the XDG runtime directory.
	SocketPath string `mapstructure:"socketPath" yaml:"socketPath"`
	// IdleTimeout is how long a workspace's ty server may sit unused before
	// its lsp.Pool entry is evicted.
	IdleTimeout time.Duration `mapstructure:"idleTimeout" yaml:"idleTimeout"`
	// SweepInterval is how often the daemon checks for idle workspaces and
	// considers self-termination.
	SweepInterval time.Duration `mapstructure:"sweepInterval" yaml:"sweepInterval"`
}

// LspConfig controls how the daemon spawns and talks to the ty language server.
type LspConfig struct {
	// Command is the executable used to launch the language server.
	Command string `mapstructure:"command" yaml:"command"`
	// Subcommand is passed as the first argument, e.g. "server".
	Subcommand string `mapstructure:"subcommand" yaml:"subcommand"`
	// Args are additional arguments appended after Subcommand.
	Args []string `mapstructure:"args" yaml:"args"`
}

// ClientConfig controls the CLI-facing daemon client.
type ClientConfig struct {
	// RequestTimeout bounds how long a single RPC may take before the
	// client gives up and reports a timeout error.
	RequestTimeout time.Duration `mapstructure:"requestTimeout" yaml:"requestTimeout"`
	// StartupRetries records how many socket polls follow a daemon spawn.
	// The daemon client does not read it: it always polls a fixed
	// startupPollAttempts (20) times (daemon/client.go).
	StartupRetries int `mapstructure:"startupRetries" yaml:"startupRetries"`
	// StartupRetryDelay records the delay between socket polls. The daemon
	// client does not read it: it always waits a fixed startupPollInterval
	// (100ms) between polls.
	StartupRetryDelay time.Duration `mapstructure:"startupRetryDelay" yaml:"startupRetryDelay"`
}

// TyFindConfig is the root configuration object bound by viper.
type TyFindConfig struct {
	ProjectDir string       `mapstructure:"projectDir" yaml:"projectDir"`
	ConfigFile string       `mapstructure:"configFile" yaml:"configFile"`
	Daemon     DaemonConfig `mapstructure:"daemon" yaml:"daemon"`
	Lsp        LspConfig    `mapstructure:"lsp" yaml:"lsp"`
	Client     ClientConfig `mapstructure:"client" yaml:"client"`
	// Verbose logging output
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

// Defaults returns a TyFindConfig populated with sane constants, before any
// config file or flag overrides are applied.
func Defaults() *TyFindConfig {
	return &TyFindConfig{
		Daemon: DaemonConfig{
			IdleTimeout:   5 * time.Minute,
			SweepInterval: 60 * time.Second,
		},
		Lsp: LspConfig{
			Command:    "ty",
			Subcommand: "server",
		},
		Client: ClientConfig{
			RequestTimeout:    30 * time.Second,
			StartupRetries:    20,
			StartupRetryDelay: 100 * time.Millisecond,
		},
	}
}

func (c *TyFindConfig) Clone() *TyFindConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Lsp.Args != nil {
		clone.Lsp.Args = make([]string, len(c.Lsp.Args))
		copy(clone.Lsp.Args, c.Lsp.Args)
	}
	return &clone
}
