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

package cmd

import (
	"os"

	"github.com/spf13/viper"

	"bennypowers.dev/ty-find/cmd/config"
	"bennypowers.dev/ty-find/daemon"
	"bennypowers.dev/ty-find/workspace"
)

// loadConfig builds a TyFindConfig from defaults overlaid with whatever
// viper picked up from flags, env, and the config file.
func loadConfig() *config.TyFindConfig {
	cfg := config.Defaults()
	if viper.IsSet("daemon.socketPath") {
		cfg.Daemon.SocketPath = viper.GetString("daemon.socketPath")
	}
	if viper.IsSet("daemon.idleTimeout") {
		cfg.Daemon.IdleTimeout = viper.GetDuration("daemon.idleTimeout")
	}
	if viper.IsSet("daemon.sweepInterval") {
		cfg.Daemon.SweepInterval = viper.GetDuration("daemon.sweepInterval")
	}
	if viper.IsSet("lsp.command") {
		cfg.Lsp.Command = viper.GetString("lsp.command")
	}
	if viper.IsSet("lsp.subcommand") {
		cfg.Lsp.Subcommand = viper.GetString("lsp.subcommand")
	}
	if viper.IsSet("lsp.args") {
		cfg.Lsp.Args = viper.GetStringSlice("lsp.args")
	}
	if viper.IsSet("client.requestTimeout") {
		cfg.Client.RequestTimeout = viper.GetDuration("client.requestTimeout")
	}
	cfg.ProjectDir = viper.GetString("projectDir")
	cfg.Verbose = viper.GetBool("verbose")
	return cfg
}

// newDaemonClient builds a daemon.Client wired to auto-start the daemon by
// re-executing this same binary with "daemon run" in the foreground.
func newDaemonClient(cfg *config.TyFindConfig) *daemon.Client {
	return daemon.NewClient(daemon.ClientOptions{
		SocketPath:     daemon.SocketPath(cfg.Daemon.SocketPath),
		RequestTimeout: cfg.Client.RequestTimeout,
		ForegroundArgs: []string{"daemon", "run"},
	})
}

// WorkspaceRoot resolves the workspace root for a command invocation: the
// explicit --workspace flag if given, otherwise marker-file detection
// rooted at the configured project directory or the current directory.
func WorkspaceRoot(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	start := viper.GetString("projectDir")
	if start == "" {
		var err error
		start, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	return workspace.DetectRoot(start)
}
