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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bennypowers.dev/ty-find/daemon"
	"bennypowers.dev/ty-find/internal/logging"
	"bennypowers.dev/ty-find/internal/platform"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the background daemon directly",
}

// daemonRunCmd runs the server in the foreground. This is the subcommand the
// client re-execs into when auto-starting (spec.md §4.6).
var daemonRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daemon in the foreground (used internally by auto-start)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.SetMode(logging.ModeDaemon)
		cfg := loadConfig()
		server := daemon.NewServer(cfg, platform.NewRealTimeProvider())

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			server.Shutdown()
			cancel()
		}()

		return server.Run(ctx)
	},
}

// daemonStartCmd pings the daemon, which auto-starts a detached daemon
// process when none answers, and returns once the daemon replies, leaving at
// most one live daemon under this binary's name per user
// (spec.md §8 scenario 8).
var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon in the background, if it isn't already running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		client := newDaemonClient(cfg)

		if _, err := client.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("Error: starting daemon: %w", err)
		}
		fmt.Println("daemon started")
		return nil
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask a running daemon to shut down",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newDaemonClient(loadConfig())
		result, err := client.Shutdown(cmd.Context())
		if err != nil {
			return fmt.Errorf("Error: %w", err)
		}
		fmt.Println(result.Status)
		return nil
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the daemon is running, without starting it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		socketPath := daemon.SocketPath(cfg.Daemon.SocketPath)
		if _, err := os.Stat(socketPath); err != nil {
			fmt.Println("not running")
			return nil
		}

		client := daemon.NewClient(daemon.ClientOptions{SocketPath: socketPath, RequestTimeout: cfg.Client.RequestTimeout})
		result, err := client.Ping(cmd.Context())
		if err != nil {
			fmt.Println("not running (stale socket)")
			return nil
		}
		fmt.Printf("%s — uptime %ds, %d active workspace(s)\n", result.Status, result.UptimeSeconds, result.ActiveWorkspaces)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.AddCommand(daemonRunCmd)
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
}
