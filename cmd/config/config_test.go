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

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Daemon.IdleTimeout != 5*time.Minute {
		t.Errorf("expected default idle timeout of 5m, got %v", cfg.Daemon.IdleTimeout)
	}
	if cfg.Daemon.SweepInterval != 60*time.Second {
		t.Errorf("expected default sweep interval of 60s, got %v", cfg.Daemon.SweepInterval)
	}
	if cfg.Lsp.Command != "ty" {
		t.Errorf("expected default lsp command 'ty', got %q", cfg.Lsp.Command)
	}
	if cfg.Lsp.Subcommand != "server" {
		t.Errorf("expected default lsp subcommand 'server', got %q", cfg.Lsp.Subcommand)
	}
	if cfg.Client.RequestTimeout != 30*time.Second {
		t.Errorf("expected default request timeout of 30s, got %v", cfg.Client.RequestTimeout)
	}
	if cfg.Client.StartupRetries != 20 {
		t.Errorf("expected 20 startup retries, got %d", cfg.Client.StartupRetries)
	}
}

func TestClone_NilReceiver(t *testing.T) {
	var cfg *TyFindConfig
	if got := cfg.Clone(); got != nil {
		t.Errorf("expected nil clone of nil receiver, got %+v", got)
	}
}

func TestClone_DeepCopiesLspArgs(t *testing.T) {
	cfg := Defaults()
	cfg.Lsp.Args = []string{"--verbose"}

	clone := cfg.Clone()
	clone.Lsp.Args[0] = "--quiet"

	if cfg.Lsp.Args[0] != "--verbose" {
		t.Errorf("mutating clone's Lsp.Args leaked into original: %v", cfg.Lsp.Args)
	}
}

func TestClone_PreservesScalarFields(t *testing.T) {
	cfg := Defaults()
	cfg.Verbose = true
	cfg.ProjectDir = "/tmp/project"

	clone := cfg.Clone()
	if clone.Verbose != true || clone.ProjectDir != "/tmp/project" {
		t.Errorf("clone did not preserve scalar fields: %+v", clone)
	}
}
