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

// Package workspace provides the small fallback used when the CLI isn't
// told which project directory to operate on. Marker-file detection proper
// is named an external collaborator in spec.md §1 — real deployments are
// expected to pass --project-dir explicitly; this exists only so the tool
// has a sane default.
package workspace

import (
	"os"
	"path/filepath"
)

// markers are checked, in order, in each candidate directory while walking
// up from the starting point.
var markers = []string{
	"pyproject.toml",
	"setup.py",
	"setup.cfg",
	"requirements.txt",
	"Pipfile",
	"poetry.lock",
	".git",
}

// DetectRoot walks up from startDir looking for any marker file, returning
// the first directory that contains one. If none is found, startDir itself
// is returned.
func DetectRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}
