// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package version reports the version of the running binary.
package version

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// CmdName returns the base name of the current binary, without the ".exe"
// suffix on Windows.
func CmdName() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return strings.TrimSuffix(filepath.Base(exe), ".exe")
}

// Version returns a one-line description of the binary: its name, module
// version and the VCS revision it was built from, if known.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return CmdName() + " (unknown)\n"
	}
	v := info.Main.Version
	if v == "" {
		v = "(devel)"
	}
	var rev, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" {
		v += " " + rev + dirty
	}
	return CmdName() + " " + v + " " + info.GoVersion + "\n"
}
