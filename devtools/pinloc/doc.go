// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Pinloc pins call-site locations into OrPanic calls.

The Go runtime reports the file and line of a call, but not its column. Pinloc
rewrites every

	x.OrPanic()

in the given files and directories into

	x.OrPanicAt(unwrap.Location{File: "path/to/file.go", Line: 12, Column: 7})

and refreshes the literals of existing OrPanicAt calls whose recorded
position no longer matches the code, so that a binary built with the
unwrap_panicloc tag reports exact positions. The column is that of the method
name. The unwrap import is added where needed.

Directories are walked recursively, skipping testdata, vendor and names
starting with "." or "_". Test files are skipped unless -tests is set.

By default pinloc prints the position of every call it would change. With
-l it prints the names of files it would change instead, and with -w it
rewrites them in place. With -check it exits with status 2 if any file needs
changes, which is useful in CI.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/unwrap/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
