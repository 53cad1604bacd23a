// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

//go:build unwrap_trackcaller && !unwrap_panicloc

package unwrap

const (
	trackCaller   = true
	panicLocation = false
)
