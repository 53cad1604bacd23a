// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"fmt"
	"go/ast"
	"go/types"
	"log/slog"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"go.astrophena.name/unwrap/logger"
)

// position is a line and column in a source file.
type position struct {
	line, column int
}

// carriers maps a canonical file name to the positions of the method names
// of OrPanic and OrPanicAt calls made on unwrap.Result or unwrap.Option.
type carriers map[string]map[position]bool

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo

// load type-checks the packages in dirs, including their tests, and finds
// the calls pinloc may rewrite. Packages that fail to type-check are still
// searched; calls whose receiver cannot be resolved are left alone.
func load(ctx context.Context, dirs []string) (carriers, error) {
	log := logger.Get(ctx).WithGroup("load")

	found := make(carriers)
	for _, dir := range dirs {
		cfg := &packages.Config{
			Context: ctx,
			Mode:    loadMode,
			Dir:     dir,
			Tests:   true,
		}
		pkgs, err := packages.Load(cfg, ".")
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", dir, err)
		}
		for _, pkg := range pkgs {
			for _, perr := range pkg.Errors {
				logger.Warn(ctx, "unresolved calls are left alone",
					slog.String("package", pkg.ID),
					slog.String("error", perr.Error()),
				)
			}
			if pkg.TypesInfo == nil {
				continue
			}
			var n int
			for _, f := range pkg.Syntax {
				name := canonical(pkg.Fset.File(f.Pos()).Name())
				if found[name] == nil {
					found[name] = make(map[position]bool)
				}
				for _, call := range candidates(f) {
					sel := call.Fun.(*ast.SelectorExpr)
					if !isCarrierMethod(pkg.TypesInfo.Selections[sel]) {
						continue
					}
					p := pkg.Fset.Position(sel.Sel.Pos())
					found[name][position{p.Line, p.Column}] = true
					n++
				}
			}
			log.Debug("loaded", "package", pkg.ID, "calls", n)
		}
	}
	return found, nil
}

// isCarrierMethod reports whether sel is a method of unwrap.Result or
// unwrap.Option. Calls through the Unwrapper interface don't qualify, as
// the interface has no OrPanicAt.
func isCarrierMethod(sel *types.Selection) bool {
	if sel == nil || sel.Kind() != types.MethodVal {
		return false
	}
	recv := types.Unalias(sel.Recv())
	if ptr, ok := recv.(*types.Pointer); ok {
		recv = types.Unalias(ptr.Elem())
	}
	named, ok := recv.(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	if obj.Pkg() == nil || obj.Pkg().Path() != importPath {
		return false
	}
	return obj.Name() == "Result" || obj.Name() == "Option"
}

// canonical returns an absolute, symlink-free form of path, so that names
// reported by the go command match the ones given on the command line.
func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path
}

// logFile returns a logger that tags records with file.
func logFile(ctx context.Context, file string) *slog.Logger {
	return logger.Get(ctx).With(slog.String("file", file))
}
