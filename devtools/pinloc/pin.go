// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"go.astrophena.name/unwrap"
)

const importPath = "go.astrophena.name/unwrap"

// maxPasses bounds the rewrite loop. Each pass can only move positions
// that follow a changed literal on the same line, or shift everything below
// an added import, so real files settle in two or three.
const maxPasses = 8

// pin rewrites the calls in src whose method names sit at one of the
// positions in calls, recording filename in the location literals. It
// returns the new source and the positions in src of the calls it changed.
// If nothing needs changing, out is src itself.
func pin(filename string, src []byte, calls map[position]bool) (out []byte, sites []unwrap.Location, err error) {
	out = src
	// Rewriting keeps every candidate call in place, so the ones chosen on
	// the first pass keep their index in later passes.
	var chosen map[int]bool
	for pass := range maxPasses {
		fset := token.NewFileSet()
		f, err := parser.ParseFile(fset, filename, out, parser.ParseComments)
		if err != nil {
			return nil, nil, err
		}
		if pass == 0 {
			chosen = make(map[int]bool)
			for i, call := range candidates(f) {
				p := fset.Position(call.Fun.(*ast.SelectorExpr).Sel.Pos())
				if calls[position{p.Line, p.Column}] {
					chosen[i] = true
				}
			}
		}
		changed := rewrite(fset, f, filename, chosen)
		if pass == 0 {
			sites = changed
		}
		if len(changed) == 0 {
			return out, sites, nil
		}
		var buf bytes.Buffer
		if err := format.Node(&buf, fset, f); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filename, err)
		}
		out = buf.Bytes()
	}
	return nil, nil, fmt.Errorf("%s: locations did not settle after %d passes", filename, maxPasses)
}

// candidates returns the OrPanic and OrPanicAt method calls of f in source
// order, whatever their receiver.
func candidates(f *ast.File) []*ast.CallExpr {
	var calls []*ast.CallExpr
	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if sel, ok := call.Fun.(*ast.SelectorExpr); ok && (sel.Sel.Name == "OrPanic" || sel.Sel.Name == "OrPanicAt") {
			calls = append(calls, call)
		}
		return true
	})
	return calls
}

// rewrite pins the chosen candidate calls in f and returns the positions
// of the ones it changed.
func rewrite(fset *token.FileSet, f *ast.File, filename string, chosen map[int]bool) []unwrap.Location {
	qual, imported := qualifier(f)

	var changed []unwrap.Location
	for i, call := range candidates(f) {
		if !chosen[i] || call.Ellipsis.IsValid() {
			continue
		}
		sel := call.Fun.(*ast.SelectorExpr)
		pos := fset.Position(sel.Sel.Pos())
		want := unwrap.Location{File: filename, Line: pos.Line, Column: pos.Column}

		switch {
		case sel.Sel.Name == "OrPanic" && len(call.Args) == 0:
		case sel.Sel.Name == "OrPanicAt" && len(call.Args) == 1:
			lit, ok := call.Args[0].(*ast.CompositeLit)
			if !ok || !isLocationType(lit.Type, qual) {
				continue
			}
			if got, ok := literalLocation(lit); !ok || got == want {
				continue
			}
		default:
			continue
		}

		sel.Sel.Name = "OrPanicAt"
		call.Args = []ast.Expr{locationLiteral(qual, want)}
		changed = append(changed, want)
	}

	if len(changed) > 0 && !imported {
		astutil.AddImport(fset, f, importPath)
	}
	return changed
}

// qualifier returns the name under which f refers to the unwrap package and
// whether f already has access to it.
func qualifier(f *ast.File) (qual string, imported bool) {
	for _, imp := range f.Imports {
		if path, _ := strconv.Unquote(imp.Path.Value); path != importPath {
			continue
		}
		if imp.Name == nil {
			return "unwrap", true
		}
		switch imp.Name.Name {
		case "_":
			continue
		case ".":
			return "", true
		default:
			return imp.Name.Name, true
		}
	}
	// Files of package unwrap itself.
	if f.Name.Name == "unwrap" {
		return "", true
	}
	return "unwrap", false
}

func isLocationType(typ ast.Expr, qual string) bool {
	switch typ := typ.(type) {
	case *ast.Ident:
		return qual == "" && typ.Name == "Location"
	case *ast.SelectorExpr:
		x, ok := typ.X.(*ast.Ident)
		return ok && x.Name == qual && typ.Sel.Name == "Location"
	}
	return false
}

// literalLocation reads a Location literal written with keyed constant
// fields. It reports false for anything else, which is left alone.
func literalLocation(lit *ast.CompositeLit) (loc unwrap.Location, ok bool) {
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			return loc, false
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			return loc, false
		}
		val, ok := kv.Value.(*ast.BasicLit)
		if !ok {
			return loc, false
		}
		var err error
		switch {
		case key.Name == "File" && val.Kind == token.STRING:
			loc.File, err = strconv.Unquote(val.Value)
		case key.Name == "Line" && val.Kind == token.INT:
			loc.Line, err = strconv.Atoi(val.Value)
		case key.Name == "Column" && val.Kind == token.INT:
			loc.Column, err = strconv.Atoi(val.Value)
		default:
			return loc, false
		}
		if err != nil {
			return loc, false
		}
	}
	return loc, true
}

func locationLiteral(qual string, loc unwrap.Location) *ast.CompositeLit {
	var typ ast.Expr = ast.NewIdent("Location")
	if qual != "" {
		typ = &ast.SelectorExpr{X: ast.NewIdent(qual), Sel: ast.NewIdent("Location")}
	}
	field := func(name string, kind token.Token, value string) ast.Expr {
		return &ast.KeyValueExpr{
			Key:   ast.NewIdent(name),
			Value: &ast.BasicLit{Kind: kind, Value: value},
		}
	}
	return &ast.CompositeLit{
		Type: typ,
		Elts: []ast.Expr{
			field("File", token.STRING, strconv.Quote(loc.File)),
			field("Line", token.INT, strconv.Itoa(loc.Line)),
			field("Column", token.INT, strconv.Itoa(loc.Column)),
		},
	}
}
