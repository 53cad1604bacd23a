// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/unwrap/internal/cli"
	"go.astrophena.name/unwrap/testutil"
)

const unpinned = `package example

import "go.astrophena.name/unwrap"

func f() int {
	return unwrap.Some(42).OrPanic()
}
`

const pinnedTemplate = `package example

import "go.astrophena.name/unwrap"

func f() int {
	return unwrap.Some(42).OrPanicAt(unwrap.Location{File: "FILE", Line: 6, Column: 25})
}
`

func pinned(file string) string {
	return strings.Replace(pinnedTemplate, "FILE", filepath.ToSlash(file), 1)
}

const unpinnedTest = `package example

import "go.astrophena.name/unwrap"

func g() int {
	return unwrap.Some(42).OrPanic()
}
`

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runEnv(t, nil, args...)
}

func runEnv(t *testing.T, env map[string]string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errb bytes.Buffer
	e := &cli.Env{
		Args:   args,
		Stdout: &out,
		Stderr: &errb,
		Getenv: func(key string) string { return env[key] },
	}
	err = cli.Run(cli.WithEnv(context.Background(), e), new(app))
	return out.String(), errb.String(), err
}

// tree creates a test module holding files in its example directory and
// returns the path of that directory.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()
	prefixed := make(map[string]string, len(files))
	for name, content := range files {
		prefixed[filepath.Join("example", name)] = content
	}
	return filepath.Join(module(t, prefixed), "example")
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestNoArgs(t *testing.T) {
	_, _, err := run(t)
	if !errors.Is(err, cli.ErrInvalidArgs) {
		t.Fatalf("want cli.ErrInvalidArgs, got %v", err)
	}
}

func TestPrintSites(t *testing.T) {
	dir := tree(t, map[string]string{"a.go": unpinned})
	file := filepath.Join(dir, "a.go")

	stdout, _, err := run(t, file)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertEqual(t, stdout, filepath.ToSlash(file)+":6:25\n")
	// Nothing is written without -w.
	testutil.AssertEqual(t, read(t, file), unpinned)
}

func TestWrite(t *testing.T) {
	dir := tree(t, map[string]string{
		"a.go":            unpinned,
		"sub/b.go":        unpinned,
		"sub/b_test.go":   unpinnedTest,
		"testdata/c.go":   unpinned,
		"_ignored/d.go":   unpinned,
		".hidden/e.go":    unpinned,
		"vendor/x/f.go":   unpinned,
		"sub/notes.txt":   "OrPanic()",
		"sub/clean/ok.go": "package clean\n",
	})

	_, stderr, err := run(t, "-w", dir)
	testutil.AssertEqual(t, err, nil)

	for _, name := range []string{"a.go", filepath.Join("sub", "b.go")} {
		path := filepath.Join(dir, name)
		testutil.AssertEqual(t, read(t, path), pinned(path))
	}
	for _, name := range []string{
		filepath.Join("testdata", "c.go"),
		filepath.Join("_ignored", "d.go"),
		filepath.Join(".hidden", "e.go"),
		filepath.Join("vendor", "x", "f.go"),
	} {
		testutil.AssertEqual(t, read(t, filepath.Join(dir, name)), unpinned)
	}
	testutil.AssertEqual(t, read(t, filepath.Join(dir, "sub", "b_test.go")), unpinnedTest)
	testutil.AssertContains(t, stderr, "pinned")
}

func TestWriteTests(t *testing.T) {
	dir := tree(t, map[string]string{"a.go": "package example\n", "a_test.go": unpinnedTest})
	path := filepath.Join(dir, "a_test.go")

	_, _, err := run(t, "-w", "-tests", dir)
	testutil.AssertEqual(t, err, nil)
	want := strings.Replace(pinned(path), "func f()", "func g()", 1)
	testutil.AssertEqual(t, read(t, path), want)
}

func TestSummary(t *testing.T) {
	dir := tree(t, map[string]string{"a.go": unpinned})

	_, stderr, err := run(t, dir)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertContains(t, stderr, "1 file(s) need pinning, run with -w to update them")

	_, stderr, err = run(t, "-w", dir)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertEqual(t, strings.Contains(stderr, "need pinning"), false)
}

func TestForeignType(t *testing.T) {
	const src = `package example

type Must struct{}

func (Must) OrPanic() int { return 0 }

func f() int {
	return Must{}.OrPanic()
}
`
	dir := tree(t, map[string]string{"a.go": src})
	path := filepath.Join(dir, "a.go")

	stdout, _, err := run(t, "-w", dir)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertEqual(t, stdout, "")
	testutil.AssertEqual(t, read(t, path), src)

	_, _, err = run(t, "-check", dir)
	testutil.AssertEqual(t, err, nil)
}

func TestSkipsBrokenFile(t *testing.T) {
	dir := tree(t, map[string]string{
		"a.go":        unpinned,
		"broken/b.go": "package broken\nfunc {",
	})
	path := filepath.Join(dir, "a.go")

	_, stderr, err := run(t, "-w", dir)
	testutil.AssertContains(t, fmt.Sprint(err), "1 file(s) could not be processed")
	testutil.AssertContains(t, stderr, "skipped")
	// The good file is still pinned.
	testutil.AssertEqual(t, read(t, path), pinned(path))
}

func TestNoColor(t *testing.T) {
	dir := tree(t, map[string]string{"a.go": unpinned})

	_, stderr, err := runEnv(t, map[string]string{"NO_COLOR": "1"}, "-w", dir)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertContains(t, stderr, "pinned")
	testutil.AssertEqual(t, strings.Contains(stderr, "\x1b["), false)
}

func TestList(t *testing.T) {
	dir := tree(t, map[string]string{"a.go": unpinned, "b.go": "package example\n"})

	stdout, _, err := run(t, "-l", dir)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertEqual(t, stdout, filepath.Join(dir, "a.go")+"\n")
}

func TestCheck(t *testing.T) {
	dir := tree(t, map[string]string{"a.go": unpinned})

	_, _, err := run(t, "-check", "-l", dir)
	var ee *cli.ExitError
	if !errors.As(err, &ee) {
		t.Fatalf("want *cli.ExitError, got %v", err)
	}
	testutil.AssertEqual(t, ee.Code, 2)
	testutil.AssertEqual(t, errors.Is(err, errNeedsPinning), true)

	_, _, err = run(t, "-w", dir)
	testutil.AssertEqual(t, err, nil)

	_, _, err = run(t, "-check", dir)
	testutil.AssertEqual(t, err, nil)
}

func TestVerbose(t *testing.T) {
	dir := tree(t, map[string]string{"ok.go": "package example\n"})

	_, stderr, err := run(t, "-v", dir)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertContains(t, stderr, "up to date")
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, filepath.Join(t.TempDir(), "missing.go"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("want os.ErrNotExist, got %v", err)
	}
}
