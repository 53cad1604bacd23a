// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.astrophena.name/unwrap/internal/cli"
	"go.astrophena.name/unwrap/logger"
)

// errNeedsPinning is returned by -check when some files would change.
var errNeedsPinning = errors.New("OrPanic locations are missing or stale")

func main() { cli.Main(new(app)) }

type app struct {
	write   bool
	list    bool
	check   bool
	tests   bool
	verbose bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.write, "w", false, "Write the result to the source files instead of printing call positions.")
	fs.BoolVar(&a.list, "l", false, "List files that would change instead of printing call positions.")
	fs.BoolVar(&a.check, "check", false, "Exit with status 2 if any file would change.")
	fs.BoolVar(&a.tests, "tests", false, "Also process _test.go files found in directories.")
	fs.BoolVar(&a.verbose, "v", false, "Log every processed file.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	l := logger.New(nil)
	l.Attach(logger.NewTerminalHandler(env.Stderr, l.Level, env.Getenv("NO_COLOR") == ""))
	if a.verbose {
		l.Level.Set(slog.LevelDebug)
	}
	ctx = logger.Put(ctx, l)

	if len(env.Args) == 0 {
		return fmt.Errorf("%w: no files or directories given", cli.ErrInvalidArgs)
	}

	files, err := a.collect(env.Args)
	if err != nil {
		return err
	}
	found, err := load(ctx, dirs(files))
	if err != nil {
		return err
	}

	var changed, failed int
	for _, file := range files {
		ok, err := a.process(ctx, file, found[canonical(file)])
		if err != nil {
			logger.Error(ctx, "skipped", slog.String("file", file), slog.Any("error", err))
			failed++
			continue
		}
		if ok {
			changed++
		}
	}

	if !a.write && changed > 0 {
		env.Logf("%d file(s) need pinning, run with -w to update them", changed)
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be processed", failed)
	}
	if a.check && changed > 0 {
		return &cli.ExitError{Code: 2, Err: fmt.Errorf("%w in %d file(s)", errNeedsPinning, changed)}
	}
	return nil
}

// process pins a single file and reports whether it needed changes.
func (a *app) process(ctx context.Context, file string, calls map[position]bool) (bool, error) {
	env := cli.GetEnv(ctx)
	log := logFile(ctx, file)

	src, err := os.ReadFile(file)
	if err != nil {
		return false, err
	}
	out, sites, err := pin(filepath.ToSlash(file), src, calls)
	if err != nil {
		return false, err
	}
	if bytes.Equal(src, out) {
		log.Debug("up to date")
		return false, nil
	}

	switch {
	case a.write:
		info, err := os.Stat(file)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
			return false, err
		}
		log.Info("pinned", "calls", len(sites))
	case a.list:
		fmt.Fprintln(env.Stdout, file)
	default:
		for _, loc := range sites {
			fmt.Fprintln(env.Stdout, loc)
		}
	}
	return true, nil
}

// dirs returns the directories of files, each once, in order.
func dirs(files []string) []string {
	seen := make(map[string]bool)
	var ds []string
	for _, f := range files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			ds = append(ds, d)
		}
	}
	return ds
}

// collect expands args into the list of Go files to process.
func (a *app) collect(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if path != arg && skipDir(name) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(name, ".go") {
				return nil
			}
			if !a.tests && strings.HasSuffix(name, "_test.go") {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
