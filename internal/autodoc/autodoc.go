// Package autodoc drives the docstring rewrite over files on disk.
package autodoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/getlawrence/autodocs/internal/config"
	"github.com/getlawrence/autodocs/internal/discovery"
	"github.com/getlawrence/autodocs/internal/docstring"
	"github.com/getlawrence/autodocs/internal/generator"
	"github.com/getlawrence/autodocs/internal/languages"
	"github.com/getlawrence/autodocs/internal/logger"
	"github.com/getlawrence/autodocs/internal/parser"
	"github.com/getlawrence/autodocs/internal/ui"
)

// Options configures an Autodoc.
type Options struct {
	Config    *config.Config
	Generator generator.Generator
	Logger    logger.Logger
	Languages *languages.LanguageRegistry
	// Confirm, when set and interactive mode is on, is asked before every
	// change. It receives the file being processed.
	Confirm func(file string) docstring.ConfirmFunc
	// Diffs receives the dry-run output. Defaults to os.Stdout.
	Diffs io.Writer
}

// Autodoc adds docstrings to every class and function in a set of files.
type Autodoc struct {
	cfg       *config.Config
	gen       generator.Generator
	log       logger.Logger
	languages *languages.LanguageRegistry
	confirm   func(file string) docstring.ConfirmFunc
	diffs     io.Writer
}

// Result is the outcome of processing one file.
type Result struct {
	Path     string
	Original string
	Modified string
	Changes  []docstring.Change
	// Written is set once Modified has been saved to Path.
	Written bool
}

// Changed reports whether the file content differs after the rewrite.
func (r *Result) Changed() bool {
	return r.Original != r.Modified
}

// FileError records a file that could not be processed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Summary aggregates a Run.
type Summary struct {
	Results  []*Result
	Failures []*FileError
}

// Changes counts the docstrings written across all files.
func (s *Summary) Changes() int {
	n := 0
	for _, r := range s.Results {
		n += len(r.Changes)
	}
	return n
}

// ChangedFiles counts the files whose content changed.
func (s *Summary) ChangedFiles() int {
	n := 0
	for _, r := range s.Results {
		if r.Changed() {
			n++
		}
	}
	return n
}

func New(opts Options) (*Autodoc, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = generator.New(cfg.Generator, generator.Dependencies{})
		if err != nil {
			return nil, err
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}
	registry := opts.Languages
	if registry == nil {
		registry = languages.DefaultRegistry
	}
	diffs := opts.Diffs
	if diffs == nil {
		diffs = os.Stdout
	}
	return &Autodoc{
		cfg:       cfg,
		gen:       gen,
		log:       log,
		languages: registry,
		confirm:   opts.Confirm,
		diffs:     diffs,
	}, nil
}

// ProcessFile rewrites the file at path in memory. Nothing is written.
func (a *Autodoc) ProcessFile(ctx context.Context, path string) (*Result, error) {
	plugin, ok := a.languages.ForFile(path)
	if !ok {
		plugin, _ = a.languages.Get("python")
	}
	return a.process(ctx, path, plugin)
}

func (a *Autodoc) process(ctx context.Context, path string, plugin languages.LanguagePlugin) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mod, err := parser.New(plugin.TreeSitterLanguage()).Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	reg := docstring.Collect(mod)
	opts := docstring.Options{
		Update:    a.cfg.Run.Update,
		Generator: a.gen,
		Quote:     a.cfg.QuoteDelimiter(),
		Language:  plugin.ID(),
		File:      path,
	}
	if a.cfg.Run.Interactive && a.confirm != nil {
		opts.Confirm = a.confirm(path)
	}

	t := docstring.NewTransformer(reg, opts)
	out, err := t.Transform(ctx, mod)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:     path,
		Original: string(src),
		Modified: out.Code(),
		Changes:  t.Changes(),
	}, nil
}

// Apply saves a changed result, or prints its diff in dry-run mode.
func (a *Autodoc) Apply(r *Result) error {
	if !r.Changed() {
		return nil
	}
	if a.cfg.Run.DryRun {
		diff, err := ui.RenderDiff(displayPath(r.Path), r.Original, r.Modified, a.cfg.Output.Color)
		if err != nil {
			return fmt.Errorf("failed to render diff: %w", err)
		}
		_, err = io.WriteString(a.diffs, diff)
		return err
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(r.Path); err == nil {
		mode = info.Mode().Perm()
	}

	if a.cfg.Run.Backup {
		backupPath := r.Path + ".bak"
		if err := os.WriteFile(backupPath, []byte(r.Original), mode); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := os.WriteFile(r.Path, []byte(r.Modified), mode); err != nil {
		return fmt.Errorf("failed to write modified file: %w", err)
	}
	r.Written = true
	return nil
}

// Run discovers the files under targets and processes them concurrently.
// A failing file is recorded in the summary and does not stop the others;
// the returned error is reserved for discovery failures, cancellation and
// an aborted interactive session.
func (a *Autodoc) Run(ctx context.Context, targets []string) (*Summary, error) {
	finder, err := discovery.NewFinder(a.cfg, a.languages)
	if err != nil {
		return nil, err
	}
	files, err := finder.Find(targets)
	if err != nil {
		return nil, err
	}
	a.log.Logf("Found %d source files\n", len(files))

	workers := a.cfg.Run.Workers
	if workers < 1 || a.cfg.Run.Interactive {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary = &Summary{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.log.Logf("Processing %s\n", displayPath(file.Path))

			res, err := a.process(gctx, file.Path, file.Language)
			if err == nil && !a.cfg.Run.DryRun {
				err = a.Apply(res)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if errors.Is(err, ui.ErrAborted) || ctx.Err() != nil {
					return err
				}
				a.log.Logf("Failed %s: %v\n", displayPath(file.Path), err)
				summary.Failures = append(summary.Failures, &FileError{Path: file.Path, Err: err})
				return nil
			}
			if len(res.Changes) > 0 {
				a.log.Logf("Documented %d definitions in %s\n", len(res.Changes), displayPath(file.Path))
			}
			summary.Results = append(summary.Results, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	sort.Slice(summary.Results, func(i, j int) bool { return summary.Results[i].Path < summary.Results[j].Path })
	sort.Slice(summary.Failures, func(i, j int) bool { return summary.Failures[i].Path < summary.Failures[j].Path })

	// Diffs are printed once, in path order, so concurrent workers never
	// interleave them.
	if a.cfg.Run.DryRun {
		for _, res := range summary.Results {
			if err := a.Apply(res); err != nil {
				return summary, err
			}
		}
	}
	return summary, nil
}

// displayPath shortens path relative to the working directory when it is
// below it.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
