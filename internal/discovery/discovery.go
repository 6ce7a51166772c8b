// Package discovery finds the source files autodocs should rewrite.
package discovery

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/gobwas/glob"

	"github.com/getlawrence/autodocs/internal/config"
	"github.com/getlawrence/autodocs/internal/languages"
)

// File is a discovered source file.
type File struct {
	// Path is absolute and cleaned.
	Path     string
	Language languages.LanguagePlugin
}

// Finder walks target paths according to the discovery settings.
type Finder struct {
	cfg      config.DiscoveryConfig
	registry *languages.LanguageRegistry
	excludes []glob.Glob
	dirs     map[string]bool
	exts     map[string]languages.LanguagePlugin
}

// NewFinder compiles the exclude globs and the extension table of the enabled
// languages. A nil registry selects languages.DefaultRegistry.
func NewFinder(cfg *config.Config, registry *languages.LanguageRegistry) (*Finder, error) {
	if registry == nil {
		registry = languages.DefaultRegistry
	}
	f := &Finder{
		cfg:      cfg.Discovery,
		registry: registry,
		dirs:     make(map[string]bool),
		exts:     make(map[string]languages.LanguagePlugin),
	}
	for _, pattern := range cfg.Discovery.ExcludeGlobs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude glob %q: %w", pattern, err)
		}
		f.excludes = append(f.excludes, g)
	}
	for _, name := range cfg.Discovery.ExcludePaths {
		f.dirs[name] = true
	}

	for _, id := range registry.IDs() {
		plugin, _ := registry.Get(id)
		exts := plugin.FileExtensions()
		if lc, ok := cfg.Languages[id]; ok {
			if !lc.Enabled {
				continue
			}
			if len(lc.Extensions) > 0 {
				exts = lc.Extensions
			}
		}
		for _, ext := range exts {
			f.exts[strings.ToLower(ext)] = plugin
		}
	}
	return f, nil
}

// Find resolves targets into a sorted list of unique source files. Every
// target must exist. Explicit file targets skip the exclude rules but must
// still be in a supported language.
func (f *Finder) Find(targets []string) ([]File, error) {
	if len(targets) == 0 {
		return nil, errors.New("no target paths given")
	}

	found := make(map[string]File)
	for _, target := range targets {
		abs, err := filepath.Abs(target)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", target, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", target, err)
		}

		if !info.IsDir() {
			plugin, ok := f.language(abs)
			if !ok {
				return nil, fmt.Errorf("target %s is not a supported source file", target)
			}
			found[abs] = File{Path: abs, Language: plugin}
			continue
		}

		visited := map[string]bool{}
		if err := f.walk(abs, abs, 0, visited, found); err != nil {
			return nil, err
		}
	}

	files := make([]File, 0, len(found))
	for _, file := range found {
		files = append(files, file)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (f *Finder) walk(root, dir string, depth int, visited map[string]bool, found map[string]File) error {
	if real, err := filepath.EvalSymlinks(dir); err == nil {
		if visited[real] {
			return nil
		}
		visited[real] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if f.skip(root, path, entry) {
			continue
		}

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			if !f.cfg.FollowSymlinks {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				// Dangling link
				continue
			}
			isDir = info.IsDir()
		} else if !isDir && !entry.Type().IsRegular() {
			continue
		}

		if isDir {
			if f.cfg.MaxDepth > 0 && depth+1 >= f.cfg.MaxDepth {
				continue
			}
			if err := f.walk(root, path, depth+1, visited, found); err != nil {
				return err
			}
			continue
		}

		if plugin, ok := f.language(path); ok {
			found[path] = File{Path: path, Language: plugin}
		}
	}
	return nil
}

func (f *Finder) skip(root, path string, entry fs.DirEntry) bool {
	name := entry.Name()
	if !f.cfg.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if entry.IsDir() && f.dirs[name] {
		return true
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range f.excludes {
		if g.Match(rel) || g.Match(name) {
			return true
		}
	}
	return false
}

// language picks the plugin for path by extension. Files without an
// extension are sniffed with enry, which understands shebang lines.
func (f *Finder) language(path string) (languages.LanguagePlugin, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		plugin, ok := f.exts[ext]
		return plugin, ok
	}

	head, err := readHead(path, 512)
	if err != nil || len(head) == 0 {
		return nil, false
	}
	lang := enry.GetLanguage(filepath.Base(path), head)
	if lang == "" {
		return nil, false
	}
	plugin, ok := f.registry.ForEnryName(lang)
	if !ok {
		return nil, false
	}
	for _, p := range f.exts {
		if p.ID() == plugin.ID() {
			return plugin, true
		}
	}
	// Language disabled in config
	return nil, false
}

func readHead(path string, n int) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	buf := make([]byte, n)
	read, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
