package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getlawrence/autodocs/internal/config"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func relPaths(t *testing.T, root string, files []File) []string {
	t.Helper()
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func find(t *testing.T, cfg *config.Config, targets ...string) []File {
	t.Helper()
	f, err := NewFinder(cfg, nil)
	require.NoError(t, err)
	files, err := f.Find(targets)
	require.NoError(t, err)
	return files
}

var tree = map[string]string{
	"app.py":                      "def main():\n    pass\n",
	"pkg/__init__.py":             "",
	"pkg/models.py":               "class Model:\n    pass\n",
	"pkg/stubs.pyi":               "def f() -> int: ...\n",
	"pkg/deep/inner/leaf.py":      "x = 1\n",
	"pkg/test_models.py":          "def test():\n    pass\n",
	"bin/run":                     "#!/usr/bin/env python3\nprint('hi')\n",
	"bin/deploy":                  "#!/bin/sh\necho hi\n",
	"README.md":                   "# readme\n",
	"main.go":                     "package main\n",
	".hidden.py":                  "x = 1\n",
	".venv/lib/site.py":           "x = 1\n",
	"__pycache__/app.cpython.pyc": "",
	"node_modules/y.py":           "x = 1\n",
}

func TestFindDefaults(t *testing.T) {
	root := writeTree(t, tree)
	files := find(t, config.DefaultConfig(), root)

	assert.Equal(t, []string{
		"app.py",
		"bin/run",
		"pkg/__init__.py",
		"pkg/deep/inner/leaf.py",
		"pkg/models.py",
		"pkg/stubs.pyi",
		"pkg/test_models.py",
	}, relPaths(t, root, files))
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
		assert.Equal(t, "python", f.Language.ID())
	}
}

func TestFindExcludeGlobs(t *testing.T) {
	root := writeTree(t, tree)
	cfg := config.DefaultConfig()
	cfg.Discovery.ExcludeGlobs = []string{"test_*.py", "pkg/deep/**"}

	assert.Equal(t, []string{
		"app.py",
		"bin/run",
		"pkg/__init__.py",
		"pkg/models.py",
		"pkg/stubs.pyi",
	}, relPaths(t, root, find(t, cfg, root)))
}

func TestFindMaxDepthAndHidden(t *testing.T) {
	root := writeTree(t, tree)
	cfg := config.DefaultConfig()
	cfg.Discovery.MaxDepth = 2
	cfg.Discovery.IncludeHidden = true
	cfg.Discovery.ExcludePaths = []string{".venv"}

	assert.Equal(t, []string{
		".hidden.py",
		"app.py",
		"bin/run",
		"node_modules/y.py",
		"pkg/__init__.py",
		"pkg/models.py",
		"pkg/stubs.pyi",
		"pkg/test_models.py",
	}, relPaths(t, root, find(t, cfg, root)))

	cfg.Discovery.MaxDepth = 1
	assert.Equal(t, []string{".hidden.py", "app.py"}, relPaths(t, root, find(t, cfg, root)))
}

func TestFindLanguageConfig(t *testing.T) {
	root := writeTree(t, tree)
	cfg := config.DefaultConfig()
	cfg.Languages["python"] = config.LanguageConfig{Enabled: true, Extensions: []string{".pyi"}}
	assert.Equal(t, []string{"bin/run", "pkg/stubs.pyi"}, relPaths(t, root, find(t, cfg, root)))

	cfg.Languages["python"] = config.LanguageConfig{Enabled: false}
	assert.Empty(t, find(t, cfg, root))
}

func TestFindTargets(t *testing.T) {
	root := writeTree(t, tree)
	cfg := config.DefaultConfig()

	files := find(t, cfg,
		filepath.Join(root, "pkg"),
		filepath.Join(root, "pkg", "models.py"),
		filepath.Join(root, ".hidden.py"),
	)
	assert.Equal(t, []string{
		".hidden.py",
		"pkg/__init__.py",
		"pkg/deep/inner/leaf.py",
		"pkg/models.py",
		"pkg/stubs.pyi",
		"pkg/test_models.py",
	}, relPaths(t, root, files))

	f, err := NewFinder(cfg, nil)
	require.NoError(t, err)

	_, err = f.Find(nil)
	assert.Error(t, err)
	_, err = f.Find([]string{filepath.Join(root, "missing.py")})
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = f.Find([]string{filepath.Join(root, "README.md")})
	assert.ErrorContains(t, err, "not a supported source file")
}

func TestFindRelativeTarget(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "x = 1\n"})
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	defer func() { _ = os.Chdir(wd) }()

	files := find(t, config.DefaultConfig(), ".")
	require.Len(t, files, 1)
	resolved, err := filepath.EvalSymlinks(filepath.Dir(files[0].Path))
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, resolved)
}

func TestFindSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := writeTree(t, map[string]string{"real/a.py": "x = 1\n"})
	other := writeTree(t, map[string]string{"b.py": "y = 2\n"})
	require.NoError(t, os.Symlink(other, filepath.Join(root, "linked")))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "real", "loop")))

	cfg := config.DefaultConfig()
	assert.Equal(t, []string{"real/a.py"}, relPaths(t, root, find(t, cfg, root)))

	cfg.Discovery.FollowSymlinks = true
	assert.Equal(t, []string{"linked/b.py", "real/a.py"}, relPaths(t, root, find(t, cfg, root)))
}

func TestInvalidGlob(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Discovery.ExcludeGlobs = []string{"[unclosed"}
	_, err := NewFinder(cfg, nil)
	assert.Error(t, err)
}
