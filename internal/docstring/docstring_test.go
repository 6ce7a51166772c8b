package docstring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/getlawrence/autodocs/internal/cst"
	"github.com/getlawrence/autodocs/internal/generator"
	"github.com/getlawrence/autodocs/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *cst.Module {
	t.Helper()
	mod, err := parser.New(nil).ParseString(context.Background(), src)
	require.NoError(t, err)
	return mod
}

// run collects and transforms src, returning the printed result.
func run(t *testing.T, src string, opts Options) (string, []Change) {
	t.Helper()
	mod := parse(t, src)
	tr := NewTransformer(Collect(mod), opts)
	out, err := tr.Transform(context.Background(), mod)
	require.NoError(t, err)
	return out.Code(), tr.Changes()
}

// counter returns a generator producing "Doc 1", "Doc 2", ...
func counter() generator.Generator {
	n := 0
	return generator.Func(func(context.Context, generator.Request) (string, error) {
		n++
		return fmt.Sprintf("Doc %d", n), nil
	})
}

func TestTransform_Scenario(t *testing.T) {
	src := "def f():\n    x = 1\n"
	want := "def f():\n    \"\"\"PLACEHOLDER\"\"\"\n    x = 1\n"

	got, changes := run(t, src, Options{})
	assert.Equal(t, want, got)
	require.Len(t, changes, 1)
	assert.Equal(t, ActionInsert, changes[0].Action)
	assert.Equal(t, QualifiedName{"f"}, changes[0].Path)

	again, changes := run(t, got, Options{})
	assert.Equal(t, want, again)
	assert.Empty(t, changes)

	updated, changes := run(t, got, Options{Update: true, Generator: generator.Constant("Fresh text.")})
	assert.Equal(t, "def f():\n    \"\"\"Fresh text.\"\"\"\n    x = 1\n", updated)
	require.Len(t, changes, 1)
	assert.Equal(t, ActionReplace, changes[0].Action)
	assert.Equal(t, "PLACEHOLDER", changes[0].Previous)
}

func TestCollect_Nesting(t *testing.T) {
	src := `class A:
    def b(self):
        """Has docs."""
        class C:
            def d(self):
                pass
`
	reg := Collect(parse(t, src))

	paths := reg.Paths()
	require.Len(t, paths, 4)
	assert.Equal(t, []QualifiedName{{"A"}, {"A", "b"}, {"A", "b", "C"}, {"A", "b", "C", "d"}}, paths)

	for _, p := range paths {
		e, ok := reg.Lookup(p)
		require.True(t, ok, p.String())
		if p.String() == "A.b" {
			assert.Equal(t, Entry{Status: Present, Text: "Has docs."}, e)
		} else {
			assert.Equal(t, Missing, e.Status, p.String())
		}
	}
}

func TestCollect_Statuses(t *testing.T) {
	src := `def present():
    """Text."""

def empty():
    """"""

def blank():
    '''   '''

def missing():
    return 1

def concatenated():
    "a" "b"

def bytes_literal():
    b"raw"

if True:
    def guarded():
        "Guarded."
`
	reg := Collect(parse(t, src))
	tests := map[string]Status{
		"present":       Present,
		"empty":         Empty,
		"blank":         Empty,
		"missing":       Missing,
		"concatenated":  Missing,
		"bytes_literal": Missing,
		"guarded":       Present,
	}
	for name, want := range tests {
		e, ok := reg.Lookup(QualifiedName{name})
		require.True(t, ok, name)
		assert.Equal(t, want, e.Status, name)
	}
	assert.Equal(t, 7, reg.Len())
	assert.Equal(t, 2, reg.Count(Present))
}

func TestTransform_Coverage(t *testing.T) {
	src := `import os


class Outer(Base):
    x = 1

    @property
    def value(self):
        return self._v

    @value.setter
    def value(self, v):
        """Set it."""
        self._v = v

    class Inner:
        def deep(self): return 1


def top(a, b=2):
    if a:
        def local():
            pass
    try:
        pass
    except Exception:
        class Err:
            pass
    return a
`
	got, _ := run(t, src, Options{})
	reg := Collect(parse(t, got))
	for _, p := range reg.Paths() {
		for i, e := range reg.Occurrences(p) {
			assert.Equal(t, Present, e.Status, "%s occurrence %d", p, i)
		}
	}
	assert.Equal(t, 8, reg.Len())
	assert.Len(t, reg.Occurrences(QualifiedName{"Outer", "value"}), 2)

	// The documented setter keeps its own text.
	setter := reg.Occurrences(QualifiedName{"Outer", "value"})[1]
	assert.Equal(t, "Set it.", setter.Text)

	again, changes := run(t, got, Options{})
	assert.Equal(t, got, again)
	assert.Empty(t, changes)
}

func TestTransform_NestedOutput(t *testing.T) {
	src := "class A:\n    def b(self):\n        class C:\n            def d(self):\n                pass\n"
	want := `class A:
    """PLACEHOLDER"""
    def b(self):
        """PLACEHOLDER"""
        class C:
            """PLACEHOLDER"""
            def d(self):
                """PLACEHOLDER"""
                pass
`
	got, changes := run(t, src, Options{})
	assert.Equal(t, want, got)

	var paths []string
	for _, c := range changes {
		paths = append(paths, c.Path.String())
	}
	// Post-order: innermost definitions are finished first.
	assert.Equal(t, []string{"A.b.C.d", "A.b.C", "A.b", "A"}, paths)
}

func TestTransform_UntouchedBodiesAreByteIdentical(t *testing.T) {
	documented := `class Kept:
    '''Keep me.'''   # trailing

    def method(self):  # header comment
        r"""Also kept."""
        return  1
`
	src := documented + "\n\ndef bare():\n    pass\n"
	got, changes := run(t, src, Options{})
	require.Len(t, changes, 1)
	assert.True(t, strings.HasPrefix(got, documented), got)
	assert.Equal(t, src[:len(documented)], got[:len(documented)])
}

func TestTransform_UpdateReplacesNotDuplicates(t *testing.T) {
	src := `class A:
    # about A
    """Old class doc."""
    def m(self):
        """Old method doc."""
        return 1
`
	got, changes := run(t, src, Options{Update: true, Generator: counter()})
	want := `class A:
    # about A
    """Doc 2"""
    def m(self):
        """Doc 1"""
        return 1
`
	assert.Equal(t, want, got)
	require.Len(t, changes, 2)
	for _, c := range changes {
		assert.Equal(t, ActionReplace, c.Action)
	}

	mod := parse(t, got)
	class := mod.Body[0].(*cst.ClassDef)
	docs := 0
	for _, s := range class.Body.Statements() {
		if _, ok := cst.DocstringLiteral(s); ok {
			docs++
		}
	}
	assert.Equal(t, 1, docs)
}

func TestTransform_EmptyBodyAfterRemoval(t *testing.T) {
	src := "def f():\n    \"\"\"Only a docstring.\"\"\"\n\nclass A:\n    '''Only this.'''\n"
	got, changes := run(t, src, Options{Update: true})
	assert.Equal(t, "def f():\n    \"\"\"PLACEHOLDER\"\"\"\n\nclass A:\n    \"\"\"PLACEHOLDER\"\"\"\n", got)
	assert.Len(t, changes, 2)
}

func TestTransform_ConcatenatedDocstringTreatedAsMissing(t *testing.T) {
	src := "def f():\n    \"part one \" \"part two\"\n    return 1\n"
	got, changes := run(t, src, Options{Update: true})
	assert.Equal(t, "def f():\n    \"\"\"PLACEHOLDER\"\"\"\n    \"part one \" \"part two\"\n    return 1\n", got)
	require.Len(t, changes, 1)
	assert.Equal(t, ActionInsert, changes[0].Action)
}

func TestTransform_DocstringShapes(t *testing.T) {
	src := "def f():\n    \"\"\"doc\"\"\"; x = 1  # keep\n\ndef g():\n    (\"doc\")\n    return 1\n"

	got, changes := run(t, src, Options{})
	assert.Equal(t, src, got)
	assert.Empty(t, changes)

	got, changes = run(t, src, Options{Update: true})
	want := "def f():\n    \"\"\"PLACEHOLDER\"\"\"\n    x = 1  # keep\n\ndef g():\n    \"\"\"PLACEHOLDER\"\"\"\n    return 1\n"
	assert.Equal(t, want, got)
	require.Len(t, changes, 2)
	assert.Equal(t, ActionReplace, changes[0].Action)
	assert.Equal(t, "doc", changes[0].Previous)

	got, _ = run(t, "def h(): \"doc\"; return 1\n", Options{Update: true})
	assert.Equal(t, "def h():\n    \"\"\"PLACEHOLDER\"\"\"\n    return 1\n", got)
}

func TestTransform_ExistingTextIsUnescaped(t *testing.T) {
	text := `Matches "\d+" in C:\tmp and """quoted""".`
	var existing []string
	gen := generator.Func(func(_ context.Context, req generator.Request) (string, error) {
		existing = append(existing, req.Existing)
		return req.Existing, nil
	})

	first, _ := run(t, "def f():\n    pass\n", Options{Generator: generator.Constant(text)})
	assert.Contains(t, first, `\\d+`)

	e, ok := Collect(parse(t, first)).Lookup(QualifiedName{"f"})
	require.True(t, ok)
	assert.Equal(t, text, e.Text)

	again, _ := run(t, first, Options{Update: true, Generator: gen})
	assert.Equal(t, first, again)
	assert.Equal(t, []string{text}, existing)
}

func TestTransform_OneLineBodies(t *testing.T) {
	src := "class A:\n    def f(self): return 1  # one\n\ndef g(): pass\n"
	want := "class A:\n    \"\"\"PLACEHOLDER\"\"\"\n    def f(self):\n        \"\"\"PLACEHOLDER\"\"\"\n        return 1  # one\n\ndef g():\n    \"\"\"PLACEHOLDER\"\"\"\n    pass\n"
	got, _ := run(t, src, Options{})
	assert.Equal(t, want, got)

	onlyDoc := "def h(): \"Doc.\"\n"
	got, _ = run(t, onlyDoc, Options{Update: true})
	assert.Equal(t, "def h():\n    \"\"\"PLACEHOLDER\"\"\"\n", got)

	got, changes := run(t, onlyDoc, Options{})
	assert.Equal(t, onlyDoc, got)
	assert.Empty(t, changes)
}

func TestTransform_FormattingFollowsFile(t *testing.T) {
	got, _ := run(t, "def f():\r\n\tx = 1\r\n", Options{})
	assert.Equal(t, "def f():\r\n\t\"\"\"PLACEHOLDER\"\"\"\r\n\tx = 1\r\n", got)

	got, _ = run(t, "def f():\n  x = 1\n", Options{Quote: "'''"})
	assert.Equal(t, "def f():\n  '''PLACEHOLDER'''\n  x = 1\n", got)
}

func TestTransform_RequestCarriesContext(t *testing.T) {
	var reqs []generator.Request
	gen := generator.Func(func(_ context.Context, req generator.Request) (string, error) {
		reqs = append(reqs, req)
		return "ok", nil
	})
	src := "class A:\n    def m(self):\n        \"\"\"Old.\"\"\"\n        return 1\n"
	_, err := Transform(context.Background(), parse(t, src), Collect(parse(t, src)), Options{
		Update: true, Generator: gen, Language: "python", File: "a.py",
	})
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, []string{"A", "m"}, reqs[0].Path)
	assert.Equal(t, "m", reqs[0].Name)
	assert.Equal(t, cst.KindFunction, reqs[0].Kind)
	assert.Equal(t, "Old.", reqs[0].Existing)
	assert.Equal(t, "def m(self):\n        \"\"\"Old.\"\"\"\n        return 1\n", reqs[0].Source)
	assert.Equal(t, "python", reqs[0].Language)
	assert.Equal(t, "a.py", reqs[0].File)

	assert.Equal(t, "A", reqs[1].QualifiedName())
	assert.Equal(t, cst.KindClass, reqs[1].Kind)
}

func TestTransform_ConfirmCanDecline(t *testing.T) {
	src := "def keep():\n    pass\n\ndef skip():\n    pass\n"
	confirm := func(_ context.Context, c Change) (bool, error) {
		return c.Path.Name() == "keep", nil
	}
	got, changes := run(t, src, Options{Confirm: confirm})
	assert.Equal(t, "def keep():\n    \"\"\"PLACEHOLDER\"\"\"\n    pass\n\ndef skip():\n    pass\n", got)
	require.Len(t, changes, 1)
	assert.Equal(t, "keep", changes[0].Path.String())
}

func TestTransform_ErrorsLeaveInputUntouched(t *testing.T) {
	src := "def a():\n    pass\n\ndef b():\n    pass\n"
	mod := parse(t, src)
	boom := errors.New("boom")
	gen := generator.Func(func(_ context.Context, req generator.Request) (string, error) {
		if req.Name == "b" {
			return "", boom
		}
		return "fine", nil
	})

	tr := NewTransformer(Collect(mod), Options{Generator: gen})
	out, err := tr.Transform(context.Background(), mod)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, out)
	assert.Empty(t, tr.Changes())
	assert.Equal(t, src, mod.Code())

	confirmErr := errors.New("no tty")
	_, err = Transform(context.Background(), mod, Collect(mod), Options{
		Confirm: func(context.Context, Change) (bool, error) { return false, confirmErr },
	})
	require.ErrorIs(t, err, confirmErr)
}

func TestTransform_StructuralMismatch(t *testing.T) {
	mod := &cst.Module{Body: []cst.Statement{
		&cst.FunctionDef{Header: "def broken():", Name: "broken"},
	}}
	_, err := Transform(context.Background(), mod, Collect(mod), Options{})
	require.ErrorIs(t, err, ErrStructuralMismatch)
	assert.Contains(t, err.Error(), "broken")

	var typedNil *cst.IndentedBlock
	mod = &cst.Module{Body: []cst.Statement{
		&cst.FunctionDef{Header: "def nil_block():", Name: "nil_block", Body: typedNil},
	}}
	_, err = Transform(context.Background(), mod, Collect(mod), Options{})
	require.ErrorIs(t, err, ErrStructuralMismatch)

	for _, body := range []cst.Suite{(*cst.FrozenBlock)(nil), (*cst.SimpleSuite)(nil)} {
		mod = &cst.Module{Body: []cst.Statement{
			&cst.ClassDef{Header: "class Broken:", Name: "Broken", Body: body},
		}}
		reg := Collect(mod)
		e, ok := reg.Lookup(QualifiedName{"Broken"})
		require.True(t, ok)
		assert.Equal(t, Missing, e.Status)
		_, err = Transform(context.Background(), mod, reg, Options{})
		require.ErrorIs(t, err, ErrStructuralMismatch, "%T", body)
	}
}

func TestTransform_CancelledContext(t *testing.T) {
	mod := parse(t, "def f():\n    pass\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Transform(ctx, mod, Collect(mod), Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransform_FrozenBlockIsRebuilt(t *testing.T) {
	mod := parse(t, "class A:\n    def m(self):\n        pass\n")
	before := mod.Body[0].(*cst.ClassDef).Body

	out, err := Transform(context.Background(), mod, Collect(mod), Options{})
	require.NoError(t, err)

	after := out.Body[0].(*cst.ClassDef).Body.(*cst.FrozenBlock)
	assert.NotSame(t, before, after)
	assert.Equal(t, 2, after.Len())
	assert.Equal(t, 1, before.(*cst.FrozenBlock).Len())
}

func TestTransform_DuplicateNamesUseTheirOwnEntries(t *testing.T) {
	src := "def f():\n    \"\"\"First.\"\"\"\n\ndef f():\n    pass\n"
	got, changes := run(t, src, Options{})
	assert.Equal(t, "def f():\n    \"\"\"First.\"\"\"\n\ndef f():\n    \"\"\"PLACEHOLDER\"\"\"\n    pass\n", got)
	assert.Len(t, changes, 1)
}
