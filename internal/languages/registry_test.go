package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	p, ok := DefaultRegistry.Get("python")
	require.True(t, ok)
	assert.Equal(t, "Python", p.DisplayName())
	assert.NotNil(t, p.TreeSitterLanguage())
	assert.Equal(t, []string{"python"}, DefaultRegistry.IDs())
}

func TestLookup(t *testing.T) {
	r := NewLanguageRegistry()
	r.Register(NewPythonPlugin())

	tests := []struct {
		path string
		want bool
	}{
		{"pkg/mod.py", true},
		{"pkg/STUBS.PYI", true},
		{"scripts/run.pyw", true},
		{"main.go", false},
		{"README", false},
	}
	for _, tt := range tests {
		_, ok := r.ForFile(tt.path)
		assert.Equal(t, tt.want, ok, tt.path)
	}

	p, ok := r.ForEnryName("Python")
	require.True(t, ok)
	assert.Equal(t, "python", p.ID())
	_, ok = r.ForEnryName("Go")
	assert.False(t, ok)

	all := r.All()
	delete(all, "python")
	_, ok = r.Get("python")
	assert.True(t, ok)
}
