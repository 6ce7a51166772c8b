package languages

import (
	"path/filepath"
	"sort"
	"strings"
)

type LanguageRegistry struct {
	plugins map[string]LanguagePlugin
}

// DefaultRegistry is the global language registry used by the application.
var DefaultRegistry = NewLanguageRegistry()

func init() {
	DefaultRegistry.Register(NewPythonPlugin())
}

func NewLanguageRegistry() *LanguageRegistry {
	return &LanguageRegistry{
		plugins: make(map[string]LanguagePlugin),
	}
}

func (r *LanguageRegistry) Register(plugin LanguagePlugin) {
	r.plugins[plugin.ID()] = plugin
}

func (r *LanguageRegistry) Get(id string) (LanguagePlugin, bool) {
	p, ok := r.plugins[id]
	return p, ok
}

func (r *LanguageRegistry) All() map[string]LanguagePlugin {
	// Return a shallow copy to avoid external mutation
	out := make(map[string]LanguagePlugin, len(r.plugins))
	for k, v := range r.plugins {
		out[k] = v
	}
	return out
}

// IDs returns the registered language ids in sorted order.
func (r *LanguageRegistry) IDs() []string {
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ForEnryName finds the plugin for a language name reported by go-enry.
func (r *LanguageRegistry) ForEnryName(name string) (LanguagePlugin, bool) {
	for _, id := range r.IDs() {
		if p := r.plugins[id]; p.EnryName() == name {
			return p, true
		}
	}
	return nil, false
}

// ForFile finds the plugin whose default extensions match path.
func (r *LanguageRegistry) ForFile(path string) (LanguagePlugin, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, id := range r.IDs() {
		p := r.plugins[id]
		for _, e := range p.FileExtensions() {
			if e == ext {
				return p, true
			}
		}
	}
	return nil, false
}
