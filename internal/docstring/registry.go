package docstring

import "fmt"

// Status is what the collector found at the top of a definition body.
type Status int

const (
	Missing Status = iota
	Empty
	Present
)

func (s Status) String() string {
	switch s {
	case Missing:
		return "missing"
	case Empty:
		return "empty"
	case Present:
		return "present"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry is the registry record for one definition.
type Entry struct {
	Status Status
	// Text is the cleaned docstring text when Status is Present.
	Text string
}

// Exists reports whether a documentation statement is physically there.
func (e Entry) Exists() bool {
	return e.Status != Missing
}

// Registry maps qualified names to what the collector found. A name that
// occurs more than once in a file, such as a property getter and its setter,
// keeps one entry per occurrence in visiting order.
type Registry struct {
	entries map[string][]Entry
	paths   []QualifiedName
	total   int
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string][]Entry)}
}

// Record appends an occurrence for path.
func (r *Registry) Record(path QualifiedName, e Entry) {
	key := path.Key()
	if _, ok := r.entries[key]; !ok {
		r.paths = append(r.paths, append(QualifiedName(nil), path...))
	}
	r.entries[key] = append(r.entries[key], e)
	r.total++
}

// Lookup returns the entry of the first occurrence of path.
func (r *Registry) Lookup(path QualifiedName) (Entry, bool) {
	return r.Occurrence(path, 0)
}

// Occurrence returns the entry recorded for the i-th definition named path.
func (r *Registry) Occurrence(path QualifiedName, i int) (Entry, bool) {
	list := r.entries[path.Key()]
	if i < 0 || i >= len(list) {
		return Entry{}, false
	}
	return list[i], true
}

// Occurrences returns every entry recorded for path.
func (r *Registry) Occurrences(path QualifiedName) []Entry {
	return append([]Entry(nil), r.entries[path.Key()]...)
}

// Paths returns the distinct names in first-visit order.
func (r *Registry) Paths() []QualifiedName {
	return append([]QualifiedName(nil), r.paths...)
}

// Len returns the number of recorded definitions, counting repeats.
func (r *Registry) Len() int {
	return r.total
}

// Count returns how many recorded definitions have the given status.
func (r *Registry) Count(s Status) int {
	n := 0
	for _, list := range r.entries {
		for _, e := range list {
			if e.Status == s {
				n++
			}
		}
	}
	return n
}
