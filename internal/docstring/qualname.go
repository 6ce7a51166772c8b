package docstring

import "strings"

// QualifiedName locates a class or function by the names of its enclosing
// definitions, outermost first. Module scope is never part of a name.
type QualifiedName []string

// Key returns a string usable as a map key. Distinct names never share a key.
func (q QualifiedName) Key() string {
	return strings.Join(q, "\x00")
}

func (q QualifiedName) String() string {
	return strings.Join(q, ".")
}

// Child returns a new name with name appended. q is left untouched.
func (q QualifiedName) Child(name string) QualifiedName {
	out := make(QualifiedName, len(q), len(q)+1)
	copy(out, q)
	return append(out, name)
}

func (q QualifiedName) Equal(o QualifiedName) bool {
	if len(q) != len(o) {
		return false
	}
	for i := range q {
		if q[i] != o[i] {
			return false
		}
	}
	return true
}

// Name returns the innermost element, or "" for an empty name.
func (q QualifiedName) Name() string {
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

// ParseQualifiedName splits a dotted name such as "A.b".
func ParseQualifiedName(s string) QualifiedName {
	if s == "" {
		return nil
	}
	return QualifiedName(strings.Split(s, "."))
}
