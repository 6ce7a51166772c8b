package docstring

import "github.com/getlawrence/autodocs/internal/cst"

// Collect walks m and records, for every class and function at any depth,
// whether its body starts with a docstring. The tree is not modified.
func Collect(m *cst.Module) *Registry {
	c := &collector{reg: NewRegistry()}
	c.statements(m.Body)
	return c.reg
}

type collector struct {
	reg   *Registry
	stack QualifiedName
}

func (c *collector) statements(stmts []cst.Statement) {
	for _, s := range stmts {
		switch st := s.(type) {
		case cst.Definition:
			c.definition(st)
		case *cst.CompoundStatement:
			for _, cl := range st.Clauses {
				if !cst.IsNil(cl.Body) {
					c.statements(cl.Body.Statements())
				}
			}
		}
	}
}

func (c *collector) definition(def cst.Definition) {
	c.stack = append(c.stack, def.Identifier())
	defer func() { c.stack = c.stack[:len(c.stack)-1] }()

	c.reg.Record(c.stack, entryFor(def.Suite()))
	if body := def.Suite(); !cst.IsNil(body) {
		c.statements(body.Statements())
	}
}

func entryFor(s cst.Suite) Entry {
	text, ok := cst.Docstring(s)
	switch {
	case !ok:
		return Entry{Status: Missing}
	case text == "":
		return Entry{Status: Empty}
	default:
		return Entry{Status: Present, Text: text}
	}
}
