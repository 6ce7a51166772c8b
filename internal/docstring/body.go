package docstring

import (
	"fmt"

	"github.com/getlawrence/autodocs/internal/cst"
)

// prependDocstring returns s with doc as its first statement, dropping the
// current first statement when replace is set. Indented blocks are edited in
// place, frozen blocks are rebuilt with their header, indent and footer, and a
// one-line suite is first expanded into an indented block at indent.
//
// A block left empty by the removal simply ends up holding doc alone.
func prependDocstring(s cst.Suite, doc *cst.SimpleStatementLine, replace bool, indent, newline string) (cst.Suite, error) {
	var blk cst.Block
	switch b := s.(type) {
	case *cst.IndentedBlock:
		if b == nil {
			return nil, ErrStructuralMismatch
		}
		blk = b
	case *cst.FrozenBlock:
		if b == nil {
			return nil, ErrStructuralMismatch
		}
		blk = b
	case *cst.SimpleSuite:
		if b == nil {
			return nil, ErrStructuralMismatch
		}
		blk = b.Expand(indent, newline)
	default:
		return nil, fmt.Errorf("%w: %T", ErrStructuralMismatch, s)
	}

	if replace {
		var old cst.Statement
		old, blk = blk.RemoveFirst()
		if old != nil {
			doc.Leading = old.LeadingLines()
			// Statements that followed the old docstring on its line stay.
			if rest := cst.DocstringRest(old); rest != nil {
				blk = blk.Prepend(rest)
			}
		}
	}
	return blk.Prepend(doc), nil
}
