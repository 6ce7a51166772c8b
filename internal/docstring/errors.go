package docstring

import "errors"

var (
	// ErrStructuralMismatch is returned when a definition body is neither an
	// indented block nor a one-line suite.
	ErrStructuralMismatch = errors.New("definition body has an unrecognised structure")

	// ErrUnbalancedTraversal signals that a traversal finished with names still
	// on its stack.
	ErrUnbalancedTraversal = errors.New("qualified name stack not drained")
)
