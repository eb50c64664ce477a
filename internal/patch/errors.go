package patch

import "fmt"

// NotADocumentError reports a trigger function whose output is not a
// document scene. Swaps can only splice document content.
type NotADocumentError struct {
	Function string
}

func (e *NotADocumentError) Error() string {
	return fmt.Sprintf("function %q did not return a document", e.Function)
}

// UnresolvedTargetError reports a swap target that names no live node. The
// pass skips the swap and continues; content may legitimately outlive its
// target.
type UnresolvedTargetError struct {
	Source uint64
	Target string
}

func (e *UnresolvedTargetError) Error() string {
	return fmt.Sprintf("node %d: swap target %s does not resolve to a live node", e.Source, e.Target)
}
