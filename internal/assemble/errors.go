package assemble

import "fmt"

// UnknownTagError reports an element whose tag names no registered type.
// Tags are type names; there is no pass-through for unrecognized markup.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q", e.Tag)
}
