package funcs

import (
	"fmt"

	"github.com/vk/htmlscene/internal/facet"
)

// UnknownFunctionError reports a call to a name with no registered (or
// currently checked-out) callable.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// TypeMismatchError reports an input whose runtime type id disagrees with
// the function's declared input type id.
type TypeMismatchError struct {
	Function string
	Expected facet.TypeID
	Actual   facet.TypeID
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("function %q: input type mismatch: expected type#%d, got type#%d",
		e.Function, int(e.Expected), int(e.Actual))
}
