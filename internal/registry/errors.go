package registry

import "fmt"

// UnknownTypeError reports a name with no registered descriptor.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Name)
}

// InvalidParamTypeError reports a generic suffix whose parameter does not
// name a registered type.
type InvalidParamTypeError struct {
	Attr  string
	Param string
}

func (e *InvalidParamTypeError) Error() string {
	return fmt.Sprintf("attribute %q: invalid associated type %q", e.Attr, e.Param)
}
