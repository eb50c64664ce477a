package construct

import "fmt"

// MissingDefaultError reports a valueless attribute on a type with no
// registered default factory.
type MissingDefaultError struct {
	Type string
}

func (e *MissingDefaultError) Error() string {
	return fmt.Sprintf("type %q has no default; attribute requires a value", e.Type)
}

// MissingParserError reports a scalar literal against a leaf type with no
// registered parser.
type MissingParserError struct {
	Type string
}

func (e *MissingParserError) Error() string {
	return fmt.Sprintf("type %q has no value parser", e.Type)
}

// NonStructPatchError reports named fields supplied for a type whose shape
// has no named fields.
type NonStructPatchError struct {
	Type string
}

func (e *NonStructPatchError) Error() string {
	return fmt.Sprintf("type %q: named fields are only valid for struct types", e.Type)
}

// DeserializationError reports literal text that parsed but does not fit the
// target type's shape.
type DeserializationError struct {
	Type string
	Msg  string
	Err  error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("deserializing %q: %s: %v", e.Type, e.Msg, e.Err)
	}
	return fmt.Sprintf("deserializing %q: %s", e.Type, e.Msg)
}

func (e *DeserializationError) Unwrap() error { return e.Err }
