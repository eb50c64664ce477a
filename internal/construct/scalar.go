package construct

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Scalar coercion goes through cty so the accepted forms ("10", "1.5",
// "true") match the conversion rules used everywhere else in the stack.

func coerce(raw string, want cty.Type, out any) error {
	v, err := convert.Convert(cty.StringVal(raw), want)
	if err != nil {
		return fmt.Errorf("cannot read %q as %s: %w", raw, want.FriendlyName(), err)
	}
	if err := gocty.FromCtyValue(v, out); err != nil {
		return fmt.Errorf("cannot read %q as %s: %w", raw, want.FriendlyName(), err)
	}
	return nil
}

// ParseBool reads a boolean literal.
func ParseBool(raw string) (bool, error) {
	var out bool
	err := coerce(raw, cty.Bool, &out)
	return out, err
}

// ParseFloat64 reads a numeric literal as float64.
func ParseFloat64(raw string) (float64, error) {
	var out float64
	err := coerce(raw, cty.Number, &out)
	return out, err
}

// ParseFloat32 reads a numeric literal as float32.
func ParseFloat32(raw string) (float32, error) {
	var out float32
	err := coerce(raw, cty.Number, &out)
	return out, err
}

// ParseInt32 reads an integer literal as int32, rejecting fractions.
func ParseInt32(raw string) (int32, error) {
	var out int32
	err := coerce(raw, cty.Number, &out)
	return out, err
}

// ParseUint32 reads a non-negative integer literal as uint32.
func ParseUint32(raw string) (uint32, error) {
	var out uint32
	err := coerce(raw, cty.Number, &out)
	return out, err
}
