package funcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/htmlscene/internal/facet"
	"github.com/vk/htmlscene/internal/world"
)

const (
	unitType facet.TypeID = 1
	docType  facet.TypeID = 2
)

func TestCallDispatches(t *testing.T) {
	r := New()
	r.Register("greet", unitType, docType,
		func(_ context.Context, _ *world.World, in *facet.Value) (*facet.Value, error) {
			return facet.NewOpaque(docType, "hello"), nil
		})

	out, err := r.Call(context.Background(), world.New(), "greet", facet.NewOpaque(unitType, nil))
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Opaque())
}

func TestCallUnknownFunction(t *testing.T) {
	r := New()
	_, err := r.Call(context.Background(), world.New(), "missing", facet.NewOpaque(unitType, nil))
	require.Error(t, err)
	var unknown *UnknownFunctionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
}

func TestCallInputTypeMismatch(t *testing.T) {
	r := New()
	r.Register("strict", unitType, docType,
		func(_ context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			t.Fatal("callable must not run on mismatched input")
			return nil, nil
		})

	_, err := r.Call(context.Background(), world.New(), "strict", facet.NewOpaque(docType, "wrong"))
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "strict", mismatch.Function)
	assert.Equal(t, unitType, mismatch.Expected)
	assert.Equal(t, docType, mismatch.Actual)
}

func TestCallCheckoutBlocksReentrancy(t *testing.T) {
	r := New()
	w := world.New()
	var reentrantErr error
	r.Register("recurse", unitType, docType,
		func(ctx context.Context, w *world.World, in *facet.Value) (*facet.Value, error) {
			_, reentrantErr = r.Call(ctx, w, "recurse", in)
			return facet.NewOpaque(docType, "done"), nil
		})

	out, err := r.Call(context.Background(), w, "recurse", facet.NewOpaque(unitType, nil))
	require.NoError(t, err)
	assert.Equal(t, "done", out.Opaque())

	var unknown *UnknownFunctionError
	require.ErrorAs(t, reentrantErr, &unknown)
	assert.Equal(t, "recurse", unknown.Name)
}

func TestCallRestoresAfterFailure(t *testing.T) {
	r := New()
	w := world.New()
	calls := 0
	r.Register("flaky", unitType, docType,
		func(_ context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			calls++
			if calls == 1 {
				return nil, assert.AnError
			}
			return facet.NewOpaque(docType, "ok"), nil
		})

	_, err := r.Call(context.Background(), w, "flaky", facet.NewOpaque(unitType, nil))
	require.Error(t, err)

	// The callable must be checked back in even after an error.
	out, err := r.Call(context.Background(), w, "flaky", facet.NewOpaque(unitType, nil))
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Opaque())
}

func TestRegisterLastWins(t *testing.T) {
	r := New()
	r.Register("fn", unitType, docType,
		func(_ context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			return facet.NewOpaque(docType, "first"), nil
		})
	r.Register("fn", unitType, docType,
		func(_ context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			return facet.NewOpaque(docType, "second"), nil
		})

	out, err := r.Call(context.Background(), world.New(), "fn", facet.NewOpaque(unitType, nil))
	require.NoError(t, err)
	assert.Equal(t, "second", out.Opaque())
}

func TestSignature(t *testing.T) {
	r := New()
	r.Register("fn", unitType, docType,
		func(_ context.Context, _ *world.World, _ *facet.Value) (*facet.Value, error) {
			return nil, nil
		})

	in, out, ok := r.Signature("fn")
	require.True(t, ok)
	assert.Equal(t, unitType, in)
	assert.Equal(t, docType, out)

	_, _, ok = r.Signature("missing")
	assert.False(t, ok)
}
