// Package assets resolves asset references. A Handle is the deferred result:
// it names the asset without loading it, leaving decode and upload to the
// host renderer.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/htmlscene/internal/ctxlog"
)

// Handle is a resolved asset reference. Kind is the registered element type
// the handle was requested for (Image, Font, Audio, ...).
type Handle struct {
	Kind string
	Path string
}

func (h Handle) String() string {
	return fmt.Sprintf("%s(%s)", h.Kind, h.Path)
}

// Resolver turns a path from document text into a Handle.
type Resolver interface {
	Resolve(ctx context.Context, kind, path string) (Handle, error)
}

// Dir resolves paths relative to a root directory and fails when the file
// does not exist, so broken references surface at construction time instead
// of at render time.
type Dir struct {
	Root string
}

// Resolve checks the file under the root and returns a handle carrying the
// original relative path.
func (d Dir) Resolve(ctx context.Context, kind, path string) (Handle, error) {
	full := filepath.Join(d.Root, filepath.FromSlash(path))
	if _, err := os.Stat(full); err != nil {
		return Handle{}, fmt.Errorf("asset %q: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Resolved asset.", "kind", kind, "path", path)
	return Handle{Kind: kind, Path: path}, nil
}

// Null accepts every path without touching the filesystem. Useful in tests
// and in hosts that resolve assets themselves.
type Null struct{}

// Resolve returns a handle for any path.
func (Null) Resolve(_ context.Context, kind, path string) (Handle, error) {
	return Handle{Kind: kind, Path: path}, nil
}
