package document

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/htmlscene/internal/ctxlog"
)

// Extensions lists the file extensions recognized as document assets.
func Extensions() []string { return []string{".html"} }

// Load reads document text from r and parses it.
func Load(r io.Reader) (*Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return Parse(string(data))
}

// Cache loads and memoizes documents by path, standing in for the host's
// asset pipeline. Programmatic scenes can be added under a name so documents
// can reference them like files.
type Cache struct {
	root   string
	scenes map[string]*Scene
}

// NewCache creates a cache rooted at dir. Relative paths resolve against it.
func NewCache(dir string) *Cache {
	return &Cache{root: dir, scenes: map[string]*Scene{}}
}

// Add registers a programmatic scene under a name.
func (c *Cache) Add(name string, s *Scene) {
	c.scenes[name] = s
}

// Get returns a previously loaded or added scene.
func (c *Cache) Get(name string) (*Scene, bool) {
	s, ok := c.scenes[name]
	return s, ok
}

// Load returns the scene for path, reading and parsing the file on first use.
// The path must carry a recognized extension.
func (c *Cache) Load(ctx context.Context, path string) (*Scene, error) {
	if s, ok := c.scenes[path]; ok {
		return s, nil
	}
	recognized := false
	for _, ext := range Extensions() {
		if strings.HasSuffix(path, ext) {
			recognized = true
			break
		}
	}
	if !recognized {
		return nil, fmt.Errorf("document %q: unrecognized extension", path)
	}
	full := path
	if c.root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(c.root, path)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", path, err)
	}
	defer f.Close()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Document loaded.", "path", path)
	c.scenes[path] = s
	return s, nil
}
