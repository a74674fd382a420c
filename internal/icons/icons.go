// Package icons resolves command keys to icon image bytes.
package icons

import (
	"os"
	"path/filepath"
	"sync"
)

// UnknownIcon is the fallback image served for keys without an icon file.
const UnknownIcon = "unknown.png"

// Resolver maps command keys to icon bytes from a fixed image directory.
// Loaded bytes are cached by file path for the life of the resolver; the
// cache is insert-only and never evicts. The icon set is a small static
// directory, so unbounded growth is accepted.
type Resolver struct {
	dir   string
	mu    sync.Mutex
	cache map[string][]byte
}

// NewResolver creates a resolver over the given icon directory.
func NewResolver(dir string) *Resolver {
	return &Resolver{
		dir:   dir,
		cache: make(map[string][]byte),
	}
}

// Resolve returns the icon bytes for a command key. A key maps to
// <dir>/<key>.png; when that file does not exist the fallback image is
// returned instead. Resolve never fails: a missing fallback simply yields
// empty bytes.
func (r *Resolver) Resolve(key string) []byte {
	path := filepath.Join(r.dir, key+".png")
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return r.Unknown()
	}
	return r.read(path)
}

// Unknown returns the fallback icon bytes.
func (r *Resolver) Unknown() []byte {
	return r.read(filepath.Join(r.dir, UnknownIcon))
}

func (r *Resolver) read(path string) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.cache[path]; ok {
		return data
	}

	data, err := os.ReadFile(path)
	if err != nil {
		data = []byte{}
	}
	r.cache[path] = data
	return data
}
