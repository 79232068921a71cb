package static

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-billy/v5"
)

var (
	// ErrForbidden marks a request path whose normal form escapes the
	// base directory.
	ErrForbidden = errors.New("path escapes base directory")
	// ErrNotFound marks a path with no servable file behind it.
	ErrNotFound = errors.New("no such file")
)

// RedirectError reports a directory requested without its trailing
// slash and names the canonical location, so relative links inside the
// directory's index or listing resolve correctly.
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string {
	return "redirect to " + e.Location
}

const indexFile = "index.html"

// Resource is a validated file (or generated directory listing) inside
// the base directory, ready to stream.
type Resource struct {
	// Path is the resolved location, slash-separated and rooted at the
	// base directory.
	Path string
	Size int64
	// ContentType is set only when the body is generated (listings);
	// empty means derive it from the extension of Path.
	ContentType string

	open func() (io.ReadCloser, error)
}

// Open returns the resource body for streaming.
func (r *Resource) Open() (io.ReadCloser, error) { return r.open() }

// Resolver maps URL paths to files beneath a base directory. The
// filesystem is rooted at that directory, so every name the resolver
// produces stays inside it.
type Resolver struct {
	fs      billy.Filesystem
	listDir bool
}

// NewResolver returns a resolver over fs. With listDir set, directories
// without an index.html resolve to a generated listing instead of a
// not-found outcome.
func NewResolver(fs billy.Filesystem, listDir bool) *Resolver {
	return &Resolver{fs: fs, listDir: listDir}
}

// Resolve maps an already-percent-decoded URL path to a Resource.
// Traversal is rejected before any filesystem access; symlinks are
// settled inside the root before the target is examined.
func (r *Resolver) Resolve(urlPath string) (*Resource, error) {
	rel := path.Clean(strings.TrimLeft(urlPath, "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, ErrForbidden
	}
	if rel == "." {
		rel = ""
	}

	name, err := securejoin.SecureJoinVFS("/", rel, r.fs)
	if err != nil {
		return nil, fmt.Errorf("settle %q: %w", rel, err)
	}

	fi, err := r.fs.Stat(name)
	if err != nil {
		return nil, ErrNotFound
	}

	if fi.IsDir() {
		if rel != "" && !strings.HasSuffix(urlPath, "/") {
			return nil, &RedirectError{Location: "/" + rel + "/"}
		}
		idx := path.Join(name, indexFile)
		if ifi, err := r.fs.Stat(idx); err == nil && ifi.Mode().IsRegular() {
			return r.file(idx, ifi.Size()), nil
		}
		if r.listDir {
			return r.listing(name)
		}
		return nil, ErrNotFound
	}
	if !fi.Mode().IsRegular() {
		return nil, ErrNotFound
	}
	return r.file(name, fi.Size()), nil
}

func (r *Resolver) file(name string, size int64) *Resource {
	return &Resource{
		Path: name,
		Size: size,
		open: func() (io.ReadCloser, error) { return r.fs.Open(name) },
	}
}
