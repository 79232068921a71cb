package static

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"net/url"
	"sort"
)

// listing builds an HTML index of dir's entries, directories suffixed
// with a slash.
func (r *Resolver) listing(dir string) (*Resource, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, ErrNotFound
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	title := "Directory listing for " + dir
	var b bytes.Buffer
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head><title>%s</title></head>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<body>\n<h1>%s</h1>\n<hr>\n<ul>\n", html.EscapeString(title))
	for _, name := range names {
		href := (&url.URL{Path: name}).String()
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a></li>\n", href, html.EscapeString(name))
	}
	b.WriteString("</ul>\n<hr>\n</body>\n</html>\n")

	body := b.Bytes()
	return &Resource{
		Path:        dir,
		Size:        int64(len(body)),
		ContentType: "text/html; charset=utf-8",
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		},
	}, nil
}
