package mimetype

import (
	"mime"
	"strings"
)

// Extensions the dev workflow cares about get a fixed content-type,
// regardless of what the host's mime registry says. Notably .js stays
// application/javascript everywhere.
var overrides = map[string]string{
	".js":   "application/javascript",
	".css":  "text/css",
	".html": "text/html",
	".json": "application/json",
	".png":  "image/png",
	".xml":  "application/xml",
}

const fallback = "application/octet-stream"

// ByExtension maps a file extension (leading dot included) to a
// content-type. Unknown extensions resolve to application/octet-stream.
func ByExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ct, ok := overrides[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return fallback
}
