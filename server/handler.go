package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"

	"static-tls-server/mimetype"
	"static-tls-server/static"
)

// Handler answers GET/HEAD by resolving the request path to a file and
// streaming it with explicit Content-Type and Content-Length headers.
type Handler struct {
	resolver *static.Resolver
	logger   *log.Logger
}

func NewHandler(resolver *static.Resolver, logger *log.Logger) *Handler {
	return &Handler{resolver: resolver, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	id := uuid.NewString()[:8]

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		h.logf(id, req, http.StatusMethodNotAllowed, 0)
		return
	}

	// net/http delivers req.URL.Path already percent-decoded.
	res, err := h.resolver.Resolve(req.URL.Path)
	var redir *static.RedirectError
	switch {
	case errors.As(err, &redir):
		http.Redirect(w, req, redir.Location, http.StatusMovedPermanently)
		h.logf(id, req, http.StatusMovedPermanently, 0)
		return
	case errors.Is(err, static.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		h.logf(id, req, http.StatusForbidden, 0)
		return
	case errors.Is(err, static.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		h.logf(id, req, http.StatusNotFound, 0)
		return
	case err != nil:
		http.Error(w, "internal server error", http.StatusInternalServerError)
		h.logf(id, req, http.StatusInternalServerError, 0)
		return
	}

	var body io.ReadCloser
	if req.Method == http.MethodGet {
		body, err = res.Open()
		if err != nil {
			// Stat succeeded but the file is gone or unreadable now.
			h.logger.Printf("req=%s open %s: %v", id, res.Path, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			h.logf(id, req, http.StatusInternalServerError, 0)
			return
		}
		defer body.Close()
	}

	ctype := res.ContentType
	if ctype == "" {
		ctype = mimetype.ByExtension(path.Ext(res.Path))
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
	w.WriteHeader(http.StatusOK)

	var written int64
	if body != nil {
		written, err = io.Copy(w, body)
		if err != nil {
			// Client went away mid-response; nothing to salvage.
			h.logger.Printf("req=%s write %s: %v", id, res.Path, err)
		}
	}
	h.logf(id, req, http.StatusOK, written)
}

func (h *Handler) logf(id string, req *http.Request, status int, written int64) {
	h.logger.Printf("req=%s %s %s %d %d", id, req.Method, req.URL.Path, status, written)
}
