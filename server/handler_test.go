package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"static-tls-server/static"
)

const (
	indexBody = "<h1>Hi</h1>\n"
	jsBody    = "console.log('hi');\n"
)

func newTestHandler(t *testing.T, listDir bool) *Handler {
	t.Helper()
	fs := memfs.New()
	files := map[string]string{
		"/index.html":    indexBody,
		"/app.js":        jsBody,
		"/sub/inner.txt": "inner",
	}
	for name, content := range files {
		if err := util.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	logger := log.New(io.Discard, "", 0)
	return NewHandler(static.NewResolver(fs, listDir), logger)
}

func do(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandlerGetFile(t *testing.T) {
	rec := do(t, newTestHandler(t, false), http.MethodGet, "/app.js")
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d want=200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/javascript" {
		t.Fatalf("content type got=%q want=application/javascript", got)
	}
	if got := rec.Header().Get("Content-Length"); got != strconv.Itoa(len(jsBody)) {
		t.Fatalf("content length got=%q want=%d", got, len(jsBody))
	}
	if rec.Body.String() != jsBody {
		t.Fatalf("body got=%q want=%q", rec.Body.String(), jsBody)
	}
}

func TestHandlerHeadOmitsBody(t *testing.T) {
	h := newTestHandler(t, false)
	get := do(t, h, http.MethodGet, "/app.js")
	head := do(t, h, http.MethodHead, "/app.js")

	if head.Code != get.Code {
		t.Fatalf("status got=%d want=%d", head.Code, get.Code)
	}
	for _, k := range []string{"Content-Type", "Content-Length"} {
		if head.Header().Get(k) != get.Header().Get(k) {
			t.Fatalf("%s got=%q want=%q", k, head.Header().Get(k), get.Header().Get(k))
		}
	}
	if head.Body.Len() != 0 {
		t.Fatalf("HEAD body got %d bytes, want empty", head.Body.Len())
	}
}

func TestHandlerIndexAtRoot(t *testing.T) {
	rec := do(t, newTestHandler(t, false), http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d want=200", rec.Code)
	}
	if rec.Body.String() != indexBody {
		t.Fatalf("body got=%q want=%q", rec.Body.String(), indexBody)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html" {
		t.Fatalf("content type got=%q want=text/html", got)
	}
}

func TestHandlerTraversalForbidden(t *testing.T) {
	rec := do(t, newTestHandler(t, false), http.MethodGet, "/../../etc/passwd")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status got=%d want=403", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "root:") {
		t.Fatalf("traversal response leaked file contents")
	}
}

func TestHandlerNotFound(t *testing.T) {
	rec := do(t, newTestHandler(t, false), http.MethodGet, "/missing.txt")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status got=%d want=404", rec.Code)
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestHandler(t, false), http.MethodPost, "/app.js")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status got=%d want=405", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != "GET, HEAD" {
		t.Fatalf("Allow got=%q want=%q", got, "GET, HEAD")
	}
}

func TestHandlerDirectoryListingPolicy(t *testing.T) {
	if rec := do(t, newTestHandler(t, false), http.MethodGet, "/sub/"); rec.Code != http.StatusNotFound {
		t.Fatalf("listing off: status got=%d want=404", rec.Code)
	}

	rec := do(t, newTestHandler(t, true), http.MethodGet, "/sub/")
	if rec.Code != http.StatusOK {
		t.Fatalf("listing on: status got=%d want=200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("listing content type got=%q", got)
	}
	if !strings.Contains(rec.Body.String(), "inner.txt") {
		t.Fatalf("listing missing entry: %q", rec.Body.String())
	}
}

func TestHandlerDirectoryRedirect(t *testing.T) {
	h := newTestHandler(t, true)

	rec := do(t, h, http.MethodGet, "/sub")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status got=%d want=301", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/sub/" {
		t.Fatalf("location got=%q want=/sub/", got)
	}

	// Relative links in the listing at the redirected location must
	// resolve to files that exist.
	listing := do(t, h, http.MethodGet, "/sub/")
	if !strings.Contains(listing.Body.String(), `href="inner.txt"`) {
		t.Fatalf("listing missing relative link: %q", listing.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/sub/inner.txt"); rec.Code != http.StatusOK {
		t.Fatalf("linked entry status got=%d want=200", rec.Code)
	}
}
