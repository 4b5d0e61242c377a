package http

import (
	"bytes"
	"net/http"
	"sync"
)

// PageCache caches the rendered response of registered GET paths until a
// mutation revalidates them, so the listing view is recomputed only when its
// data changed. It implements domain.Revalidator.
type PageCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	valid       bool
	contentType string
	body        []byte
}

// NewPageCache returns a cache that will serve the given paths from cache.
// Paths not registered here pass through untouched.
func NewPageCache(paths ...string) *PageCache {
	entries := make(map[string]*cacheEntry, len(paths))
	for _, p := range paths {
		entries[p] = &cacheEntry{}
	}
	return &PageCache{entries: entries}
}

// Revalidate marks the cached render of path stale. The next request for it
// recomputes from current data. Unregistered paths are a no-op.
func (c *PageCache) Revalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[path]; ok {
		entry.valid = false
		entry.body = nil
	}
}

// captureWriter buffers a response so a successful render can be cached.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware serves registered GET paths from cache when fresh and captures
// successful renders otherwise. Only 200 responses are cached.
func (c *PageCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		c.mu.RLock()
		entry, registered := c.entries[r.URL.Path]
		var cached []byte
		var contentType string
		if registered && entry.valid {
			cached = entry.body
			contentType = entry.contentType
		}
		c.mu.RUnlock()

		if !registered {
			next.ServeHTTP(w, r)
			return
		}
		if cached != nil {
			if contentType != "" {
				w.Header().Set("Content-Type", contentType)
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		wrapped := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		if wrapped.status != http.StatusOK {
			return
		}
		c.mu.Lock()
		entry.valid = true
		entry.body = wrapped.buf.Bytes()
		entry.contentType = wrapped.Header().Get("Content-Type")
		c.mu.Unlock()
	})
}
