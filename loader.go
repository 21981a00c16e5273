package sigplay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gogpu/sigplay/internal/cache"
)

// Loader fetches and decodes a signature document.
// Implementations must honor ctx cancellation.
type Loader interface {
	Load(ctx context.Context, url string) (*Document, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface.
type LoaderFunc func(ctx context.Context, url string) (*Document, error)

// Load calls f(ctx, url).
func (f LoaderFunc) Load(ctx context.Context, url string) (*Document, error) {
	return f(ctx, url)
}

// maxDocumentSize bounds the size of a fetched document.
const maxDocumentSize = 32 << 20

// HTTPLoader loads documents over HTTP(S), from file:// URLs, and from
// plain filesystem paths.
type HTTPLoader struct {
	// Client is used for http and https URLs.
	// If nil, http.DefaultClient is used.
	Client *http.Client
}

// DefaultLoader is the Loader used by players that were not given one.
var DefaultLoader Loader = &HTTPLoader{}

// Load fetches the document at rawURL and decodes it.
// Transport failures and non-2xx responses wrap ErrLoad; a cancelled ctx
// returns an error satisfying errors.Is(err, context.Canceled).
func (l *HTTPLoader) Load(ctx context.Context, rawURL string) (*Document, error) {
	rc, err := l.open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc, err := Decode(io.LimitReader(rc, maxDocumentSize))
	// A response decoded after cancellation is stale, and a read cut short
	// by cancellation is not a decode failure.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *HTTPLoader) open(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return l.get(ctx, rawURL)
	}

	path := rawURL
	if strings.HasPrefix(rawURL, "file://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		path = u.Path
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return f, nil
}

func (l *HTTPLoader) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s: %s", ErrLoad, rawURL, resp.Status)
	}
	return resp.Body, nil
}

// CachingLoader reuses documents loaded within the last TTL. Documents
// are immutable, so every player may share a cached one. Failed loads are
// not cached.
type CachingLoader struct {
	next Loader
	ttl  time.Duration
	now  func() time.Time
	docs *cache.Cache[string, cachedDocument]
}

type cachedDocument struct {
	doc    *Document
	loaded time.Time
}

// NewCachingLoader wraps next with a cache of at most capacity documents.
// A non-positive ttl caches nothing.
func NewCachingLoader(next Loader, capacity int, ttl time.Duration) *CachingLoader {
	if next == nil {
		next = DefaultLoader
	}
	return &CachingLoader{
		next: next,
		ttl:  ttl,
		now:  time.Now,
		docs: cache.New[string, cachedDocument](capacity),
	}
}

// Load returns the cached document for url, loading it through the
// wrapped Loader when it is missing or expired.
func (l *CachingLoader) Load(ctx context.Context, url string) (*Document, error) {
	if l.ttl <= 0 {
		return l.next.Load(ctx, url)
	}
	if c, ok := l.docs.Get(url); ok && l.now().Sub(c.loaded) < l.ttl {
		return c.doc, nil
	}
	doc, err := l.next.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	l.docs.Set(url, cachedDocument{doc: doc, loaded: l.now()})
	return doc, nil
}

// Stats returns the cache statistics.
func (l *CachingLoader) Stats() cache.Stats {
	return l.docs.Stats()
}
