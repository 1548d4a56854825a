// Package source turns a user supplied path or URL into raw bytes,
// enforcing a size ceiling before anything is parsed.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nconklindev/roster/internal/types"
)

// DefaultMaxBytes is the size ceiling applied to local and remote sources.
const DefaultMaxBytes int64 = 1_000_000

// Resolver fetches sources. The zero value is not usable; use New.
type Resolver struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClient sets the HTTP client used for URL sources.
func WithClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int64) Option {
	return func(r *Resolver) { r.maxBytes = n }
}

// WithUserAgent sets the User-Agent header sent with URL requests.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) { r.userAgent = ua }
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		client:   http.DefaultClient,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsURL reports whether spec names a remote source.
func IsURL(spec string) bool {
	return strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://")
}

// Resolve reads the bytes behind spec. A single attempt is made; the
// deadline, if any, comes from ctx.
func (r *Resolver) Resolve(ctx context.Context, spec string) (*types.Payload, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, &types.InputError{Msg: "no file selected"}
	}

	var (
		data []byte
		err  error
	)
	if IsURL(spec) {
		data, err = r.fetch(ctx, spec)
	} else {
		data, err = r.readLocal(spec)
	}
	if err != nil {
		return nil, err
	}

	return &types.Payload{
		Name:   spec,
		Format: DetectFormat(spec),
		Data:   data,
	}, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &types.IOError{Source: rawURL, Err: err}
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	slog.Debug("fetching source", "url", rawURL)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &types.IOError{Source: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.IOError{Source: rawURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	if resp.ContentLength > r.maxBytes {
		return nil, &types.SizeLimitError{Size: resp.ContentLength, Limit: r.maxBytes}
	}

	// Read one byte past the limit so an oversized body is detectable
	// without buffering all of it.
	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, &types.IOError{Source: rawURL, Err: err}
	}
	if int64(len(data)) > r.maxBytes {
		return nil, &types.SizeLimitError{Size: int64(len(data)), Limit: r.maxBytes}
	}

	slog.Debug("fetched source", "url", rawURL, "status", resp.StatusCode, "bytes", len(data))
	return data, nil
}

func (r *Resolver) readLocal(p string) ([]byte, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, &types.IOError{Source: p, Err: err}
	}
	if info.IsDir() {
		return nil, &types.IOError{Source: p, Err: fmt.Errorf("%s is a directory", p)}
	}
	if info.Size() > r.maxBytes {
		return nil, &types.SizeLimitError{Size: info.Size(), Limit: r.maxBytes}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, &types.IOError{Source: p, Err: err}
	}
	// The file may have grown between Stat and ReadFile.
	if int64(len(data)) > r.maxBytes {
		return nil, &types.SizeLimitError{Size: int64(len(data)), Limit: r.maxBytes}
	}
	return data, nil
}

// DetectFormat guesses the payload format from the extension of a path or
// URL path. Anything other than .csv is treated as a workbook.
func DetectFormat(spec string) types.Format {
	var ext string
	if IsURL(spec) {
		if u, err := url.Parse(spec); err == nil {
			ext = path.Ext(u.Path)
		}
	} else {
		ext = filepath.Ext(spec)
	}

	if strings.EqualFold(ext, ".csv") {
		return types.FormatCSV
	}
	return types.FormatXLSX
}
