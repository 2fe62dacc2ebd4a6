// Package source reads raw minutes records from the published site:
// the search index JSON, pre-rendered listing markup, or the markdown
// content directory.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ccowmu/minutes/internal/logger"
	"github.com/ccowmu/minutes/internal/model"
)

// Kind selects how the location is read
type Kind string

const (
	KindJSON     Kind = "json"
	KindHTML     Kind = "html"
	KindMarkdown Kind = "markdown"
)

// DefaultTimeout bounds a remote fetch
const DefaultTimeout = 30 * time.Second

// ErrUnknownKind is returned for an unsupported source kind
var ErrUnknownKind = errors.New("unknown source kind")

// ErrNoLocation is returned when no location is configured
var ErrNoLocation = errors.New("source location is not set")

// Source produces raw records
type Source interface {
	// Load reads every record in the order the site lists them
	Load(ctx context.Context) ([]model.RawDocument, error)
	// Location is the path or URL being read
	Location() string
	// Remote reports whether Location is fetched over HTTP
	Remote() bool
}

// Options configures New
type Options struct {
	Kind     Kind
	Location string
	Timeout  time.Duration
	// BaseURL is joined with relative document URLs; empty leaves them relative
	BaseURL string
}

// ParseKind validates a configured kind name
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindJSON, KindHTML, KindMarkdown:
		return k, true
	}
	return "", false
}

// New creates the source for opts
func New(opts Options) (Source, error) {
	if strings.TrimSpace(opts.Location) == "" {
		return nil, ErrNoLocation
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	loc := location{path: opts.Location, baseURL: opts.BaseURL, timeout: opts.Timeout}

	switch opts.Kind {
	case KindJSON, "":
		return &JSONSource{location: loc}, nil
	case KindHTML:
		return &HTMLSource{location: loc}, nil
	case KindMarkdown:
		if loc.Remote() {
			return nil, fmt.Errorf("markdown source must be a local directory, got %s", opts.Location)
		}
		return &MarkdownSource{location: loc}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, opts.Kind)
	}
}

// location is a file path or http(s) URL shared by every source kind
type location struct {
	path    string
	baseURL string
	timeout time.Duration
}

// Location returns the configured path or URL
func (l location) Location() string {
	return l.path
}

// Remote reports whether the location is an http(s) URL
func (l location) Remote() bool {
	return isRemote(l.path)
}

func isRemote(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// read returns the location contents from disk or over HTTP
func (l location) read(ctx context.Context) ([]byte, error) {
	if !l.Remote() {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
		}
		return data, nil
	}
	return fetch(ctx, l.path, l.timeout)
}

// newHTTPClient creates a retrying client that logs through the app logger
func newHTTPClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = leveledLogger{}
	return client
}

func fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.1")

	logger.Debug("Fetching %s", rawURL)
	resp, err := newHTTPClient(timeout).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", rawURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}
	return data, nil
}

// leveledLogger routes retryablehttp logs to debug output
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Debug("http: %s %v", msg, keysAndValues)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("http: %s %v", msg, keysAndValues)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Debug("http: %s %v", msg, keysAndValues)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Debug("http: %s %v", msg, keysAndValues)
}

// MinutesPath is the site path of a minutes page
func MinutesPath(slug string) string {
	return "/minutes/" + strings.Trim(slug, "/") + "/"
}

// ResolveURL joins a document URL with the site base URL.
// Absolute URLs and an empty base are returned unchanged.
func ResolveURL(base, ref string) string {
	if base == "" || ref == "" {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// finish fills in derived URLs for a loaded batch
func finish(raws []model.RawDocument, baseURL string) []model.RawDocument {
	for i := range raws {
		if raws[i].URL == "" && raws[i].Slug != "" {
			raws[i].URL = MinutesPath(raws[i].Slug)
		}
		raws[i].URL = ResolveURL(baseURL, raws[i].URL)
	}
	return raws
}
