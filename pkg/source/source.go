// Package source fetches a water points dataset and decodes it into records.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dkoosis/wpstat/internal/waterpoint"
)

// DefaultURL is the public onaio water points dataset.
const DefaultURL = "https://raw.githubusercontent.com/onaio/ona-tech/master/data/water_points.json"

// DefaultMaxBytes caps a payload read from any source.
const DefaultMaxBytes = 32 << 20

// Stdin is the source name that reads from standard input.
const Stdin = "-"

// ErrDownloadFailed is wrapped by every error a Loader returns.
var ErrDownloadFailed = errors.New("download failed")

// Loader fetches and decodes a dataset.
type Loader interface {
	Load(ctx context.Context, src string) ([]waterpoint.Record, error)
}

// DefaultLoader reads http(s) URLs, local files and stdin.
type DefaultLoader struct {
	Client    *http.Client
	Stdin     io.Reader
	MaxBytes  int64
	UserAgent string
}

// NewLoader returns a DefaultLoader with a client bounded by timeout.
func NewLoader(timeout time.Duration, userAgent string) *DefaultLoader {
	return &DefaultLoader{
		Client:    &http.Client{Timeout: timeout},
		Stdin:     os.Stdin,
		MaxBytes:  DefaultMaxBytes,
		UserAgent: userAgent,
	}
}

// Load fetches src and decodes it.
func (l *DefaultLoader) Load(ctx context.Context, src string) ([]waterpoint.Record, error) {
	data, err := l.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Fetch returns the raw payload of src.
func (l *DefaultLoader) Fetch(ctx context.Context, src string) ([]byte, error) {
	src = strings.TrimSpace(src)
	switch {
	case src == "":
		return nil, fmt.Errorf("%w: empty source", ErrDownloadFailed)
	case src == Stdin:
		if l.Stdin == nil {
			return nil, fmt.Errorf("%w: no stdin available", ErrDownloadFailed)
		}
		return l.readAll(l.Stdin, "stdin")
	case isHTTP(src):
		return l.fetchHTTP(ctx, src)
	default:
		return l.readFile(strings.TrimPrefix(src, "file://"))
	}
}

func isHTTP(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (l *DefaultLoader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDownloadFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrDownloadFailed, url, resp.Status)
	}
	return l.readAll(resp.Body, url)
}

func (l *DefaultLoader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	defer f.Close()
	return l.readAll(f, path)
}

func (l *DefaultLoader) readAll(r io.Reader, name string) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDownloadFailed, name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrDownloadFailed, name, limit)
	}
	return data, nil
}
