package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/ordering-engine/pkg/errors"
)

const (
	defaultProductsPath        = "products"
	defaultFetchTimeout        = 10 * time.Second
	errorBodyReadLimit   int64 = 1024
	catalogBodyReadLimit int64 = 8 << 20
)

var errBaseURLRequired = errors.New("catalog base url is required")

// Source supplies the catalog. Implementations perform the I/O; the ordering
// core only consumes the decoded result.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// FileSource reads a catalog document from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read catalog %s", s.Path))
	}
	cat, err := Decode(data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode catalog")
	}
	return cat, nil
}

// HTTPSource fetches the catalog from the products resource of a remote API.
type HTTPSource struct {
	httpClient   *http.Client
	baseURL      string
	productsPath string
}

// HTTPOption configures optional HTTPSource behavior.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithProductsPath overrides the products resource path.
func WithProductsPath(path string) HTTPOption {
	return func(s *HTTPSource) {
		if trimmed := strings.Trim(strings.TrimSpace(path), "/"); trimmed != "" {
			s.productsPath = trimmed
		}
	}
}

// NewHTTPSource builds a fetching source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) (*HTTPSource, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	source := &HTTPSource{
		httpClient:   &http.Client{Timeout: defaultFetchTimeout},
		baseURL:      trimmed,
		productsPath: defaultProductsPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(source)
		}
	}
	return source, nil
}

// URL returns the products endpoint the source reads.
func (s *HTTPSource) URL() string {
	return s.baseURL + "/" + s.productsPath
}

func (s *HTTPSource) Load(ctx context.Context) (*Catalog, error) {
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog source not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute catalog request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "catalog request failed")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, catalogBodyReadLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read catalog response")
	}
	cat, err := Decode(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return cat, nil
}
