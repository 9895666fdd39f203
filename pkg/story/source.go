package story

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Source fetches the raw bytes of one entry document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	// Name identifies the source in logs and errors.
	Name() string
}

// FileSource reads a document from the local filesystem.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string { return f.Path }

func (f FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Clean(f.Path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("entry data not found: %s", f.Path)
		}
		return nil, fmt.Errorf("failed to read entry data %s: %w", f.Path, err)
	}
	return data, nil
}

// HTTPSource fetches a document over HTTP. Any non-2xx status is a failure.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (h HTTPSource) Name() string { return h.URL }

func (h HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", h.URL, err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, h.URL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// SourceFor picks an HTTPSource for http and https locations and a
// FileSource for everything else.
func SourceFor(location string, client *http.Client) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return HTTPSource{URL: location, Client: client}
	}
	return FileSource{Path: location}
}
