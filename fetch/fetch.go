// SPDX-License-Identifier: EPL-2.0

// Package fetch acquires encoded audio bytes from source locators. The
// engine does not care how bytes arrive; a Loader hides file reads, network
// fetches or anything a host wants to plug in.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Loader resolves a source locator (path or URL) into raw encoded bytes.
type Loader interface {
	Load(ctx context.Context, locator string) ([]byte, error)
}

// FileLoader reads locators from the local filesystem.
type FileLoader struct{}

func (FileLoader) Load(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", locator, err)
	}
	return data, nil
}

// HTTPLoader fetches locators over HTTP(S).
type HTTPLoader struct {
	// Client defaults to http.DefaultClient when nil.
	Client *http.Client
}

func (l HTTPLoader) Load(ctx context.Context, locator string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("request %q: %w", locator, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %q: unexpected status %s", locator, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %q: %w", locator, err)
	}
	return data, nil
}

// SchemeLoader dispatches by locator scheme: http/https go to HTTP, anything
// else is treated as a filesystem path.
type SchemeLoader struct {
	File FileLoader
	HTTP HTTPLoader
}

func (l SchemeLoader) Load(ctx context.Context, locator string) ([]byte, error) {
	u, err := url.Parse(locator)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.HTTP.Load(ctx, locator)
	}
	return l.File.Load(ctx, locator)
}

// Default returns the loader used when the caller supplies none.
func Default() Loader {
	return SchemeLoader{}
}
