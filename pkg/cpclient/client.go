// Package cpclient provides the entry point for creating CodePush
// management clients.
package cpclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/afero"

	"github.com/souhouse/code-push/internal/archive"
	"github.com/souhouse/code-push/internal/client"
	cphttp "github.com/souhouse/code-push/internal/http"
	"github.com/souhouse/code-push/internal/upload"
	"github.com/souhouse/code-push/pkg/codepush"
)

// New creates a management client from the given configuration. The server
// URL is normalized: a trailing slash is trimmed and a missing scheme
// defaults to https.
func New(config *codepush.Config) (codepush.Client, error) {
	if config == nil {
		return nil, codepush.ErrConfigRequired
	}
	if config.ServerURL == "" {
		return nil, codepush.ErrServerURLRequired
	}

	serverURL := normalizeServerURL(config.ServerURL)

	var proxyURL *url.URL
	if config.Proxy != "" {
		parsed, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", config.Proxy, err)
		}
		proxyURL = parsed
	}

	opts := []cphttp.Option{
		cphttp.WithUserAgent(config.UserAgent),
		cphttp.WithCustomHeaders(config.CustomHeaders),
		cphttp.WithProxy(proxyURL),
	}
	if config.Logger != nil {
		opts = append(opts, cphttp.WithLogger(config.Logger), cphttp.WithDebug(config.Debug))
	}
	if config.RetryMax > 0 {
		opts = append(opts, cphttp.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	httpClient := cphttp.NewClient(serverURL, config.AccessKey, opts...)
	fs := afero.NewOsFs()

	return client.New(
		httpClient,
		archive.NewPackager(fs),
		upload.NewClient(fs, proxyURL),
		config.AppSeparator,
	), nil
}

// NewWithAccessKey creates a client for the common case of a server URL and
// an access key with default settings everywhere else.
func NewWithAccessKey(serverURL, accessKey string) (codepush.Client, error) {
	if accessKey == "" {
		return nil, codepush.ErrAccessKeyRequired
	}

	return New(&codepush.Config{ServerURL: serverURL, AccessKey: accessKey})
}

func normalizeServerURL(serverURL string) string {
	normalized := strings.TrimSuffix(serverURL, "/")
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}
	return normalized
}
