// Package client implements the management facade behind codepush.Client.
// Operations resolve app identifiers, execute requests through the shared
// transport, and map wire payloads through the adapter into the stable
// model.
package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/souhouse/code-push/internal/archive"
	cphttp "github.com/souhouse/code-push/internal/http"
	"github.com/souhouse/code-push/internal/upload"
	"github.com/souhouse/code-push/pkg/codepush"
)

// Client implements codepush.Client.
type Client struct {
	httpClient *cphttp.Client
	packager   *archive.Packager
	uploader   *upload.Client
	separator  string
}

var _ codepush.Client = (*Client)(nil)

// New creates the facade. separator splits "owner<sep>app" identifiers and
// defaults to codepush.DefaultAppSeparator when empty.
func New(httpClient *cphttp.Client, packager *archive.Packager, uploader *upload.Client, separator string) *Client {
	if separator == "" {
		separator = codepush.DefaultAppSeparator
	}
	return &Client{
		httpClient: httpClient,
		packager:   packager,
		uploader:   uploader,
		separator:  separator,
	}
}

// parseBody decodes a response payload. Decode failures are internal server
// errors under the legacy contract, not plain parse errors.
func parseBody(what string, body []byte, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		return codepush.NewError(fmt.Sprintf("could not parse %s response: %v", what, err), codepush.StatusInternalServerError)
	}
	return nil
}

// appPath builds the base path for one app with both segments escaped.
func appPath(owner, app string) string {
	return fmt.Sprintf("/apps/%s/%s", url.PathEscape(owner), url.PathEscape(app))
}

func deploymentPath(owner, app, deployment string) string {
	return appPath(owner, app) + "/deployments/" + url.PathEscape(deployment)
}
