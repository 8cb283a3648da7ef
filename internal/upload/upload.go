// Package upload streams release archives to the upload service that backs
// the management API. Assets are uploaded to a separate domain handed out
// per release, authenticated with a single-use token.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/souhouse/code-push/internal/constants"
	"github.com/souhouse/code-push/pkg/codepush"
)

// Asset identifies a pending upload slot on the upload service.
type Asset struct {
	ID           string
	UploadDomain string
	Token        string
}

// Client uploads release archives.
type Client struct {
	fs         afero.Fs
	httpClient *http.Client
}

// NewClient creates an upload client reading archives from fs. The proxy is
// optional and shared with the management transport's configuration.
func NewClient(fs afero.Fs, proxyURL *url.URL) *Client {
	httpClient := &http.Client{Timeout: constants.UploadHTTPTimeout}
	if proxyURL != nil {
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return &Client{fs: fs, httpClient: httpClient}
}

// Upload streams the file at archivePath to the asset's upload slot as
// multipart form data. onProgress, when non-nil, receives monotonically
// increasing percentages and is guaranteed a final 100 on success.
func (c *Client) Upload(ctx context.Context, asset Asset, archivePath string, onProgress codepush.ProgressFunc) error {
	info, err := c.fs.Stat(archivePath)
	if err != nil {
		return fmt.Errorf("failed to inspect archive: %w", err)
	}
	file, err := c.fs.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = file.Close() }()

	progress := &progressReader{
		reader: file,
		total:  info.Size(),
		report: onProgress,
	}

	pipeReader, pipeWriter := io.Pipe()
	form := multipart.NewWriter(pipeWriter)
	go func() {
		part, err := form.CreateFormFile("file", filepath.Base(archivePath))
		if err != nil {
			_ = pipeWriter.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, progress); err != nil {
			_ = pipeWriter.CloseWithError(err)
			return
		}
		_ = pipeWriter.CloseWithError(form.Close())
	}()

	uploadURL := fmt.Sprintf("%s/upload/%s?token=%s",
		strings.TrimSuffix(asset.UploadDomain, "/"),
		url.PathEscape(asset.ID),
		url.QueryEscape(asset.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, pipeReader)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return codepush.NewError(fmt.Sprintf("upload to %s failed: %v", asset.UploadDomain, err), codepush.StatusGatewayTimeout)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return codepush.NewError(fmt.Sprintf("failed to read upload response: %v", err), codepush.StatusGatewayTimeout)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return codepush.NewError(message, resp.StatusCode)
	}

	if onProgress != nil && progress.last < 100 {
		onProgress(100)
	}
	return nil
}

// progressReader reports upload progress as a percentage of total bytes.
// Reports never decrease; zero-length files report nothing here and rely on
// the final 100 from Upload.
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	report codepush.ProgressFunc
	last   float64
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.read += int64(n)
		r.emit()
	}
	return n, err
}

func (r *progressReader) emit() {
	if r.report == nil || r.total <= 0 {
		return
	}
	percent := float64(r.read) / float64(r.total) * 100
	if percent > 100 {
		percent = 100
	}
	if percent > r.last {
		r.last = percent
		r.report(percent)
	}
}
