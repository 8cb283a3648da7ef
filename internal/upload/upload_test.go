package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souhouse/code-push/pkg/codepush"
)

func TestUpload(t *testing.T) {
	fs := afero.NewMemMapFs()
	payload := bytes.Repeat([]byte("x"), 4096)
	require.NoError(t, afero.WriteFile(fs, "/tmp/update.zip", payload, 0o644))

	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "POST", request.Method)
		assert.Equal(t, "/upload/up-1", request.URL.Path)
		assert.Equal(t, "tok", request.URL.Query().Get("token"))

		file, header, err := request.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "update.zip", header.Filename)

		received, err = io.ReadAll(file)
		require.NoError(t, err)
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var reports []float64
	err := NewClient(fs, nil).Upload(context.Background(),
		Asset{ID: "up-1", UploadDomain: server.URL, Token: "tok"},
		"/tmp/update.zip",
		func(percent float64) { reports = append(reports, percent) })

	require.NoError(t, err)
	assert.Equal(t, payload, received)

	require.NotEmpty(t, reports)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i], reports[i-1])
	}
	assert.Equal(t, float64(100), reports[len(reports)-1])
}

func TestUpload_NilProgress(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/update.zip", []byte("payload"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewClient(fs, nil).Upload(context.Background(),
		Asset{ID: "up-1", UploadDomain: server.URL + "/", Token: "tok"},
		"/tmp/update.zip", nil)

	require.NoError(t, err)
}

func TestUpload_RejectedToken(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/update.zip", []byte("payload"), 0o644))

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
		_, _ = writer.Write([]byte("invalid upload token"))
	}))
	defer server.Close()

	err := NewClient(fs, nil).Upload(context.Background(),
		Asset{ID: "up-1", UploadDomain: server.URL, Token: "expired"},
		"/tmp/update.zip", nil)

	require.Error(t, err)

	var cpErr *codepush.Error
	require.True(t, errors.As(err, &cpErr))
	assert.Equal(t, http.StatusForbidden, cpErr.StatusCode)
	assert.Equal(t, "invalid upload token", cpErr.Message)
}

func TestUpload_MissingArchive(t *testing.T) {
	fs := afero.NewMemMapFs()

	err := NewClient(fs, nil).Upload(context.Background(),
		Asset{ID: "up-1", UploadDomain: "http://127.0.0.1:0", Token: "tok"},
		"/tmp/missing.zip", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to inspect archive")
}
