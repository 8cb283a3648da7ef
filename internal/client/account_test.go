package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souhouse/code-push/pkg/codepush"
)

func TestGetAccountInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/user", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "u-1",
			"name":  "octocat",
			"email": "octo@example.com",
		})
	}))
	defer server.Close()

	account, err := newTestClient(server.URL).GetAccountInfo(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "octocat", account.Name)
	assert.Equal(t, "octo@example.com", account.Email)
	require.NotNil(t, account.LinkedProviders)
	assert.Empty(t, account.LinkedProviders)
}

func TestIsAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "u-1", "name": "octocat", "email": "octo@example.com"})
	}))
	defer server.Close()

	authenticated, err := newTestClient(server.URL).IsAuthenticated(context.Background(), false)

	require.NoError(t, err)
	assert.True(t, authenticated)
}

func TestIsAuthenticated_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "The access key is invalid"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	authenticated, err := client.IsAuthenticated(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, authenticated)

	authenticated, err = client.IsAuthenticated(context.Background(), true)
	require.Error(t, err)
	assert.False(t, authenticated)
	assert.True(t, codepush.IsUnauthorized(err))
}

func TestIsAuthenticated_OtherErrorsPropagate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).IsAuthenticated(context.Background(), false)

	require.Error(t, err)
	assert.False(t, codepush.IsUnauthorized(err))
}
