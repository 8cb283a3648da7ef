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

func TestAddDeployment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /apps/octocat/my-app/deployments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "Canary", body["name"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "Canary", "key": "dk-canary"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deployment, err := newTestClient(server.URL).AddDeployment(context.Background(), "octocat/my-app", "Canary")

	require.NoError(t, err)
	assert.Equal(t, "Canary", deployment.Name)
	assert.Equal(t, "dk-canary", deployment.Key)
	assert.Nil(t, deployment.Package)
}

func TestAddDeployment_EmptyName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).AddDeployment(context.Background(), "octocat/my-app", "")

	require.Error(t, err)
	assert.True(t, codepush.IsConflict(err))
}

func TestGetDeployments_SortedByName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/octocat/my-app/deployments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"name": "Staging", "key": "dk-2"},
			{"name": "Production", "key": "dk-1", "latest_release": map[string]interface{}{
				"target_binary_range": "1.0.0",
				"label":               "v3",
			}},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deployments, err := newTestClient(server.URL).GetDeployments(context.Background(), "octocat/my-app")

	require.NoError(t, err)
	require.Len(t, deployments, 2)
	assert.Equal(t, "Production", deployments[0].Name)
	assert.Equal(t, "Staging", deployments[1].Name)
	require.NotNil(t, deployments[0].Package)
	assert.Equal(t, "v3", deployments[0].Package.Label)
	assert.Equal(t, 100, deployments[0].Package.Rollout)
	assert.Nil(t, deployments[1].Package)
}

func TestGetDeployment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/octocat/my-app/deployments/Staging", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name": "Staging",
			"key":  "dk-staging",
			"latest_release": map[string]interface{}{
				"target_binary_range": ">=1.2.0",
				"blob_url":            "https://blobs.example.com/abc",
				"size":                512,
				"rollout":             25,
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deployment, err := newTestClient(server.URL).GetDeployment(context.Background(), "octocat/my-app", "Staging")

	require.NoError(t, err)
	assert.Equal(t, "dk-staging", deployment.Key)
	require.NotNil(t, deployment.Package)
	assert.Equal(t, ">=1.2.0", deployment.Package.AppVersion)
	assert.Equal(t, 25, deployment.Package.Rollout)
}

func TestRenameDeployment(t *testing.T) {
	patched := false
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /apps/octocat/my-app/deployments/Staging", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "QA", body["name"])
		patched = true

		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	err := newTestClient(server.URL).RenameDeployment(context.Background(), "octocat/my-app", "Staging", "QA")

	require.NoError(t, err)
	assert.True(t, patched)
}

func TestRemoveDeployment(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /apps/octocat/my-app/deployments/Staging", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	err := newTestClient(server.URL).RemoveDeployment(context.Background(), "octocat/my-app", "Staging")

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestClearDeploymentHistory(t *testing.T) {
	cleared := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /apps/octocat/my-app/deployments/Staging/releases", func(w http.ResponseWriter, r *http.Request) {
		cleared = true
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	err := newTestClient(server.URL).ClearDeploymentHistory(context.Background(), "octocat/my-app", "Staging")

	require.NoError(t, err)
	assert.True(t, cleared)
}

func TestGetDeploymentHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/octocat/my-app/deployments/Staging/releases", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"target_binary_range": "1.0.0", "label": "v1"},
			{"target_binary_range": "1.1.0", "label": "v2", "rollout": 50},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	history, err := newTestClient(server.URL).GetDeploymentHistory(context.Background(), "octocat/my-app", "Staging")

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "v1", history[0].Label)
	assert.Equal(t, 100, history[0].Rollout)
	assert.Equal(t, 50, history[1].Rollout)
}

func TestGetDeploymentMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/octocat/my-app/deployments/Production/metrics", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"label": "v1", "active": 12, "downloaded": 40, "failed": 2, "installed": 38},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	metrics, err := newTestClient(server.URL).GetDeploymentMetrics(context.Background(), "octocat/my-app", "Production")

	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, int64(12), metrics["v1"].Active)
	assert.Equal(t, int64(38), metrics["v1"].Installed)
}

func TestGetDeployment_EscapesPathSegments(t *testing.T) {
	hit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps/acme%20corp/my-app/deployments/Pre%20Prod", r.URL.EscapedPath())
		hit = true
		_ = json.NewEncoder(w).Encode(map[string]string{"name": "Pre Prod", "key": "dk"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetDeployment(context.Background(), "acme corp/my-app", "Pre Prod")

	require.NoError(t, err)
	assert.True(t, hit)
}
