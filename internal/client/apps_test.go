package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souhouse/code-push/pkg/codepush"
)

func TestAddApp(t *testing.T) {
	var deploymentNames []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /apps", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "my-app", body["name"])
		assert.Equal(t, "my-app", body["display_name"])
		assert.Equal(t, "iOS", body["os"])
		assert.Equal(t, "React-Native", body["platform"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         "my-app",
			"display_name": "my-app",
			"os":           "iOS",
			"platform":     "React-Native",
			"owner":        map[string]string{"id": "u-1", "name": "octocat"},
		})
	})
	mux.HandleFunc("POST /apps/octocat/my-app/deployments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		deploymentNames = append(deploymentNames, body["name"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"name": body["name"], "key": "key-" + body["name"]})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	app, err := newTestClient(server.URL).AddApp(context.Background(), "my-app", codepush.OSiOS, codepush.PlatformReactNative, false)

	require.NoError(t, err)
	assert.Equal(t, "my-app", app.Name)
	assert.Equal(t, codepush.OSiOS, app.OS)
	assert.Equal(t, codepush.PlatformReactNative, app.Platform)
	assert.Equal(t, []string{"Staging", "Production"}, deploymentNames)
	assert.Equal(t, []string{"Staging", "Production"}, app.Deployments)
}

func TestAddApp_ManualProvisioning(t *testing.T) {
	deploymentPosts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /apps", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         "my-app",
			"display_name": "my-app",
			"owner":        map[string]string{"id": "u-1", "name": "octocat"},
		})
	})
	mux.HandleFunc("POST /apps/octocat/my-app/deployments", func(w http.ResponseWriter, r *http.Request) {
		deploymentPosts++
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	app, err := newTestClient(server.URL).AddApp(context.Background(), "my-app", codepush.OSAndroid, codepush.PlatformCordova, true)

	require.NoError(t, err)
	assert.Empty(t, app.Deployments)
	assert.Zero(t, deploymentPosts)
}

func TestAddApp_OrganizationQualified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orgs/acme/apps", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "mobile", body["name"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         "mobile",
			"display_name": "mobile",
			"owner":        map[string]string{"id": "org-1", "name": "acme"},
		})
	})
	mux.HandleFunc("POST /apps/acme/mobile/deployments", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"name": body["name"], "key": "k"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	app, err := newTestClient(server.URL).AddApp(context.Background(), "acme/mobile", codepush.OSAndroid, codepush.PlatformReactNative, false)

	require.NoError(t, err)
	assert.Equal(t, "acme/mobile", app.Name)
}

func TestAddApp_InvalidOS(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).AddApp(context.Background(), "my-app", "PalmOS", codepush.PlatformReactNative, false)

	require.Error(t, err)
	assert.True(t, codepush.IsConflict(err))
	assert.Zero(t, requests)
}

func TestGetApps(t *testing.T) {
	var userCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		userCalls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u-1", "name": "octocat", "email": "octo@example.com"})
	})
	mux.HandleFunc("GET /apps", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"name": "zeta", "display_name": "zeta",
				"owner": map[string]string{"id": "u-1", "name": "octocat"},
			},
			{
				"name": "mobile", "display_name": "mobile",
				"owner": map[string]string{"id": "org-1", "name": "acme"},
			},
		})
	})
	mux.HandleFunc("GET /apps/{owner}/{app}/deployments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"name": "Staging", "key": "k1"},
			{"name": "Production", "key": "k2"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	apps, err := newTestClient(server.URL).GetApps(context.Background())

	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "acme/mobile", apps[0].Name)
	assert.Equal(t, "zeta", apps[1].Name)
	assert.Equal(t, []string{"Production", "Staging"}, apps[1].Deployments)
	assert.Equal(t, int64(2), userCalls.Load())
}

func TestGetApp(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u-1", "name": "octocat", "email": "octo@example.com"})
	})
	mux.HandleFunc("GET /apps/octocat/my-app", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         "my-app",
			"display_name": "my-app",
			"os":           "iOS",
			"platform":     "React-Native",
			"owner":        map[string]string{"id": "u-1", "name": "octocat"},
		})
	})
	mux.HandleFunc("GET /apps/octocat/my-app/deployments", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{{"name": "Staging", "key": "k1"}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// Unqualified identifier: the owner comes from the profile.
	app, err := newTestClient(server.URL).GetApp(context.Background(), "my-app")

	require.NoError(t, err)
	assert.Equal(t, "my-app", app.Name)
	assert.True(t, app.Collaborators["octocat"].IsCurrentAccount)
	assert.Equal(t, []string{"Staging"}, app.Deployments)
}

func TestGetApp_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/octocat/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "App not found"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := newTestClient(server.URL).GetApp(context.Background(), "octocat/missing")

	require.Error(t, err)
	assert.True(t, codepush.IsNotFound(err))
}

func TestRenameApp(t *testing.T) {
	var patched map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /apps/octocat/old-app", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"name":         "old-app",
			"display_name": "old-app",
			"owner":        map[string]string{"id": "u-1", "name": "octocat"},
		})
	})
	mux.HandleFunc("PATCH /apps/octocat/old-app", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&patched)
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	err := newTestClient(server.URL).RenameApp(context.Background(), "octocat/old-app", "new-app")

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "new-app", "display_name": "new-app"}, patched)
}

func TestRenameApp_SeparatorRejected(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	err := newTestClient(server.URL).RenameApp(context.Background(), "octocat/old-app", "acme/new-app")

	require.Error(t, err)
	assert.True(t, codepush.IsConflict(err))
	assert.Zero(t, requests)
}

func TestRemoveApp(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /apps/octocat/my-app", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	err := newTestClient(server.URL).RemoveApp(context.Background(), "octocat/my-app")

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTransferApp(t *testing.T) {
	transferred := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /apps/octocat/my-app/transfer/acme", func(w http.ResponseWriter, r *http.Request) {
		transferred = true
		w.WriteHeader(http.StatusCreated)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	err := newTestClient(server.URL).TransferApp(context.Background(), "octocat/my-app", "acme")

	require.NoError(t, err)
	assert.True(t, transferred)
}
