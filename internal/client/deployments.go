package client

import (
	"context"
	"fmt"

	"github.com/souhouse/code-push/internal/adapter"
	"github.com/souhouse/code-push/pkg/codepush"
)

// AddDeployment implements codepush.DeploymentsAPI.
func (c *Client) AddDeployment(ctx context.Context, appName, deploymentName string) (*codepush.Deployment, error) {
	if deploymentName == "" {
		return nil, codepush.Conflictf("a deployment name is required")
	}

	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	deployment, err := c.createDeployment(ctx, owner, name, deploymentName)
	if err != nil {
		return nil, fmt.Errorf("creating deployment: %w", err)
	}
	return adapter.DeploymentFromBackend(deployment), nil
}

// GetDeployments implements codepush.DeploymentsAPI.
func (c *Client) GetDeployments(ctx context.Context, appName string) ([]codepush.Deployment, error) {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	deployments, err := c.listDeployments(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("listing deployments: %w", err)
	}
	return adapter.DeploymentsFromBackend(deployments), nil
}

// GetDeployment implements codepush.DeploymentsAPI.
func (c *Client) GetDeployment(ctx context.Context, appName, deploymentName string) (*codepush.Deployment, error) {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, deploymentPath(owner, name, deploymentName), nil)
	if err != nil {
		return nil, fmt.Errorf("getting deployment: %w", err)
	}

	var deployment adapter.Deployment
	if err := parseBody("deployment", resp.Body, &deployment); err != nil {
		return nil, err
	}
	return adapter.DeploymentFromBackend(&deployment), nil
}

// RenameDeployment implements codepush.DeploymentsAPI.
func (c *Client) RenameDeployment(ctx context.Context, appName, oldDeploymentName, newDeploymentName string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	path := deploymentPath(owner, name, oldDeploymentName)
	if _, err := c.httpClient.Patch(ctx, path, &adapter.DeploymentRenameRequest{Name: newDeploymentName}); err != nil {
		return fmt.Errorf("renaming deployment: %w", err)
	}
	return nil
}

// RemoveDeployment implements codepush.DeploymentsAPI.
func (c *Client) RemoveDeployment(ctx context.Context, appName, deploymentName string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	if _, err := c.httpClient.Delete(ctx, deploymentPath(owner, name, deploymentName)); err != nil {
		return fmt.Errorf("removing deployment: %w", err)
	}
	return nil
}

// ClearDeploymentHistory implements codepush.DeploymentsAPI. Clearing keeps
// the deployment and its key but drops every release.
func (c *Client) ClearDeploymentHistory(ctx context.Context, appName, deploymentName string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	path := deploymentPath(owner, name, deploymentName) + "/releases"
	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("clearing deployment history: %w", err)
	}
	return nil
}

// GetDeploymentHistory implements codepush.DeploymentsAPI. Releases come
// back in the backend's storage order, oldest first.
func (c *Client) GetDeploymentHistory(ctx context.Context, appName, deploymentName string) ([]codepush.Package, error) {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, deploymentPath(owner, name, deploymentName)+"/releases", nil)
	if err != nil {
		return nil, fmt.Errorf("getting deployment history: %w", err)
	}

	var releases []adapter.CodePushRelease
	if err := parseBody("deployment history", resp.Body, &releases); err != nil {
		return nil, err
	}
	return adapter.ReleasesFromBackend(releases), nil
}

// GetDeploymentMetrics implements codepush.DeploymentsAPI.
func (c *Client) GetDeploymentMetrics(ctx context.Context, appName, deploymentName string) (codepush.DeploymentMetrics, error) {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, deploymentPath(owner, name, deploymentName)+"/metrics", nil)
	if err != nil {
		return nil, fmt.Errorf("getting deployment metrics: %w", err)
	}

	var metrics []adapter.DeploymentMetric
	if err := parseBody("deployment metrics", resp.Body, &metrics); err != nil {
		return nil, err
	}
	return adapter.MetricsFromBackend(metrics), nil
}

// listDeployments fetches the raw deployment list for one app.
func (c *Client) listDeployments(ctx context.Context, owner, app string) ([]adapter.Deployment, error) {
	resp, err := c.httpClient.Get(ctx, appPath(owner, app)+"/deployments", nil)
	if err != nil {
		return nil, err
	}

	var deployments []adapter.Deployment
	if err := parseBody("deployments", resp.Body, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

// createDeployment posts one deployment for an already-resolved app.
func (c *Client) createDeployment(ctx context.Context, owner, app, deploymentName string) (*adapter.Deployment, error) {
	path := appPath(owner, app) + "/deployments"
	resp, err := c.httpClient.Post(ctx, path, &adapter.DeploymentCreateRequest{Name: deploymentName}, true)
	if err != nil {
		return nil, err
	}

	var deployment adapter.Deployment
	if err := parseBody("deployment", resp.Body, &deployment); err != nil {
		return nil, err
	}
	return &deployment, nil
}
