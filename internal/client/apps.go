package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/souhouse/code-push/internal/adapter"
	"github.com/souhouse/code-push/pkg/codepush"
)

// AddApp implements codepush.AppsAPI. Unless manual provisioning is
// requested, the default Staging and Production deployments are created
// before returning. The returned app echoes the request instead of
// re-fetching, matching the legacy contract.
func (c *Client) AddApp(ctx context.Context, appName, appOS, appPlatform string, manuallyProvisionDeployments bool) (*codepush.App, error) {
	request, org, err := adapter.BuildAppCreationRequest(appName, appOS, appPlatform, c.separator)
	if err != nil {
		return nil, err
	}

	path := "/apps"
	if org != "" {
		path = "/orgs/" + url.PathEscape(org) + "/apps"
	}
	resp, err := c.httpClient.Post(ctx, path, request, true)
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	var created adapter.App
	if err := parseBody("app", resp.Body, &created); err != nil {
		return nil, err
	}

	var deployments []string
	if !manuallyProvisionDeployments {
		owner := org
		if owner == "" {
			owner = created.Owner.Name
		}
		for _, name := range []string{codepush.DeploymentStaging, codepush.DeploymentProduction} {
			if _, err := c.createDeployment(ctx, owner, created.Name, name); err != nil {
				return nil, fmt.Errorf("provisioning default deployment %s: %w", name, err)
			}
			deployments = append(deployments, name)
		}
	}

	return &codepush.App{
		Name:        appName,
		Deployments: deployments,
		OS:          created.OS,
		Platform:    created.Platform,
	}, nil
}

// GetApps implements codepush.AppsAPI.
func (c *Client) GetApps(ctx context.Context) ([]codepush.App, error) {
	resp, err := c.httpClient.Get(ctx, "/apps", nil)
	if err != nil {
		return nil, fmt.Errorf("listing apps: %w", err)
	}

	var apps []adapter.App
	if err := parseBody("apps", resp.Body, &apps); err != nil {
		return nil, err
	}
	return adapter.AppsFromBackend(ctx, apps, c.userProfile, c.listDeployments)
}

// GetApp implements codepush.AppsAPI.
func (c *Client) GetApp(ctx context.Context, appName string) (*codepush.App, error) {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	app, err := c.backendApp(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("getting app: %w", err)
	}
	return adapter.AppFromBackend(ctx, app, c.userProfile, c.listDeployments)
}

// RenameApp implements codepush.AppsAPI. Renames stay within the owning
// user or organization.
func (c *Client) RenameApp(ctx context.Context, oldAppName, newAppName string) error {
	owner, name, err := c.resolveApp(ctx, oldAppName)
	if err != nil {
		return err
	}

	request, err := adapter.BuildRenamedApp(ctx, newAppName, owner, name, c.separator, c.backendApp)
	if err != nil {
		return err
	}
	if _, err := c.httpClient.Patch(ctx, appPath(owner, name), request); err != nil {
		return fmt.Errorf("renaming app: %w", err)
	}
	return nil
}

// RemoveApp implements codepush.AppsAPI.
func (c *Client) RemoveApp(ctx context.Context, appName string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	if _, err := c.httpClient.Delete(ctx, appPath(owner, name)); err != nil {
		return fmt.Errorf("removing app: %w", err)
	}
	return nil
}

// TransferApp implements codepush.AppsAPI.
func (c *Client) TransferApp(ctx context.Context, appName, orgName string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	path := appPath(owner, name) + "/transfer/" + url.PathEscape(orgName)
	if _, err := c.httpClient.Post(ctx, path, nil, false); err != nil {
		return fmt.Errorf("transferring app: %w", err)
	}
	return nil
}

// backendApp fetches one raw backend app record.
func (c *Client) backendApp(ctx context.Context, owner, app string) (*adapter.App, error) {
	resp, err := c.httpClient.Get(ctx, appPath(owner, app), nil)
	if err != nil {
		return nil, err
	}

	var record adapter.App
	if err := parseBody("app", resp.Body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
