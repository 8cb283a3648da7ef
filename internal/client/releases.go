package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/souhouse/code-push/internal/adapter"
	"github.com/souhouse/code-push/internal/upload"
	"github.com/souhouse/code-push/pkg/codepush"
)

// Release implements codepush.ReleasesAPI. The update at updatePath (a file,
// or a directory that gets zipped) is uploaded and committed as a new
// release of the deployment. targetBinaryVersion overrides info.AppVersion.
// A temporary archive is deleted on every exit path, and the release is
// never committed unless the asset upload succeeded.
func (c *Client) Release(ctx context.Context, appName, deploymentName, updatePath, targetBinaryVersion string, info codepush.PackageInfo, onProgress codepush.ProgressFunc) (*codepush.Package, error) {
	info.AppVersion = targetBinaryVersion

	archivePath, temporary, err := c.packager.Prepare(updatePath)
	if err != nil {
		return nil, err
	}
	if temporary {
		defer func() { _ = c.packager.Remove(archivePath) }()
	}

	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}
	deployment := deploymentPath(owner, name, deploymentName)

	resp, err := c.httpClient.Post(ctx, deployment+"/uploads", nil, true)
	if err != nil {
		return nil, fmt.Errorf("requesting upload slot: %w", err)
	}
	var slot adapter.ReleaseUpload
	if err := parseBody("upload", resp.Body, &slot); err != nil {
		return nil, err
	}

	asset := upload.Asset{ID: slot.ID, UploadDomain: slot.UploadDomain, Token: slot.Token}
	if err := c.uploader.Upload(ctx, asset, archivePath, onProgress); err != nil {
		return nil, fmt.Errorf("uploading release: %w", err)
	}

	properties, err := adapter.BuildReleaseUploadProperties(info, slot, deploymentName)
	if err != nil {
		return nil, err
	}
	resp, err = c.httpClient.Post(ctx, deployment+"/releases", properties, true)
	if err != nil {
		return nil, fmt.Errorf("committing release: %w", err)
	}

	var release adapter.CodePushRelease
	if err := parseBody("release", resp.Body, &release); err != nil {
		return nil, err
	}
	return adapter.ReleaseFromBackend(&release), nil
}

// PatchRelease implements codepush.ReleasesAPI. An empty label patches the
// latest release.
func (c *Client) PatchRelease(ctx context.Context, appName, deploymentName, label string, info codepush.PackageInfo) error {
	modification, err := adapter.BuildReleaseModification(info)
	if err != nil {
		return err
	}
	if modification.Empty() {
		return codepush.Conflictf("at least one property must be specified to patch a release")
	}

	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	if label == "" {
		label = "latest"
	}
	path := deploymentPath(owner, name, deploymentName) + "/releases/" + url.PathEscape(label)
	if _, err := c.httpClient.Patch(ctx, path, modification); err != nil {
		return fmt.Errorf("patching release: %w", err)
	}
	return nil
}

// PromoteRelease implements codepush.ReleasesAPI. info overrides selected
// metadata on the promoted copy; an empty info promotes verbatim.
func (c *Client) PromoteRelease(ctx context.Context, appName, sourceDeploymentName, destinationDeploymentName string, info codepush.PackageInfo) (*codepush.Package, error) {
	modification, err := adapter.BuildReleaseModification(info)
	if err != nil {
		return nil, err
	}

	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	path := deploymentPath(owner, name, sourceDeploymentName) + "/promote_release/" + url.PathEscape(destinationDeploymentName)
	resp, err := c.httpClient.Post(ctx, path, modification, true)
	if err != nil {
		return nil, fmt.Errorf("promoting release: %w", err)
	}

	var release adapter.CodePushRelease
	if err := parseBody("release", resp.Body, &release); err != nil {
		return nil, err
	}
	return adapter.ReleaseFromBackend(&release), nil
}

// RollbackRelease implements codepush.ReleasesAPI. An empty targetRelease
// rolls back to the previous release.
func (c *Client) RollbackRelease(ctx context.Context, appName, deploymentName, targetRelease string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	var body interface{}
	if targetRelease != "" {
		body = &adapter.RollbackRequest{Label: targetRelease}
	}
	path := deploymentPath(owner, name, deploymentName) + "/rollback_release"
	if _, err := c.httpClient.Post(ctx, path, body, false); err != nil {
		return fmt.Errorf("rolling back release: %w", err)
	}
	return nil
}
