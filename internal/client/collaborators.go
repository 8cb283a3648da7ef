package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/souhouse/code-push/internal/adapter"
	"github.com/souhouse/code-push/pkg/codepush"
)

// AddCollaborator implements codepush.CollaboratorsAPI. The backend invites
// collaborators by email.
func (c *Client) AddCollaborator(ctx context.Context, appName, email string) error {
	if email == "" {
		return codepush.Conflictf("an email address is required")
	}

	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	path := appPath(owner, name) + "/invitations"
	if _, err := c.httpClient.Post(ctx, path, &adapter.CollaboratorInvitation{UserEmail: email}, false); err != nil {
		return fmt.Errorf("adding collaborator: %w", err)
	}
	return nil
}

// GetCollaborators implements codepush.CollaboratorsAPI.
func (c *Client) GetCollaborators(ctx context.Context, appName string) (codepush.CollaboratorMap, error) {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, appPath(owner, name)+"/users", nil)
	if err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}

	var users []adapter.UserProfile
	if err := parseBody("collaborators", resp.Body, &users); err != nil {
		return nil, err
	}
	return adapter.CollaboratorsFromUsers(ctx, users, owner, c.userProfile)
}

// RemoveCollaborator implements codepush.CollaboratorsAPI.
func (c *Client) RemoveCollaborator(ctx context.Context, appName, email string) error {
	owner, name, err := c.resolveApp(ctx, appName)
	if err != nil {
		return err
	}

	path := appPath(owner, name) + "/invitations/" + url.PathEscape(email)
	if _, err := c.httpClient.Delete(ctx, path); err != nil {
		return fmt.Errorf("removing collaborator: %w", err)
	}
	return nil
}
