package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/souhouse/code-push/internal/adapter"
	"github.com/souhouse/code-push/pkg/codepush"
)

// AddAccessKey implements codepush.AccessKeysAPI. The friendly name becomes
// the backend token's description.
func (c *Client) AddAccessKey(ctx context.Context, friendlyName string) (*codepush.AccessKey, error) {
	if friendlyName == "" {
		return nil, codepush.Conflictf("a friendly name is required")
	}

	resp, err := c.httpClient.Post(ctx, "/api_tokens", &adapter.AccessKeyCreateRequest{Description: friendlyName}, true)
	if err != nil {
		return nil, fmt.Errorf("creating access key: %w", err)
	}

	var token adapter.ApiToken
	if err := parseBody("access key", resp.Body, &token); err != nil {
		return nil, err
	}
	return adapter.AccessKeyFromToken(&token), nil
}

// GetAccessKeys implements codepush.AccessKeysAPI.
func (c *Client) GetAccessKeys(ctx context.Context) ([]codepush.AccessKey, error) {
	tokens, err := c.listTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing access keys: %w", err)
	}
	return adapter.AccessKeysFromTokens(tokens), nil
}

// RemoveAccessKey implements codepush.AccessKeysAPI. Keys are addressed by
// friendly name, which costs a listing to find the backend token ID.
func (c *Client) RemoveAccessKey(ctx context.Context, name string) error {
	tokens, err := c.listTokens(ctx)
	if err != nil {
		return fmt.Errorf("removing access key: %w", err)
	}

	for _, token := range tokens {
		if token.Description != name {
			continue
		}
		if _, err := c.httpClient.Delete(ctx, "/api_tokens/"+url.PathEscape(token.ID)); err != nil {
			return fmt.Errorf("removing access key: %w", err)
		}
		return nil
	}
	return codepush.NewError(fmt.Sprintf("access key %q not found", name), codepush.StatusNotFound)
}

func (c *Client) listTokens(ctx context.Context) ([]adapter.ApiToken, error) {
	resp, err := c.httpClient.Get(ctx, "/api_tokens", nil)
	if err != nil {
		return nil, err
	}

	var tokens []adapter.ApiToken
	if err := parseBody("access keys", resp.Body, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// PatchAccessKey implements codepush.AccessKeysAPI. Backend tokens cannot be
// renamed, so the operation is permanently deprecated.
func (c *Client) PatchAccessKey(ctx context.Context, oldName, newName string) (*codepush.AccessKey, error) {
	return nil, codepush.ErrDeprecatedMethod
}

// GetSessions implements codepush.AccessKeysAPI. The token model replaced
// login sessions.
func (c *Client) GetSessions(ctx context.Context) ([]codepush.Session, error) {
	return nil, codepush.ErrDeprecatedMethod
}

// RemoveSession implements codepush.AccessKeysAPI. The token model replaced
// login sessions.
func (c *Client) RemoveSession(ctx context.Context, machineName string) error {
	return codepush.ErrDeprecatedMethod
}
