package client

import (
	"context"
	"fmt"

	"github.com/souhouse/code-push/internal/adapter"
	"github.com/souhouse/code-push/pkg/codepush"
)

// userProfile fetches the calling user's backend profile.
func (c *Client) userProfile(ctx context.Context) (*adapter.UserProfile, error) {
	resp, err := c.httpClient.Get(ctx, "/user", nil)
	if err != nil {
		return nil, err
	}

	var profile adapter.UserProfile
	if err := parseBody("user", resp.Body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetAccountInfo implements codepush.AccountAPI.
func (c *Client) GetAccountInfo(ctx context.Context) (*codepush.Account, error) {
	profile, err := c.userProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting account info: %w", err)
	}
	return adapter.AccountFromProfile(profile), nil
}

// IsAuthenticated implements codepush.AccountAPI. An unauthorized response
// reports false; with throwIfUnauthorized it surfaces as the error instead.
// Every other failure propagates regardless.
func (c *Client) IsAuthenticated(ctx context.Context, throwIfUnauthorized bool) (bool, error) {
	if _, err := c.userProfile(ctx); err != nil {
		if codepush.IsUnauthorized(err) && !throwIfUnauthorized {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
