package client

import (
	"context"
	"strings"
)

// resolveApp splits an app identifier into owner and app name at the first
// separator. Unqualified identifiers belong to the calling user, which
// costs one profile lookup.
func (c *Client) resolveApp(ctx context.Context, identifier string) (string, string, error) {
	if idx := strings.Index(identifier, c.separator); idx >= 0 {
		return identifier[:idx], identifier[idx+len(c.separator):], nil
	}

	profile, err := c.userProfile(ctx)
	if err != nil {
		return "", "", err
	}
	return profile.Name, identifier, nil
}
