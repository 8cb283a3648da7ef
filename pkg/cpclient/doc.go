// Package cpclient constructs CodePush management clients.
//
// It is the glue between the stable surface in pkg/codepush and the
// internal implementation packages: it normalizes the configuration, builds
// the authenticated transport, and wires in the release packager and asset
// uploader.
//
// Basic usage:
//
//	client, err := cpclient.NewWithAccessKey("https://codepush.example.com", os.Getenv("CODEPUSH_ACCESS_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	apps, err := client.GetApps(context.Background())
//
// For proxies, custom headers, retries, or the legacy "~~" app separator,
// build a codepush.Config and call New instead.
package cpclient
