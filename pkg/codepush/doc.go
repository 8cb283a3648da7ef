// Package codepush defines the stable client-facing model for a CodePush
// update-distribution backend: apps, deployments, release packages, access
// keys, collaborator maps, and deployment metrics, together with the Client
// interface that exposes every management operation.
//
// # Overview
//
// The backend's wire format drifts release to release: fields are renamed,
// made optional, or dropped without notice. This package pins down the
// contract callers program against; the translation to and from whatever the
// backend currently speaks lives in the internal adapter and is wired up by
// the cpclient package. Most consumers should construct a client through
// cpclient and use the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/souhouse/code-push/pkg/cpclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := cpclient.NewWithAccessKey("https://codepush.example.com", "ak_...")
//	  if err != nil { log.Fatal(err) }
//
//	  apps, err := cli.GetApps(ctx)
//	  if err != nil { log.Fatal(err) }
//	  _ = apps
//	}
//
// # App identifiers
//
// Operations accept either a bare app name ("MyApp"), which is resolved
// against the caller's own account, or a qualified identifier
// ("owner/MyApp"). Deployments hosted behind proxies that decode %2F can be
// addressed with the legacy "owner~~MyApp" form by setting
// Config.AppSeparator to LegacyAppSeparator.
//
// # Errors
//
// Every failure surfaces as *Error with a message and the backend status
// code; helpers such as IsNotFound, IsUnauthorized, and IsConflict branch on
// the common cases. Validation problems are raised locally with the conflict
// status before any network call.
package codepush
