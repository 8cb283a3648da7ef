package codepush

import (
	"context"
	"time"
)

// AccountAPI covers the authenticated user.
type AccountAPI interface {
	GetAccountInfo(ctx context.Context) (*Account, error)

	// IsAuthenticated issues the current-user lookup and reports whether it
	// succeeded with a response body. Unauthorized failures are suppressed
	// into false unless throwIfUnauthorized is set; every other error class
	// propagates.
	IsAuthenticated(ctx context.Context, throwIfUnauthorized bool) (bool, error)
}

// AccessKeysAPI manages named credentials for the management API.
type AccessKeysAPI interface {
	AddAccessKey(ctx context.Context, friendlyName string) (*AccessKey, error)
	GetAccessKeys(ctx context.Context) ([]AccessKey, error)
	RemoveAccessKey(ctx context.Context, name string) error

	// PatchAccessKey predates the token model. It always fails with
	// ErrDeprecatedMethod and performs no network call.
	PatchAccessKey(ctx context.Context, oldName, newName string) (*AccessKey, error)
	// GetSessions always fails with ErrDeprecatedMethod.
	GetSessions(ctx context.Context) ([]Session, error)
	// RemoveSession always fails with ErrDeprecatedMethod.
	RemoveSession(ctx context.Context, machineName string) error
}

// AppsAPI manages apps. App identifiers may be qualified ("owner/app", or
// the configured separator) or bare, in which case the caller's own account
// is looked up as the owner.
type AppsAPI interface {
	// AddApp creates the app and, unless manuallyProvisionDeployments is
	// set, provisions the default Staging and Production deployments.
	AddApp(ctx context.Context, appName, appOS, appPlatform string, manuallyProvisionDeployments bool) (*App, error)
	GetApps(ctx context.Context) ([]App, error)
	GetApp(ctx context.Context, appName string) (*App, error)
	RenameApp(ctx context.Context, oldAppName, newAppName string) error
	RemoveApp(ctx context.Context, appName string) error
	TransferApp(ctx context.Context, appName, orgName string) error
}

// CollaboratorsAPI manages who can work on an app.
type CollaboratorsAPI interface {
	AddCollaborator(ctx context.Context, appName, email string) error
	GetCollaborators(ctx context.Context, appName string) (CollaboratorMap, error)
	RemoveCollaborator(ctx context.Context, appName, email string) error
}

// DeploymentsAPI manages an app's release channels.
type DeploymentsAPI interface {
	AddDeployment(ctx context.Context, appName, deploymentName string) (*Deployment, error)
	ClearDeploymentHistory(ctx context.Context, appName, deploymentName string) error
	GetDeployments(ctx context.Context, appName string) ([]Deployment, error)
	GetDeployment(ctx context.Context, appName, deploymentName string) (*Deployment, error)
	GetDeploymentHistory(ctx context.Context, appName, deploymentName string) ([]Package, error)
	GetDeploymentMetrics(ctx context.Context, appName, deploymentName string) (DeploymentMetrics, error)
	RenameDeployment(ctx context.Context, appName, oldName, newName string) error
	RemoveDeployment(ctx context.Context, appName, deploymentName string) error
}

// ProgressFunc receives upload progress as a percentage in [0, 100].
type ProgressFunc func(percent float64)

// ReleasesAPI publishes and manipulates releases.
type ReleasesAPI interface {
	// Release uploads the file or directory at updatePath as a new release.
	// Directories are packaged into a temporary zip archive that is removed
	// on every exit path. onProgress may be nil.
	Release(ctx context.Context, appName, deploymentName, updatePath, targetBinaryVersion string, info PackageInfo, onProgress ProgressFunc) (*Package, error)
	PatchRelease(ctx context.Context, appName, deploymentName, label string, info PackageInfo) error
	PromoteRelease(ctx context.Context, appName, sourceDeploymentName, destinationDeploymentName string, info PackageInfo) (*Package, error)
	RollbackRelease(ctx context.Context, appName, deploymentName, targetRelease string) error
}

// Client is the full management surface.
type Client interface {
	AccountAPI
	AccessKeysAPI
	AppsAPI
	CollaboratorsAPI
	DeploymentsAPI
	ReleasesAPI
}

// Logger is the structured logging hook used by the transport and helpers.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// DefaultAppSeparator splits a qualified app identifier into owner and app
// name. LegacyAppSeparator is the historical token some call sites used
// because intermediate network hops decode %2F in path segments before
// routing.
const (
	DefaultAppSeparator = "/"
	LegacyAppSeparator  = "~~"
)

// Config carries everything a client needs at construction. It is never
// mutated after the client is built.
type Config struct {
	// ServerURL is the management API base URL, e.g.
	// "https://codepush.example.com". cpclient.New trims a trailing slash
	// and defaults the scheme to https.
	ServerURL string

	// AccessKey authenticates every request. Operations fail locally with
	// an unauthorized error when it is empty.
	AccessKey string

	// CustomHeaders are added to every request after the standard set.
	CustomHeaders map[string]string

	// AppSeparator is the token that splits "owner<sep>app" identifiers.
	// Empty selects DefaultAppSeparator.
	AppSeparator string

	// Proxy optionally routes requests through the given proxy URL.
	Proxy string

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RetryMax enables transport-level retries when positive. The core
	// never retries; this is the executor's own policy.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug enables request/response logging through Logger.
	Debug bool

	// Logger receives transport logs. Nil disables logging.
	Logger Logger
}
