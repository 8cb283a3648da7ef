package codepush

// Account describes the authenticated user as exposed by the legacy contract.
type Account struct {
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
	// LinkedProviders is a legacy field the current backend no longer
	// models; it is always empty.
	LinkedProviders []string `json:"linkedProviders" yaml:"linkedProviders"`
}

// Permission levels a collaborator can hold on an app.
const (
	PermissionOwner        = "Owner"
	PermissionManager      = "Manager"
	PermissionCollaborator = "Collaborator"
	PermissionReader       = "Reader"
)

// CollaboratorProperties describes a single collaborator of an app.
type CollaboratorProperties struct {
	IsCurrentAccount bool   `json:"isCurrentAccount" yaml:"isCurrentAccount"`
	Permission       string `json:"permission"       yaml:"permission"`
}

// CollaboratorMap maps a collaborator identifier (email, or owner name in
// the single-owner app view) to its properties.
type CollaboratorMap map[string]CollaboratorProperties

// Supported target operating systems for an app.
const (
	OSiOS     = "iOS"
	OSAndroid = "Android"
	OSWindows = "Windows"
	OSLinux   = "Linux"
)

// Supported client frameworks for an app.
const (
	PlatformReactNative = "React-Native"
	PlatformCordova     = "Cordova"
	PlatformElectron    = "Electron"
)

// Deployments provisioned automatically when an app is added.
const (
	DeploymentStaging    = "Staging"
	DeploymentProduction = "Production"
)

// App is the stable client-facing application entity. Name is qualified
// with an "owner/" prefix when the app is not owned by the caller.
type App struct {
	Name          string          `json:"name"                  yaml:"name"`
	Collaborators CollaboratorMap `json:"collaborators"         yaml:"collaborators"`
	Deployments   []string        `json:"deployments,omitempty" yaml:"deployments,omitempty"`
	OS            string          `json:"os,omitempty"          yaml:"os,omitempty"`
	Platform      string          `json:"platform,omitempty"    yaml:"platform,omitempty"`
}

// Deployment is a named release channel of an app. Package is the latest
// release and may be nil. ID and CreatedTime are populated on list
// responses only.
type Deployment struct {
	Name        string   `json:"name"                  yaml:"name"`
	Key         string   `json:"key"                   yaml:"key"`
	Package     *Package `json:"package,omitempty"     yaml:"package,omitempty"`
	ID          string   `json:"id,omitempty"          yaml:"id,omitempty"`
	CreatedTime int64    `json:"createdTime,omitempty" yaml:"createdTime,omitempty"`
}

// BlobInfo locates a stored artifact, such as a diff package blob.
type BlobInfo struct {
	Size int64  `json:"size" yaml:"size"`
	URL  string `json:"url"  yaml:"url"`
}

// Package is the stable release metadata entity. UploadTime is epoch
// milliseconds. Rollout is always set; releases the backend stores without
// a rollout are exposed as 100 (fully rolled out).
type Package struct {
	AppVersion         string              `json:"appVersion"                   yaml:"appVersion"`
	BlobURL            string              `json:"blobUrl"                      yaml:"blobUrl"`
	Size               int64               `json:"size"                         yaml:"size"`
	UploadTime         int64               `json:"uploadTime"                   yaml:"uploadTime"`
	IsDisabled         bool                `json:"isDisabled"                   yaml:"isDisabled"`
	IsMandatory        bool                `json:"isMandatory"                  yaml:"isMandatory"`
	Rollout            int                 `json:"rollout"                      yaml:"rollout"`
	Label              string              `json:"label,omitempty"              yaml:"label,omitempty"`
	Description        string              `json:"description,omitempty"        yaml:"description,omitempty"`
	PackageHash        string              `json:"packageHash,omitempty"        yaml:"packageHash,omitempty"`
	ReleasedBy         string              `json:"releasedBy,omitempty"         yaml:"releasedBy,omitempty"`
	ReleasedByUserID   string              `json:"releasedByUserId,omitempty"   yaml:"releasedByUserId,omitempty"`
	ReleaseMethod      string              `json:"releaseMethod,omitempty"      yaml:"releaseMethod,omitempty"`
	DiffPackageMap     map[string]BlobInfo `json:"diffPackageMap,omitempty"     yaml:"diffPackageMap,omitempty"`
	OriginalLabel      string              `json:"originalLabel,omitempty"      yaml:"originalLabel,omitempty"`
	OriginalDeployment string              `json:"originalDeployment,omitempty" yaml:"originalDeployment,omitempty"`
}

// Ways a release can reach a deployment.
const (
	ReleaseMethodUpload   = "Upload"
	ReleaseMethodPromote  = "Promote"
	ReleaseMethodRollback = "Rollback"
)

// AccessKey is a named credential for the management API. Key carries the
// one-time-visible secret and is present only in the creation response.
// Expires is a far-future sentinel: backend tokens do not expire.
type AccessKey struct {
	Name        string `json:"name"          yaml:"name"`
	CreatedTime int64  `json:"createdTime"   yaml:"createdTime"`
	Expires     int64  `json:"expires"       yaml:"expires"`
	Key         string `json:"key,omitempty" yaml:"key,omitempty"`
}

// UpdateMetrics holds installation counters for a single release label.
type UpdateMetrics struct {
	Active     int64 `json:"active"     yaml:"active"`
	Downloaded int64 `json:"downloaded" yaml:"downloaded"`
	Failed     int64 `json:"failed"     yaml:"failed"`
	Installed  int64 `json:"installed"  yaml:"installed"`
}

// DeploymentMetrics maps release labels to their update metrics.
type DeploymentMetrics map[string]UpdateMetrics

// PackageInfo carries caller-supplied release metadata for release, patch,
// and promote operations. Nil pointer fields mean "not specified" and are
// omitted from partial updates rather than sent as nulls.
type PackageInfo struct {
	AppVersion  string  `json:"appVersion,omitempty"  yaml:"appVersion,omitempty"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	IsDisabled  *bool   `json:"isDisabled,omitempty"  yaml:"isDisabled,omitempty"`
	IsMandatory *bool   `json:"isMandatory,omitempty" yaml:"isMandatory,omitempty"`
	Rollout     *int    `json:"rollout,omitempty"     yaml:"rollout,omitempty"`
	Label       *string `json:"label,omitempty"       yaml:"label,omitempty"`
}

// Session is the legacy login-session entity. The token model replaced
// sessions; the type remains only so deprecated operations keep their
// historical signatures.
type Session struct {
	MachineName  string `json:"machineName"  yaml:"machineName"`
	LoggedInTime int64  `json:"loggedInTime" yaml:"loggedInTime"`
}
