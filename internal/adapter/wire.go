package adapter

// Backend wire types. These mirror whatever the backend currently returns
// and are deliberately kept apart from the stable model in pkg/codepush:
// when the backend renames or drops a field, the change stays inside this
// package and its mapping functions.

// UserProfile is the backend's view of an account.
type UserProfile struct {
	ID                string   `json:"id"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
	CanChangePassword bool     `json:"can_change_password,omitempty"`
	DisplayName       string   `json:"display_name,omitempty"`
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	Permissions       []string `json:"permissions,omitempty"`
}

// AppOwner identifies the user or organization an app belongs to.
type AppOwner struct {
	ID          string `json:"id"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
}

// App is the backend application record.
type App struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description,omitempty"`
	DisplayName string   `json:"display_name"`
	Name        string   `json:"name"`
	OS          string   `json:"os,omitempty"`
	Platform    string   `json:"platform,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Owner       AppOwner `json:"owner"`
}

// Deployment is the backend release channel record. LatestRelease is null
// for deployments that have never seen a release.
type Deployment struct {
	ID            string           `json:"id,omitempty"`
	Name          string           `json:"name"`
	Key           string           `json:"key"`
	LatestRelease *CodePushRelease `json:"latest_release,omitempty"`
}

// DiffBlobInfo locates a single diff blob inside a release's diff map.
type DiffBlobInfo struct {
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// CodePushRelease is the backend release record. Rollout is a pointer:
// some backend generations omit it entirely for fully rolled-out releases.
type CodePushRelease struct {
	TargetBinaryRange  string                  `json:"target_binary_range"`
	BlobURL            string                  `json:"blob_url"`
	Size               int64                   `json:"size"`
	UploadTime         int64                   `json:"upload_time"`
	IsDisabled         bool                    `json:"is_disabled"`
	IsMandatory        bool                    `json:"is_mandatory"`
	Label              string                  `json:"label,omitempty"`
	Description        string                  `json:"description,omitempty"`
	PackageHash        string                  `json:"package_hash,omitempty"`
	Rollout            *int                    `json:"rollout,omitempty"`
	DiffPackageMap     map[string]DiffBlobInfo `json:"diff_package_map,omitempty"`
	ReleasedBy         string                  `json:"released_by,omitempty"`
	ReleasedByUserID   string                  `json:"released_by_user_id,omitempty"`
	ReleaseMethod      string                  `json:"release_method,omitempty"`
	OriginalLabel      string                  `json:"original_label,omitempty"`
	OriginalDeployment string                  `json:"original_deployment,omitempty"`
}

// ApiToken is the backend credential record. APIToken carries the secret
// and is present only in the creation response; CreatedAt is RFC 3339.
type ApiToken struct {
	ID          string `json:"id"`
	APIToken    string `json:"api_token,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// DeploymentMetric is one row of the backend metrics listing.
type DeploymentMetric struct {
	Label      string `json:"label"`
	Active     int64  `json:"active"`
	Downloaded int64  `json:"downloaded"`
	Failed     int64  `json:"failed"`
	Installed  int64  `json:"installed"`
}

// ReleaseUpload is the asset placeholder handed out by the uploads
// endpoint before a release is committed.
type ReleaseUpload struct {
	ID           string `json:"id"`
	UploadDomain string `json:"upload_domain"`
	Token        string `json:"token"`
}

// AppCreationRequest is the validated app-creation payload.
type AppCreationRequest struct {
	Description string `json:"description,omitempty"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	OS          string `json:"os"`
	Platform    string `json:"platform"`
}

// AppRenameRequest is the app-update payload. DisplayName is set only when
// the rename should carry the display name along.
type AppRenameRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

// ReleaseUploadProperties is the release-commit payload. Optional metadata
// is included only when truthy, matching the legacy contract.
// NoDuplicateReleaseError is reserved and always false.
type ReleaseUploadProperties struct {
	ReleaseUpload           ReleaseUpload `json:"release_upload"`
	TargetBinaryVersion     string        `json:"target_binary_version"`
	DeploymentName          string        `json:"deployment_name"`
	Description             string        `json:"description,omitempty"`
	Disabled                bool          `json:"disabled,omitempty"`
	Mandatory               bool          `json:"mandatory,omitempty"`
	Rollout                 int           `json:"rollout,omitempty"`
	NoDuplicateReleaseError bool          `json:"no_duplicate_release_error"`
}

// ReleaseModification is the partial-update payload for an existing
// release. Nil fields are omitted entirely so the backend performs a true
// partial patch; explicit false and zero values are still expressible.
type ReleaseModification struct {
	TargetBinaryRange *string `json:"target_binary_range,omitempty"`
	IsDisabled        *bool   `json:"is_disabled,omitempty"`
	IsMandatory       *bool   `json:"is_mandatory,omitempty"`
	Description       *string `json:"description,omitempty"`
	Rollout           *int    `json:"rollout,omitempty"`
	Label             *string `json:"label,omitempty"`
}

// Empty reports whether the modification carries no fields at all.
func (m *ReleaseModification) Empty() bool {
	return m.TargetBinaryRange == nil &&
		m.IsDisabled == nil &&
		m.IsMandatory == nil &&
		m.Description == nil &&
		m.Rollout == nil &&
		m.Label == nil
}

// DeploymentCreateRequest creates a named deployment.
type DeploymentCreateRequest struct {
	Name string `json:"name"`
}

// DeploymentRenameRequest renames a deployment.
type DeploymentRenameRequest struct {
	Name string `json:"name"`
}

// CollaboratorInvitation invites a user to an app by email.
type CollaboratorInvitation struct {
	UserEmail string `json:"user_email"`
}

// AccessKeyCreateRequest creates an API token; Description doubles as the
// access key's friendly name.
type AccessKeyCreateRequest struct {
	Description string `json:"description"`
}

// RollbackRequest targets a specific release label; empty rolls back to
// the previous release.
type RollbackRequest struct {
	Label string `json:"label,omitempty"`
}
