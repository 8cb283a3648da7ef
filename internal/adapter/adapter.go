// Package adapter converts between the backend wire model and the stable
// client model in pkg/codepush, and validates outbound payloads before
// they reach the network.
package adapter

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/souhouse/code-push/internal/constants"
	"github.com/souhouse/code-push/pkg/codepush"
)

// Backend roles as they appear in user permission lists.
const (
	roleManager   = "manager"
	roleDeveloper = "developer"
)

// accessKeyExpires is the expiry reported for every access key. Backend
// tokens do not expire, so the legacy contract is satisfied with a
// far-future timestamp.
var accessKeyExpires = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC).UnixMilli()

// UserLookup fetches the calling user's profile.
type UserLookup func(ctx context.Context) (*UserProfile, error)

// DeploymentsLookup lists the deployments of one app.
type DeploymentsLookup func(ctx context.Context, owner, app string) ([]Deployment, error)

// AppLookup fetches one backend app record.
type AppLookup func(ctx context.Context, owner, app string) (*App, error)

// AccountFromProfile converts a backend user profile to an account.
func AccountFromProfile(profile *UserProfile) *codepush.Account {
	if profile == nil {
		return nil
	}
	return &codepush.Account{
		Name:            profile.Name,
		Email:           profile.Email,
		LinkedProviders: []string{},
	}
}

// AppFromBackend converts a backend app to the client app view. The owner
// becomes the app's single listed collaborator, keyed by owner name, and the
// name is qualified with an "owner/" prefix when the caller does not own the
// app. The profile and deployment lookups run concurrently.
func AppFromBackend(ctx context.Context, app *App, currentUser UserLookup, listDeployments DeploymentsLookup) (*codepush.App, error) {
	if app == nil {
		return nil, nil
	}

	var (
		wg          sync.WaitGroup
		profile     *UserProfile
		deployments []Deployment
		profileErr  error
		listErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = currentUser(ctx)
	}()
	go func() {
		defer wg.Done()
		deployments, listErr = listDeployments(ctx, app.Owner.Name, app.Name)
	}()
	wg.Wait()
	if profileErr != nil {
		return nil, profileErr
	}
	if listErr != nil {
		return nil, listErr
	}

	names := make([]string, 0, len(deployments))
	for _, deployment := range deployments {
		names = append(names, deployment.Name)
	}
	sort.Strings(names)

	isCurrentAccount := app.Owner.ID == profile.ID
	name := app.Name
	if !isCurrentAccount {
		name = app.Owner.Name + "/" + app.Name
	}
	if app.DisplayName != "" && app.DisplayName != app.Name {
		name += " (" + app.DisplayName + ")"
	}

	return &codepush.App{
		Name: name,
		Collaborators: codepush.CollaboratorMap{
			app.Owner.Name: {
				IsCurrentAccount: isCurrentAccount,
				Permission:       codepush.PermissionOwner,
			},
		},
		Deployments: names,
		OS:          app.OS,
		Platform:    app.Platform,
	}, nil
}

// AppsFromBackend converts a backend app listing, sorted by owner name and
// then app name. Each app's profile and deployment joins run concurrently
// with bounded parallelism; the first failure aborts the whole conversion.
func AppsFromBackend(ctx context.Context, apps []App, currentUser UserLookup, listDeployments DeploymentsLookup) ([]codepush.App, error) {
	sorted := make([]App, len(apps))
	copy(sorted, apps)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Owner.Name != sorted[j].Owner.Name {
			return sorted[i].Owner.Name < sorted[j].Owner.Name
		}
		return sorted[i].Name < sorted[j].Name
	})

	results := make([]codepush.App, len(sorted))
	errs := make([]error, len(sorted))
	semaphore := make(chan struct{}, constants.AppMappingConcurrency)
	var wg sync.WaitGroup
	for i := range sorted {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			mapped, err := AppFromBackend(ctx, &sorted[i], currentUser, listDeployments)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = *mapped
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// CollaboratorsFromUsers converts a backend user listing to the collaborator
// map, keyed by email. Permission is derived from the user's first backend
// role: managers map to Owner when they are the app owner and Manager
// otherwise, developers map to Collaborator, and everything else is Reader.
func CollaboratorsFromUsers(ctx context.Context, users []UserProfile, appOwner string, currentUser UserLookup) (codepush.CollaboratorMap, error) {
	profile, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	collaborators := make(codepush.CollaboratorMap, len(users))
	for _, user := range users {
		collaborators[user.Email] = codepush.CollaboratorProperties{
			IsCurrentAccount: user.Email == profile.Email,
			Permission:       permissionForUser(user, appOwner),
		}
	}
	return collaborators, nil
}

func permissionForUser(user UserProfile, appOwner string) string {
	role := ""
	if len(user.Permissions) > 0 {
		role = user.Permissions[0]
	}
	switch role {
	case roleManager:
		if user.Name == appOwner {
			return codepush.PermissionOwner
		}
		return codepush.PermissionManager
	case roleDeveloper:
		return codepush.PermissionCollaborator
	default:
		return codepush.PermissionReader
	}
}

// DeploymentFromBackend converts a single backend deployment.
func DeploymentFromBackend(deployment *Deployment) *codepush.Deployment {
	if deployment == nil {
		return nil
	}
	return &codepush.Deployment{
		Name:    deployment.Name,
		Key:     deployment.Key,
		Package: ReleaseFromBackend(deployment.LatestRelease),
	}
}

// DeploymentsFromBackend converts a backend deployment listing, sorted by
// deployment name.
func DeploymentsFromBackend(deployments []Deployment) []codepush.Deployment {
	converted := make([]codepush.Deployment, 0, len(deployments))
	for i := range deployments {
		converted = append(converted, *DeploymentFromBackend(&deployments[i]))
	}
	sort.SliceStable(converted, func(i, j int) bool {
		return converted[i].Name < converted[j].Name
	})
	return converted
}

// ReleaseFromBackend converts a backend release to a package. A nil release
// maps to nil, which is how deployments without releases are represented.
// A missing rollout means the release is fully rolled out.
func ReleaseFromBackend(release *CodePushRelease) *codepush.Package {
	if release == nil {
		return nil
	}

	pkg := &codepush.Package{
		AppVersion:         release.TargetBinaryRange,
		BlobURL:            release.BlobURL,
		Size:               release.Size,
		UploadTime:         release.UploadTime,
		IsDisabled:         release.IsDisabled,
		IsMandatory:        release.IsMandatory,
		Rollout:            100,
		Label:              release.Label,
		Description:        release.Description,
		PackageHash:        release.PackageHash,
		ReleasedBy:         release.ReleasedBy,
		ReleasedByUserID:   release.ReleasedByUserID,
		ReleaseMethod:      release.ReleaseMethod,
		OriginalLabel:      release.OriginalLabel,
		OriginalDeployment: release.OriginalDeployment,
	}
	if release.Rollout != nil {
		pkg.Rollout = *release.Rollout
	}
	if len(release.DiffPackageMap) > 0 {
		pkg.DiffPackageMap = make(map[string]codepush.BlobInfo, len(release.DiffPackageMap))
		for hash, blob := range release.DiffPackageMap {
			pkg.DiffPackageMap[hash] = codepush.BlobInfo{Size: blob.Size, URL: blob.URL}
		}
	}
	return pkg
}

// ReleasesFromBackend converts a backend release history in order.
func ReleasesFromBackend(releases []CodePushRelease) []codepush.Package {
	converted := make([]codepush.Package, 0, len(releases))
	for i := range releases {
		converted = append(converted, *ReleaseFromBackend(&releases[i]))
	}
	return converted
}

// MetricsFromBackend converts a backend metrics listing to a map keyed by
// release label.
func MetricsFromBackend(metrics []DeploymentMetric) codepush.DeploymentMetrics {
	converted := make(codepush.DeploymentMetrics, len(metrics))
	for _, metric := range metrics {
		converted[metric.Label] = codepush.UpdateMetrics{
			Active:     metric.Active,
			Downloaded: metric.Downloaded,
			Failed:     metric.Failed,
			Installed:  metric.Installed,
		}
	}
	return converted
}

// AccessKeyFromToken converts a freshly created API token, including the
// one-time-visible secret.
func AccessKeyFromToken(token *ApiToken) *codepush.AccessKey {
	if token == nil {
		return nil
	}
	return &codepush.AccessKey{
		Name:        token.Description,
		CreatedTime: parseTimeMillis(token.CreatedAt),
		Expires:     accessKeyExpires,
		Key:         token.APIToken,
	}
}

// AccessKeysFromTokens converts a token listing, sorted by creation time
// ascending. The secret is never present on listings.
func AccessKeysFromTokens(tokens []ApiToken) []codepush.AccessKey {
	keys := make([]codepush.AccessKey, 0, len(tokens))
	for _, token := range tokens {
		keys = append(keys, codepush.AccessKey{
			Name:        token.Description,
			CreatedTime: parseTimeMillis(token.CreatedAt),
			Expires:     accessKeyExpires,
		})
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].CreatedTime < keys[j].CreatedTime
	})
	return keys
}

// parseTimeMillis converts an RFC 3339 timestamp to epoch milliseconds.
// Missing or malformed timestamps map to zero so they sort first.
func parseTimeMillis(value string) int64 {
	if value == "" {
		return 0
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0
	}
	return parsed.UnixMilli()
}

// BuildAppCreationRequest validates the app name, OS, and framework and
// builds the creation payload. When the name contains the separator, the
// leading segment is returned as the owning organization and the remainder
// becomes both the backend name and display name.
func BuildAppCreationRequest(appName, appOS, appPlatform, separator string) (*AppCreationRequest, string, error) {
	org := ""
	name := appName
	if idx := strings.Index(appName, separator); separator != "" && idx >= 0 {
		org = appName[:idx]
		name = appName[idx+len(separator):]
	}

	if err := validateAppName(name); err != nil {
		return nil, "", err
	}
	if err := validateOS(appOS); err != nil {
		return nil, "", err
	}
	if err := validatePlatform(appPlatform); err != nil {
		return nil, "", err
	}

	return &AppCreationRequest{
		DisplayName: name,
		Name:        name,
		OS:          appOS,
		Platform:    appPlatform,
	}, org, nil
}

// BuildRenamedApp validates the new name and builds the rename payload. The
// new name must not contain the separator: renames cannot move an app to
// another organization. The display name travels along only when it matched
// the old name, so custom display names survive renames untouched.
func BuildRenamedApp(ctx context.Context, newName, owner, oldName, separator string, getApp AppLookup) (*AppRenameRequest, error) {
	if separator != "" && strings.Contains(newName, separator) {
		return nil, codepush.Conflictf("app name %q cannot contain %q", newName, separator)
	}
	if err := validateAppName(newName); err != nil {
		return nil, err
	}

	existing, err := getApp(ctx, owner, oldName)
	if err != nil {
		return nil, err
	}

	request := &AppRenameRequest{Name: newName}
	if existing.Name == existing.DisplayName {
		request.DisplayName = newName
	}
	return request, nil
}

// BuildReleaseUploadProperties builds the release-commit payload from the
// finished upload and the caller's package info. Optional metadata is copied
// only when truthy, matching the legacy contract: explicit false and zero
// values are indistinguishable from unset and are dropped.
func BuildReleaseUploadProperties(info codepush.PackageInfo, upload ReleaseUpload, deploymentName string) (*ReleaseUploadProperties, error) {
	if info.AppVersion == "" {
		return nil, codepush.Conflictf("a target binary version is required")
	}
	if err := validateRollout(info.Rollout); err != nil {
		return nil, err
	}

	properties := &ReleaseUploadProperties{
		ReleaseUpload:           upload,
		TargetBinaryVersion:     info.AppVersion,
		DeploymentName:          deploymentName,
		NoDuplicateReleaseError: false,
	}
	if info.Description != nil && *info.Description != "" {
		properties.Description = *info.Description
	}
	if info.IsDisabled != nil && *info.IsDisabled {
		properties.Disabled = true
	}
	if info.IsMandatory != nil && *info.IsMandatory {
		properties.Mandatory = true
	}
	if info.Rollout != nil && *info.Rollout != 0 {
		properties.Rollout = *info.Rollout
	}
	return properties, nil
}

// BuildReleaseModification builds the partial-update payload from the
// caller's package info. Unlike the upload payload, definedness is what
// counts here: any non-nil field is copied, so explicit false and zero
// values reach the backend.
func BuildReleaseModification(info codepush.PackageInfo) (*ReleaseModification, error) {
	if err := validateRollout(info.Rollout); err != nil {
		return nil, err
	}

	modification := &ReleaseModification{
		IsDisabled:  info.IsDisabled,
		IsMandatory: info.IsMandatory,
		Description: info.Description,
		Rollout:     info.Rollout,
		Label:       info.Label,
	}
	if info.AppVersion != "" {
		version := info.AppVersion
		modification.TargetBinaryRange = &version
	}
	return modification, nil
}

var appNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func validateAppName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("cannot be empty"),
		validation.Length(constants.AppNameMinLength, constants.AppNameMaxLength).Error("is too long"),
		validation.Match(appNamePattern).Error("may only contain letters, digits, '.', '_', and '-'"),
	)
	if err != nil {
		return codepush.Conflictf("invalid app name %q: %v", name, err)
	}
	return nil
}

func validateOS(appOS string) error {
	err := validation.Validate(appOS,
		validation.Required.Error("cannot be empty"),
		validation.In(codepush.OSiOS, codepush.OSAndroid, codepush.OSWindows, codepush.OSLinux).
			Error("must be one of iOS, Android, Windows, Linux"),
	)
	if err != nil {
		return codepush.Conflictf("invalid os %q: %v", appOS, err)
	}
	return nil
}

func validatePlatform(appPlatform string) error {
	err := validation.Validate(appPlatform,
		validation.Required.Error("cannot be empty"),
		validation.In(codepush.PlatformReactNative, codepush.PlatformCordova, codepush.PlatformElectron).
			Error("must be one of React-Native, Cordova, Electron"),
	)
	if err != nil {
		return codepush.Conflictf("invalid platform %q: %v", appPlatform, err)
	}
	return nil
}

func validateRollout(rollout *int) error {
	if rollout == nil {
		return nil
	}
	err := validation.Validate(*rollout,
		validation.Min(1).Error("must be between 1 and 100"),
		validation.Max(100).Error("must be between 1 and 100"),
	)
	if err != nil {
		return codepush.Conflictf("invalid rollout %d: %v", *rollout, err)
	}
	return nil
}
