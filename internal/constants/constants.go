package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files, which hold
	// access keys.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for management API requests.
	DefaultHTTPTimeout = 30 * time.Second

	// UploadHTTPTimeout allows large release archives to finish streaming.
	UploadHTTPTimeout = 10 * time.Minute
)

// Retry limits for the transport's opt-in retry policy.
const (
	// DefaultRetryWaitMin is the minimum backoff between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum backoff between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Concurrency limits.
const (
	// AppMappingConcurrency bounds the per-app lookup joins issued while
	// mapping an app list.
	AppMappingConcurrency = 8
)

// Wire protocol details.
const (
	// APIVersion selects the backend contract generation via the Accept
	// header.
	APIVersion = 2

	// DefaultUserAgent identifies this client when the caller does not
	// override it.
	DefaultUserAgent = "code-push-go"

	// TempArchiveNameLength is the length of the random alphanumeric stem
	// of temporary release archives.
	TempArchiveNameLength = 15
)

// Validation bounds for app names.
const (
	AppNameMinLength = 1
	AppNameMaxLength = 1000
)
