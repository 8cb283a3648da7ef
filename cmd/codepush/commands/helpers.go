// Package commands implements the codepush CLI command tree.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/souhouse/code-push/internal/constants"
	"github.com/souhouse/code-push/pkg/codepush"
	"github.com/souhouse/code-push/pkg/cpclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	NotAvailable = "N/A"

	defaultYAMLIndent = 2
)

// Common static errors used throughout the commands package.
var (
	ErrServerRequired    = errors.New("no server configured, run 'codepush login' or pass --server")
	ErrAccessKeyRequired = errors.New("not authenticated, run 'codepush login' or pass --access-key")
	ErrNotLoggedIn       = errors.New("not logged in")
)

// createClient builds a management client from the active configuration.
func createClient() (codepush.Client, error) {
	server := viper.GetString("server")
	if server == "" {
		return nil, ErrServerRequired
	}

	accessKey := viper.GetString("access-key")
	if accessKey == "" {
		return nil, ErrAccessKeyRequired
	}

	config := &codepush.Config{
		ServerURL: server,
		AccessKey: accessKey,
		Proxy:     viper.GetString("proxy"),
	}
	if viper.GetBool("verbose") {
		config.Logger = newCLILogger()
		config.Debug = true
	}

	client, err := cpclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// StandardJSONRenderer encodes data as indented JSON on stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML on stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// formatEpochMillis renders a stable-model timestamp for table output.
func formatEpochMillis(millis int64) string {
	if millis <= 0 {
		return NotAvailable
	}

	return time.UnixMilli(millis).UTC().Format("2006-01-02 15:04")
}

// displayCase normalizes backend-cased labels (release methods, permission
// roles) for table output. Older servers report them lowercased.
func displayCase(value string) string {
	if value == "" {
		return NotAvailable
	}

	return cases.Title(language.English).String(strings.ToLower(value))
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

// storedConfig is what login persists and logout clears.
type storedConfig struct {
	Server    string `yaml:"server"`
	AccessKey string `yaml:"access_key"`
}

// configFilePath returns the active config file, defaulting to
// ~/.codepush/config.yml.
func configFilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".codepush", "config.yml"), nil
}

// saveConfig persists the login credentials. The file holds the access key,
// so it is written user-readable only.
func saveConfig(config storedConfig) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// removeConfig deletes the stored credentials, ignoring a missing file.
func removeConfig() error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing config: %w", err)
	}

	return nil
}
