package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/souhouse/code-push/pkg/codepush"
)

// packageInfoFromFlags builds a PackageInfo carrying only the flags the
// caller actually set, so patch and promote stay true partial updates.
func packageInfoFromFlags(cmd *cobra.Command) codepush.PackageInfo {
	var info codepush.PackageInfo

	if cmd.Flags().Changed("description") {
		description, _ := cmd.Flags().GetString("description")
		info.Description = &description
	}
	if cmd.Flags().Changed("disabled") {
		disabled, _ := cmd.Flags().GetBool("disabled")
		info.IsDisabled = &disabled
	}
	if cmd.Flags().Changed("mandatory") {
		mandatory, _ := cmd.Flags().GetBool("mandatory")
		info.IsMandatory = &mandatory
	}
	if cmd.Flags().Changed("rollout") {
		rollout, _ := cmd.Flags().GetInt("rollout")
		info.Rollout = &rollout
	}
	if cmd.Flags().Changed("targetBinaryVersion") {
		version, _ := cmd.Flags().GetString("targetBinaryVersion")
		info.AppVersion = version
	}

	return info
}

func addPackageInfoFlags(cmd *cobra.Command) {
	cmd.Flags().String("description", "", "release notes shown to installing clients")
	cmd.Flags().Bool("disabled", false, "prevent clients from downloading the release")
	cmd.Flags().Bool("mandatory", false, "force clients to install the release")
	cmd.Flags().Int("rollout", 0, "percentage of clients eligible for the release (1-100)")
}

// NewReleaseCommand creates the release command group.
func NewReleaseCommand() *cobra.Command {
	var deploymentName string

	cmd := &cobra.Command{
		Use:   "release APP_NAME UPDATE_PATH TARGET_BINARY_VERSION",
		Short: "Release an update",
		Long: `Upload the file or directory at UPDATE_PATH as a new release.
Directories are packaged into a zip archive before upload.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			info := packageInfoFromFlags(cmd)

			var onProgress codepush.ProgressFunc
			if viper.GetString("output") != OutputFormatJSON {
				onProgress = func(percent float64) {
					fmt.Printf("\rUploading... %3.0f%%", percent)
				}
			}

			release, err := client.Release(context.Background(), args[0], deploymentName, args[1], args[2], info, onProgress)
			if onProgress != nil {
				fmt.Println()
			}
			if err != nil {
				return fmt.Errorf("failed to release update: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(release)
			case OutputFormatYAML:
				return StandardYAMLRenderer(release)
			default:
				fmt.Printf("Released %s to %s (target binary %s)\n", release.Label, deploymentName, release.AppVersion)

				return nil
			}
		},
	}

	cmd.Flags().StringVar(&deploymentName, "deploymentName", codepush.DeploymentStaging, "deployment to release to")
	addPackageInfoFlags(cmd)

	cmd.AddCommand(newReleasePatchCommand())
	cmd.AddCommand(newReleasePromoteCommand())
	cmd.AddCommand(newReleaseRollbackCommand())

	return cmd
}

func newReleasePatchCommand() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "patch APP_NAME DEPLOYMENT_NAME",
		Short: "Patch an existing release",
		Long:  "Update the metadata of a release; only the flags given are changed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			info := packageInfoFromFlags(cmd)
			if err := client.PatchRelease(context.Background(), args[0], args[1], label, info); err != nil {
				return fmt.Errorf("failed to patch release: %w", err)
			}

			patched := label
			if patched == "" {
				patched = "latest"
			}
			fmt.Printf("Patched release %s of %s\n", patched, args[1])

			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "release label to patch (defaults to the latest release)")
	cmd.Flags().String("targetBinaryVersion", "", "new target binary version range")
	addPackageInfoFlags(cmd)

	return cmd
}

func newReleasePromoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promote APP_NAME SOURCE_DEPLOYMENT DESTINATION_DEPLOYMENT",
		Short: "Promote a release",
		Long:  "Copy the latest release of one deployment to another, optionally overriding metadata",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			info := packageInfoFromFlags(cmd)
			release, err := client.PromoteRelease(context.Background(), args[0], args[1], args[2], info)
			if err != nil {
				return fmt.Errorf("failed to promote release: %w", err)
			}

			fmt.Printf("Promoted %s from %s to %s as %s\n", release.OriginalLabel, args[1], args[2], release.Label)

			return nil
		},
	}

	cmd.Flags().String("targetBinaryVersion", "", "override the target binary version range on the promoted copy")
	addPackageInfoFlags(cmd)

	return cmd
}

func newReleaseRollbackCommand() *cobra.Command {
	var targetRelease string

	cmd := &cobra.Command{
		Use:   "rollback APP_NAME DEPLOYMENT_NAME",
		Short: "Roll back a deployment",
		Long:  "Create a rollback release restoring the previous release, or a specific labeled release",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RollbackRelease(context.Background(), args[0], args[1], targetRelease); err != nil {
				return fmt.Errorf("failed to roll back release: %w", err)
			}

			if targetRelease != "" {
				fmt.Printf("Rolled %s back to %s\n", args[1], targetRelease)
			} else {
				fmt.Printf("Rolled %s back to the previous release\n", args[1])
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&targetRelease, "targetRelease", "", "label of the release to restore (defaults to the previous release)")

	return cmd
}
