package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/souhouse/code-push/pkg/codepush"
)

// NewAppCommand creates the app command group.
func NewAppCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "app",
		Aliases: []string{"apps"},
		Short:   "Manage apps",
		Long:    "Add, list, rename, transfer, and remove CodePush apps",
	}

	cmd.AddCommand(newAppAddCommand())
	cmd.AddCommand(newAppListCommand())
	cmd.AddCommand(newAppRemoveCommand())
	cmd.AddCommand(newAppRenameCommand())
	cmd.AddCommand(newAppTransferCommand())

	return cmd
}

func newAppAddCommand() *cobra.Command {
	var manualProvisioning bool

	cmd := &cobra.Command{
		Use:   "add APP_NAME OS PLATFORM",
		Short: "Add a new app",
		Long:  "Create an app with the given OS (iOS, Android, Windows, Linux) and platform (React-Native, Cordova, Electron)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			app, err := client.AddApp(context.Background(), args[0], args[1], args[2], manualProvisioning)
			if err != nil {
				return fmt.Errorf("failed to add app: %w", err)
			}

			fmt.Printf("Added app %s\n", app.Name)

			if len(app.Deployments) > 0 {
				deployments, err := client.GetDeployments(context.Background(), args[0])
				if err == nil {
					return renderDeploymentTable(deployments, true)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&manualProvisioning, "no-deployments", false, "skip creating the default Staging and Production deployments")

	return cmd
}

func newAppListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List apps",
		Long:    "List every app the account owns or collaborates on",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			apps, err := client.GetApps(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list apps: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(apps)
			case OutputFormatYAML:
				return StandardYAMLRenderer(apps)
			default:
				return renderAppTable(apps)
			}
		},
	}
}

func renderAppTable(apps []codepush.App) error {
	if len(apps) == 0 {
		_, _ = os.Stdout.WriteString("No apps found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "OS", "Platform", "Deployments")

	for _, app := range apps {
		_ = table.Append(app.Name, app.OS, app.Platform, strings.Join(app.Deployments, ", "))
	}

	_ = table.Render()

	return nil
}

func newAppRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm APP_NAME",
		Aliases: []string{"remove"},
		Short:   "Remove an app",
		Long:    "Permanently delete an app, its deployments, and its release history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RemoveApp(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to remove app: %w", err)
			}

			fmt.Printf("Removed app %s\n", args[0])

			return nil
		},
	}
}

func newAppRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD_NAME NEW_NAME",
		Short: "Rename an app",
		Long:  "Rename an app; the new name may not move the app to another owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RenameApp(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to rename app: %w", err)
			}

			fmt.Printf("Renamed app %s to %s\n", args[0], args[1])

			return nil
		},
	}
}

func newAppTransferCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer APP_NAME ORG_NAME",
		Short: "Transfer an app to an organization",
		Long:  "Move an app and its deployments to the given organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.TransferApp(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to transfer app: %w", err)
			}

			fmt.Printf("Transferred app %s to %s\n", args[0], args[1])

			return nil
		},
	}
}
