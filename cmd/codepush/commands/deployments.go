package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/souhouse/code-push/pkg/codepush"
)

// NewDeploymentCommand creates the deployment command group.
func NewDeploymentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deployment",
		Aliases: []string{"deployments"},
		Short:   "Manage deployments",
		Long:    "Add, list, rename, clear, and remove an app's release channels",
	}

	cmd.AddCommand(newDeploymentAddCommand())
	cmd.AddCommand(newDeploymentListCommand())
	cmd.AddCommand(newDeploymentRemoveCommand())
	cmd.AddCommand(newDeploymentRenameCommand())
	cmd.AddCommand(newDeploymentClearCommand())
	cmd.AddCommand(newDeploymentHistoryCommand())
	cmd.AddCommand(newDeploymentMetricsCommand())

	return cmd
}

func newDeploymentAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add APP_NAME DEPLOYMENT_NAME",
		Short: "Add a deployment",
		Long:  "Create a new deployment for an app",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			deployment, err := client.AddDeployment(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to add deployment: %w", err)
			}

			fmt.Printf("Added deployment %s with key %s\n", deployment.Name, deployment.Key)

			return nil
		},
	}
}

func newDeploymentListCommand() *cobra.Command {
	var showKeys bool

	cmd := &cobra.Command{
		Use:     "ls APP_NAME",
		Aliases: []string{"list"},
		Short:   "List deployments",
		Long:    "List an app's deployments and their latest releases",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			deployments, err := client.GetDeployments(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list deployments: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(deployments)
			case OutputFormatYAML:
				return StandardYAMLRenderer(deployments)
			default:
				return renderDeploymentTable(deployments, showKeys)
			}
		},
	}

	cmd.Flags().BoolVarP(&showKeys, "displayKeys", "k", false, "include deployment keys")

	return cmd
}

func renderDeploymentTable(deployments []codepush.Deployment, showKeys bool) error {
	if len(deployments) == 0 {
		_, _ = os.Stdout.WriteString("No deployments found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	if showKeys {
		table.Header("Name", "Key", "Latest Release", "Target Binary", "Rollout")
	} else {
		table.Header("Name", "Latest Release", "Target Binary", "Rollout")
	}

	for _, deployment := range deployments {
		label, target, rollout := NotAvailable, NotAvailable, NotAvailable
		if deployment.Package != nil {
			label = deployment.Package.Label
			target = deployment.Package.AppVersion
			rollout = strconv.Itoa(deployment.Package.Rollout) + "%"
		}

		if showKeys {
			_ = table.Append(deployment.Name, deployment.Key, label, target, rollout)
		} else {
			_ = table.Append(deployment.Name, label, target, rollout)
		}
	}

	_ = table.Render()

	return nil
}

func newDeploymentRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm APP_NAME DEPLOYMENT_NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a deployment",
		Long:    "Permanently delete a deployment and its release history",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RemoveDeployment(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to remove deployment: %w", err)
			}

			fmt.Printf("Removed deployment %s from %s\n", args[1], args[0])

			return nil
		},
	}
}

func newDeploymentRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename APP_NAME OLD_NAME NEW_NAME",
		Short: "Rename a deployment",
		Long:  "Rename a deployment; its key and history are unaffected",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RenameDeployment(context.Background(), args[0], args[1], args[2]); err != nil {
				return fmt.Errorf("failed to rename deployment: %w", err)
			}

			fmt.Printf("Renamed deployment %s to %s\n", args[1], args[2])

			return nil
		},
	}
}

func newDeploymentClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear APP_NAME DEPLOYMENT_NAME",
		Short: "Clear a deployment's history",
		Long:  "Delete every release of a deployment while keeping the deployment and its key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.ClearDeploymentHistory(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to clear deployment history: %w", err)
			}

			fmt.Printf("Cleared release history of %s\n", args[1])

			return nil
		},
	}
}

func newDeploymentHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "history APP_NAME DEPLOYMENT_NAME",
		Aliases: []string{"h"},
		Short:   "Show release history",
		Long:    "List every release of a deployment, oldest first",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			history, err := client.GetDeploymentHistory(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get deployment history: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(history)
			case OutputFormatYAML:
				return StandardYAMLRenderer(history)
			default:
				return renderHistoryTable(history)
			}
		},
	}
}

func renderHistoryTable(history []codepush.Package) error {
	if len(history) == 0 {
		_, _ = os.Stdout.WriteString("No releases found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Label", "Target Binary", "Method", "Mandatory", "Disabled", "Rollout", "Released")

	for _, release := range history {
		_ = table.Append(release.Label, release.AppVersion, displayCase(release.ReleaseMethod),
			yesNo(release.IsMandatory), yesNo(release.IsDisabled),
			strconv.Itoa(release.Rollout)+"%", formatEpochMillis(release.UploadTime))
	}

	_ = table.Render()

	return nil
}

func newDeploymentMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics APP_NAME DEPLOYMENT_NAME",
		Short: "Show installation metrics",
		Long:  "Show per-release installation counters for a deployment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			metrics, err := client.GetDeploymentMetrics(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get deployment metrics: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(metrics)
			case OutputFormatYAML:
				return StandardYAMLRenderer(metrics)
			default:
				return renderMetricsTable(metrics)
			}
		},
	}
}

func renderMetricsTable(metrics codepush.DeploymentMetrics) error {
	if len(metrics) == 0 {
		_, _ = os.Stdout.WriteString("No metrics found\n")

		return nil
	}

	labels := make([]string, 0, len(metrics))
	for label := range metrics {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Label", "Active", "Downloaded", "Installed", "Failed")

	for _, label := range labels {
		counters := metrics[label]
		_ = table.Append(label,
			strconv.FormatInt(counters.Active, 10),
			strconv.FormatInt(counters.Downloaded, 10),
			strconv.FormatInt(counters.Installed, 10),
			strconv.FormatInt(counters.Failed, 10))
	}

	_ = table.Render()

	return nil
}
