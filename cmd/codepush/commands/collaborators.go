package commands

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/souhouse/code-push/pkg/codepush"
)

// NewCollaboratorCommand creates the collaborator command group.
func NewCollaboratorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collaborator",
		Aliases: []string{"collaborators"},
		Short:   "Manage app collaborators",
		Long:    "Add, list, and remove the people who can work on an app",
	}

	cmd.AddCommand(newCollaboratorAddCommand())
	cmd.AddCommand(newCollaboratorListCommand())
	cmd.AddCommand(newCollaboratorRemoveCommand())

	return cmd
}

func newCollaboratorAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add APP_NAME EMAIL",
		Short: "Invite a collaborator",
		Long:  "Invite a user to collaborate on an app by email",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.AddCollaborator(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to add collaborator: %w", err)
			}

			fmt.Printf("Invited %s to %s\n", args[1], args[0])

			return nil
		},
	}
}

func newCollaboratorListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls APP_NAME",
		Aliases: []string{"list"},
		Short:   "List collaborators",
		Long:    "List everyone who can work on the given app",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			collaborators, err := client.GetCollaborators(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list collaborators: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(collaborators)
			case OutputFormatYAML:
				return StandardYAMLRenderer(collaborators)
			default:
				return renderCollaboratorTable(collaborators)
			}
		},
	}
}

func renderCollaboratorTable(collaborators codepush.CollaboratorMap) error {
	if len(collaborators) == 0 {
		_, _ = os.Stdout.WriteString("No collaborators found\n")

		return nil
	}

	emails := make([]string, 0, len(collaborators))
	for email := range collaborators {
		emails = append(emails, email)
	}
	sort.Strings(emails)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Email", "Permission", "Current Account")

	for _, email := range emails {
		properties := collaborators[email]
		_ = table.Append(email, displayCase(properties.Permission), yesNo(properties.IsCurrentAccount))
	}

	_ = table.Render()

	return nil
}

func newCollaboratorRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm APP_NAME EMAIL",
		Aliases: []string{"remove"},
		Short:   "Remove a collaborator",
		Long:    "Revoke a user's access to an app",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RemoveCollaborator(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to remove collaborator: %w", err)
			}

			fmt.Printf("Removed %s from %s\n", args[1], args[0])

			return nil
		},
	}
}
