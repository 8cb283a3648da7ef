package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/souhouse/code-push/pkg/codepush"
)

// NewAccessKeyCommand creates the access-key command group.
func NewAccessKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "access-key",
		Aliases: []string{"access-keys"},
		Short:   "Manage access keys",
		Long:    "Add, list, and remove the access keys that authenticate against the management API",
	}

	cmd.AddCommand(newAccessKeyAddCommand())
	cmd.AddCommand(newAccessKeyListCommand())
	cmd.AddCommand(newAccessKeyRemoveCommand())
	cmd.AddCommand(newAccessKeyPatchCommand())

	return cmd
}

func newAccessKeyAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create an access key",
		Long:  "Create a new access key; the secret is shown once and cannot be recovered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			key, err := client.AddAccessKey(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to add access key: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(key)
			case OutputFormatYAML:
				return StandardYAMLRenderer(key)
			default:
				fmt.Printf("Created access key %s: %s\n", key.Name, key.Key)
				fmt.Println("Store the secret now; it will not be shown again.")

				return nil
			}
		},
	}
}

func newAccessKeyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List access keys",
		Long:    "List the account's access keys; secrets are never included",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			keys, err := client.GetAccessKeys(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list access keys: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(keys)
			case OutputFormatYAML:
				return StandardYAMLRenderer(keys)
			default:
				return renderAccessKeyTable(keys)
			}
		},
	}
}

func renderAccessKeyTable(keys []codepush.AccessKey) error {
	if len(keys) == 0 {
		_, _ = os.Stdout.WriteString("No access keys found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Name", "Created")

	for _, key := range keys {
		_ = table.Append(key.Name, formatEpochMillis(key.CreatedTime))
	}

	_ = table.Render()

	return nil
}

func newAccessKeyRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Remove an access key",
		Long:    "Revoke the access key with the given name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RemoveAccessKey(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to remove access key: %w", err)
			}

			fmt.Printf("Removed access key %s\n", args[0])

			return nil
		},
	}
}

func newAccessKeyPatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patch OLD_NAME NEW_NAME",
		Short: "Rename an access key (deprecated)",
		Long:  "Renaming access keys is no longer supported by the token model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if _, err := client.PatchAccessKey(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to patch access key: %w", err)
			}

			return nil
		},
	}
}

// NewSessionCommand creates the session command group. Sessions predate the
// token model; both subcommands surface the deprecation error.
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage login sessions (deprecated)",
		Long:    "Login sessions were replaced by access keys; these commands remain for compatibility",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List login sessions (deprecated)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if _, err := client.GetSessions(context.Background()); err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "rm MACHINE_NAME",
		Aliases: []string{"remove"},
		Short:   "Remove a login session (deprecated)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			if err := client.RemoveSession(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to remove session: %w", err)
			}

			return nil
		},
	})

	return cmd
}
