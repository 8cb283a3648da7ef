package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/souhouse/code-push/pkg/codepush"
	"github.com/souhouse/code-push/pkg/cpclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		serverURL string
		accessKey string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a CodePush server",
		Long:  "Authenticate against a CodePush server and store the access key for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serverURL == "" {
				serverURL = viper.GetString("server")
			}

			if serverURL == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Server URL: ")
				serverURL, _ = reader.ReadString('\n')
				serverURL = strings.TrimSpace(serverURL)
			}

			if serverURL == "" {
				return ErrServerRequired
			}

			if accessKey == "" {
				accessKey = viper.GetString("access-key")
			}

			if accessKey == "" {
				fmt.Print("Access key: ")
				byteKey, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read access key: %w", err)
				}
				accessKey = strings.TrimSpace(string(byteKey))
				fmt.Println()
			}

			if accessKey == "" {
				return ErrAccessKeyRequired
			}

			client, err := cpclient.New(&codepush.Config{
				ServerURL: serverURL,
				AccessKey: accessKey,
				Proxy:     viper.GetString("proxy"),
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			if _, err := client.IsAuthenticated(context.Background(), true); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := saveConfig(storedConfig{Server: serverURL, AccessKey: accessKey}); err != nil {
				return err
			}

			fmt.Printf("Logged in to %s\n", serverURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "CodePush server URL")
	cmd.Flags().StringVar(&accessKey, "access-key", "", "access key (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out of the current CodePush server",
		Long:  "Remove the stored server and access key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := removeConfig(); err != nil {
				return err
			}

			fmt.Println("Logged out")

			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Display the authenticated account",
		Long:  "Display the name and email of the account the stored access key belongs to",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			account, err := client.GetAccountInfo(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get account info: %w", err)
			}

			switch viper.GetString("output") {
			case OutputFormatJSON:
				return StandardJSONRenderer(account)
			case OutputFormatYAML:
				return StandardYAMLRenderer(account)
			default:
				fmt.Printf("%s (%s)\n", account.Name, account.Email)

				return nil
			}
		},
	}
}
