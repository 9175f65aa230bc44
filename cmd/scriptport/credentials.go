package scriptport

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/credentials"
)

var credentialFlags struct {
	provider string
	baseURL  string
	username string
	token    string
}

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage git provider credentials",
}

var credentialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st := credentialStack()
		creds, err := st.creds.List()
		if err != nil {
			fatal("Failed to list credentials: %v", err)
		}
		if len(creds) == 0 {
			fmt.Println("No credentials stored")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPROVIDER\tBASE URL\tUSERNAME")
		for _, c := range creds {
			baseURL := c.BaseURL
			if baseURL == "" {
				baseURL = "-"
			}
			username := c.Username
			if username == "" {
				username = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Provider, baseURL, username)
		}
		w.Flush()
	},
}

var credentialsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Store a credential",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if credentialFlags.token == "" {
			fatal("A token is required; pass --token")
		}

		st := credentialStack()
		authType := credentials.AuthToken
		if credentialFlags.username != "" {
			authType = credentials.AuthBasic
		}

		cred, err := st.creds.Add(credentials.Credential{
			Name:     args[0],
			Provider: credentialFlags.provider,
			BaseURL:  credentialFlags.baseURL,
			AuthType: authType,
			Username: credentialFlags.username,
			Token:    credentialFlags.token,
		})
		if err != nil {
			fatal("Failed to store credential: %v", err)
		}
		info("Stored credential %s (%s)", cred.Name, cred.ID)
	},
}

var credentialsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a stored credential",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st := credentialStack()
		if err := st.creds.Remove(args[0]); err != nil {
			fatal("Failed to remove credential: %v", err)
		}
		info("Removed credential %s", args[0])
	},
}

// credentialStack builds the stack and insists on a configured store secret.
func credentialStack() *stack {
	st, err := buildStack()
	if err != nil {
		fatal("Failed to load configuration: %v", err)
	}
	if st.creds == nil {
		fatal("Credential store is not configured; set SCRIPTPORT_SECRET")
	}
	return st
}

func init() {
	credentialsAddCmd.Flags().StringVar(&credentialFlags.provider, "provider", credentials.ProviderGitHub, "provider (github, gitlab, gitea, bitbucket, custom)")
	credentialsAddCmd.Flags().StringVar(&credentialFlags.baseURL, "base-url", "", "base URL for self-hosted providers")
	credentialsAddCmd.Flags().StringVar(&credentialFlags.username, "username", "", "username for basic auth")
	credentialsAddCmd.Flags().StringVar(&credentialFlags.token, "token", "", "access token or password")

	credentialsCmd.AddCommand(credentialsListCmd)
	credentialsCmd.AddCommand(credentialsAddCmd)
	credentialsCmd.AddCommand(credentialsRemoveCmd)
	rootCmd.AddCommand(credentialsCmd)
}
