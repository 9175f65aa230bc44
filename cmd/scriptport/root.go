package scriptport

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/categories"
	"github.com/pvekit/scriptport/internal/config"
	"github.com/pvekit/scriptport/internal/credentials"
	"github.com/pvekit/scriptport/internal/importer"
	"github.com/pvekit/scriptport/internal/registry"
	"github.com/pvekit/scriptport/internal/resolve"
	"github.com/pvekit/scriptport/internal/source"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "scriptport",
	Short: "Import GitHub repositories into a Proxmox VE script catalog",
	Long: `Scriptport turns a GitHub repository into Proxmox VE catalog artifacts:
1. Resolve - Fetch the repository and find or generate its script manifest
2. Generate - Render an LXC install script for the detected project type
3. Register - Write the manifest and script and record them in the registry`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.scriptport.yaml)")
}

// stack is the wired pipeline shared by every subcommand.
type stack struct {
	cfg   *config.Config
	imp   *importer.Importer
	cats  *categories.Manager
	creds *credentials.Store
	log   *slog.Logger
}

func buildStack() (*stack, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Without a store secret the credential store stays disabled and only
	// GITHUB_TOKEN is used for authentication.
	var creds *credentials.Store
	if cfg.Secret != "" {
		creds = credentials.NewStore(cfg.CredentialsPath(), cfg.Secret)
	}

	lookup := func(host string) (string, bool) {
		if creds != nil {
			if tok, ok := creds.TokenForHost(host); ok {
				return tok, true
			}
		}
		if host == "github.com" && cfg.GithubToken != "" {
			return cfg.GithubToken, true
		}
		return "", false
	}

	opener := source.NewClient(cfg.GithubToken, lookup)
	store := registry.NewFileStore(cfg.RegistryPath())
	imp := importer.New(opener, resolve.New(log), store, cfg.BaseDir, log)

	return &stack{
		cfg:   cfg,
		imp:   imp,
		cats:  categories.NewManager(cfg.CategoriesPath()),
		creds: creds,
		log:   log,
	}, nil
}

var (
	errTag  = color.New(color.FgRed, color.Bold).Sprint("[ERROR]")
	infoTag = color.New(color.FgGreen).Sprint("[INFO]")
)

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errTag, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func info(format string, args ...any) {
	fmt.Printf("%s %s\n", infoTag, fmt.Sprintf(format, args...))
}
