package scriptport

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/catalog"
	"github.com/pvekit/scriptport/internal/manifest"
)

type catalogFetch func(context.Context, *catalog.Client) ([]catalog.Entry, error)

// catalogCommands builds the browse/search/import triplet for one upstream
// catalog. Both catalogs share the exact same behavior, only the fetch
// differs.
func catalogCommands(name string, fetch catalogFetch) []*cobra.Command {
	browse := &cobra.Command{
		Use:   name + "-browse",
		Short: "Browse the " + name + " catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			entries := fetchCatalog(cmd.Context(), fetch)
			printCatalog(entries)
		},
	}

	search := &cobra.Command{
		Use:   name + "-search <query>",
		Short: "Search the " + name + " catalog",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entries := catalog.Search(fetchCatalog(cmd.Context(), fetch), args[0])
			if len(entries) == 0 {
				fmt.Printf("No %s entries match %q\n", name, args[0])
				return
			}
			printCatalog(entries)
		},
	}

	imp := &cobra.Command{
		Use:   name + "-import <slug-or-name>",
		Short: "Import an entry from the " + name + " catalog",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entry, ok := catalog.Find(fetchCatalog(cmd.Context(), fetch), args[0])
			if !ok {
				fatal("No %s entry named %q", name, args[0])
			}
			if entry.RepoURL == "" {
				fatal("%s has no GitHub repository to import", entry.Name)
			}

			st, err := buildStack()
			if err != nil {
				fatal("Failed to load configuration: %v", err)
			}

			res, err := st.imp.Import(cmd.Context(), entry.RepoURL, manifest.Overrides{
				Category: importFlags.category,
			})
			if err != nil {
				fatal("Import failed: %v", err)
			}
			info("Imported %s (%s) from %s", res.Manifest.Name, res.Manifest.Slug, entry.RepoURL)
		},
	}
	imp.Flags().IntVarP(&importFlags.category, "category", "c", 0, "category id for the import")

	return []*cobra.Command{browse, search, imp}
}

func fetchCatalog(ctx context.Context, fetch catalogFetch) []catalog.Entry {
	entries, err := fetch(ctx, catalog.NewClient())
	if err != nil {
		fatal("Failed to fetch catalog: %v", err)
	}
	return entries
}

func printCatalog(entries []catalog.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tREPOSITORY")
	for _, e := range entries {
		repo := e.RepoURL
		if repo == "" {
			repo = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Slug, e.Name, repo)
	}
	w.Flush()
}

func init() {
	community := catalogCommands("community", func(ctx context.Context, c *catalog.Client) ([]catalog.Entry, error) {
		return c.Community(ctx)
	})
	selfhst := catalogCommands("selfhst", func(ctx context.Context, c *catalog.Client) ([]catalog.Entry, error) {
		return c.SelfHst(ctx)
	})
	rootCmd.AddCommand(community...)
	rootCmd.AddCommand(selfhst...)
}
