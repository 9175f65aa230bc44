package scriptport

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported scripts",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}

		entries, err := st.imp.List(cmd.Context())
		if err != nil {
			fatal("Failed to list imports: %v", err)
		}
		if len(entries) == 0 {
			fmt.Println("No imports yet")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tTYPE\tPORT\tIMPORTED\tSOURCE")
		for _, e := range entries {
			projectType, port := "?", "-"
			if e.Manifest != nil {
				projectType = string(e.Manifest.Source.ProjectType)
				if e.Manifest.InterfacePort > 0 {
					port = fmt.Sprintf("%d", e.Manifest.InterfacePort)
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Slug, e.Name, projectType, port,
				e.ImportedAt.Format("2006-01-02"), e.Source)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
