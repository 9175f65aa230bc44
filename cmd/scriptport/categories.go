package scriptport

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/categories"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List catalog categories",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}

		cats, err := st.cats.List()
		if err != nil {
			fatal("Failed to list categories: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tKIND")
		for _, c := range cats {
			kind := "builtin"
			if c.ID >= categories.UserIDBase {
				kind = "user"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, kind)
		}
		w.Flush()
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a user category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}
		cat, err := st.cats.Add(args[0])
		if err != nil {
			fatal("Failed to add category: %v", err)
		}
		info("Added category %d: %s", cat.ID, cat.Name)
	},
}

var categoriesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a user category",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			fatal("Category id must be numeric: %s", args[0])
		}
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}
		if err := st.cats.Remove(id); err != nil {
			fatal("Failed to remove category: %v", err)
		}
		info("Removed category %d", id)
	},
}

func init() {
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRemoveCmd)
	rootCmd.AddCommand(categoriesCmd)
}
