package scriptport

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <slug>",
	Short: "Remove an imported script and its files",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}
		if err := st.imp.Remove(cmd.Context(), args[0]); err != nil {
			fatal("Remove failed: %v", err)
		}
		info("Removed %s", args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Re-import a script from its recorded source",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}
		res, err := st.imp.Update(cmd.Context(), args[0])
		if err != nil {
			fatal("Update failed: %v", err)
		}
		info("Updated %s from %s", res.Manifest.Slug, res.Record.Source)
	},
}

var updateAllCmd = &cobra.Command{
	Use:   "update-all",
	Short: "Re-import every registered script",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}
		if err := st.imp.UpdateAll(cmd.Context()); err != nil {
			fatal("Some updates failed:\n%v", err)
		}
		info("All imports are up to date")
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(updateAllCmd)
}
