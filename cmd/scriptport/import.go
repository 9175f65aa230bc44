package scriptport

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/manifest"
)

var importFlags struct {
	category    int
	name        string
	description string
	cpu         int
	ram         int
	hdd         int
	port        int
	noRebuild   bool
}

var importCmd = &cobra.Command{
	Use:   "import <github-url>",
	Short: "Import a GitHub repository into the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}

		ov := manifest.Overrides{
			Name:        importFlags.name,
			Description: importFlags.description,
			Category:    importFlags.category,
			CPU:         importFlags.cpu,
			RAM:         importFlags.ram,
			HDD:         importFlags.hdd,
			Port:        importFlags.port,
		}

		res, err := st.imp.Import(cmd.Context(), args[0], ov)
		if err != nil {
			fatal("Import failed: %v", err)
		}

		m := res.Manifest
		info("Imported %s (%s)", m.Name, m.Slug)
		fmt.Printf("  Project type: %s\n", m.Source.ProjectType)
		if len(m.InstallMethods) > 0 {
			r := m.InstallMethods[0].Resources
			fmt.Printf("  Resources:    %d CPU / %d MB RAM / %d GB disk\n", r.CPU, r.RAM, r.HDD)
		}
		fmt.Printf("  Port:         %d\n", m.InterfacePort)
		fmt.Printf("  Manifest:     %s\n", st.imp.ManifestPath(m.Slug))
		fmt.Printf("  Script:       %s\n", st.imp.ScriptPath(m.Slug))
	},
}

func init() {
	importCmd.Flags().IntVarP(&importFlags.category, "category", "c", 0, "category id for the import")
	importCmd.Flags().StringVar(&importFlags.name, "name", "", "override the detected name")
	importCmd.Flags().StringVar(&importFlags.description, "description", "", "override the detected description")
	importCmd.Flags().IntVar(&importFlags.cpu, "cpu", 0, "override CPU cores")
	importCmd.Flags().IntVar(&importFlags.ram, "ram", 0, "override RAM in MB")
	importCmd.Flags().IntVar(&importFlags.hdd, "hdd", 0, "override disk in GB")
	importCmd.Flags().IntVar(&importFlags.port, "port", 0, "override the interface port")
	// Accepted for compatibility with callers that pass it; the dashboard
	// rebuild it used to gate does not exist here.
	importCmd.Flags().BoolVar(&importFlags.noRebuild, "no-rebuild", false, "accepted for compatibility; has no effect")
	rootCmd.AddCommand(importCmd)
}
