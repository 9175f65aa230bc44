package scriptport

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/importer"
)

var previewCmd = &cobra.Command{
	Use:   "preview <github-url>",
	Short: "Run the import pipeline without persisting anything",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}

		res, err := st.imp.Preview(cmd.Context(), args[0])
		if err != nil {
			fatal("Preview failed: %v", err)
		}

		m := res.Manifest
		fmt.Printf("Name:         %s\n", m.Name)
		fmt.Printf("Slug:         %s\n", m.Slug)
		fmt.Printf("Project type: %s\n", m.Source.ProjectType)
		if m.Description != "" {
			fmt.Printf("Description:  %s\n", m.Description)
		}
		if len(m.InstallMethods) > 0 {
			r := m.InstallMethods[0].Resources
			fmt.Printf("Resources:    %d CPU / %d MB RAM / %d GB disk (%s %s)\n",
				r.CPU, r.RAM, r.HDD, r.OS, r.Version)
		}
		if m.InterfacePort > 0 {
			fmt.Printf("Port:         %d\n", m.InterfacePort)
		}

		fmt.Printf("\nScript preview (first %d bytes):\n\n%s\n", importer.PreviewLimit, res.ScriptPreview)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
