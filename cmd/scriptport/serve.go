package scriptport

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pvekit/scriptport/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the import HTTP API",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := buildStack()
		if err != nil {
			fatal("Failed to load configuration: %v", err)
		}

		addr := serveAddr
		if addr == "" {
			addr = st.cfg.Listen
		}

		srv := server.New(st.imp, st.cats, st.creds, st.log)
		info("Listening on %s", addr)
		if err := http.ListenAndServe(addr, srv.Routes()); err != nil {
			fatal("Server stopped: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "listen", "", "bind address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
