package cmd

import (
	"meta_debug_web/internal/http"

	"github.com/spf13/cobra"
)

var cgiCmd = &cobra.Command{
	Use:   "cgi",
	Short: "Answer a single CGI request with the report page",
	Long: `Reads the request from the CGI environment and writes the response to
stdout. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return http.ServeCGI(logger, appCfg)
	},
}

func init() {
	rootCmd.AddCommand(cgiCmd)
}
