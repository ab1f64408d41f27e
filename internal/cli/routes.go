package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/server"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:     "routes",
	Short:   "Print the named routes of the API",
	GroupID: "server",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, routes := server.New(server.Deps{})
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tMETHOD\tPATH")
		for _, r := range routes.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Method, r.Path)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
