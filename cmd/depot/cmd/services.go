package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/xraph/depot"
	"github.com/xraph/depot/internal/bootstrap"
)

// servicesCmd represents the services command
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the services registered in the container",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")

		c, err := bootstrap.NewContainer(cmd.Context(), app.cfg, app.logger, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer func() { _ = c.Stop(cmd.Context()) }()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLIFECYCLE\tTYPE\tSTARTED\tDEPENDS ON")

		for _, info := range depot.Query(c, depot.ServiceQuery{Group: group}) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
				info.Name, info.Lifecycle, info.Type, info.Started, strings.Join(info.Dependencies, ", "))
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)

	servicesCmd.Flags().StringP("group", "g", "", "Only list services in this group")
}
