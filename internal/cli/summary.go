package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show policy counts",
		Long:  "Show the total number of policies, how many are not yet expired and how many expire within 30 days.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeStore, err := opts.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			sum := m.Summary()
			if opts.format == formatJSON {
				return printJSON(cmd.OutOrStdout(), sum)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Total Vehicles: %d\nActive Policies: %d\nExpiring Soon: %d\n",
				sum.Total, sum.Active, sum.ExpiringSoon)
			return err
		},
	}
}
