package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/query"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicle policies",
		Long: "List policies in table order. --search matches vehicle number, customer name or vehicle type\n" +
			"(case-insensitive); --filter is all, active, expiring-soon or expired.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringP("search", "s", "", "Search text")
	cmd.Flags().StringP("filter", "F", "all", "Status filter: all, active, expiring-soon, expired")

	return cmd
}

func runList(cmd *cobra.Command, opts *rootOptions) error {
	search, _ := cmd.Flags().GetString("search")
	filterStr, _ := cmd.Flags().GetString("filter")

	f, err := query.ParseFilter(filterStr)
	if err != nil {
		return err
	}

	m, closeStore, err := opts.openManager(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	return printPolicies(cmd.OutOrStdout(), opts.format, m.View(search, f), time.Now())
}
