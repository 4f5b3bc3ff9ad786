package cli

import (
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export policies as JSON",
		Long:  "Write every row as a JSON array of table columns. Unlike list, a failed fetch is an error.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeStore, err := opts.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			rows, err := m.Export(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
}
