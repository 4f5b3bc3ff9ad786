package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/policy"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <entry-id>",
		Short: "Show one vehicle policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, closeStore, err := opts.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			p, ok := m.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", policy.ErrUnknownEntry, args[0])
			}
			return printPolicy(cmd.OutOrStdout(), opts.format, p, time.Now())
		},
	}
}
