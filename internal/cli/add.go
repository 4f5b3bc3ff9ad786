package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/model"
	"github.com/mohidul-hq/VIM-System/internal/policy"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a vehicle policy",
		Long:  "Add a vehicle policy. A new Entry_ID is generated; the vehicle number is stored upper-cased.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts)
		},
	}
	addPolicyFlags(cmd)
	cmd.MarkFlagRequired("number")
	return cmd
}

func runAdd(cmd *cobra.Command, opts *rootOptions) error {
	draft := model.NewPolicy()
	if err := applyPolicyFlags(cmd, &draft); err != nil {
		return err
	}

	var entryID string
	gen := policy.NewIDGenerator()
	m, closeStore, err := opts.openManager(cmd, policy.WithIDGenerator(func() string {
		entryID = gen()
		return entryID
	}))
	if err != nil {
		return err
	}
	defer closeStore()

	if err := m.Create(cmd.Context(), draft); err != nil {
		return err
	}

	p, ok := m.Find(entryID)
	if !ok {
		// Written but not visible in the refreshed list.
		p = draft.Normalize()
		p.EntryID = entryID
	}
	return printPolicy(cmd.OutOrStdout(), opts.format, p, time.Now())
}
