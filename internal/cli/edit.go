package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/policy"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Edit a vehicle policy",
		Long:  "Edit the policy with the given Entry_ID. Only the fields given as flags change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args[0])
		},
	}
	addPolicyFlags(cmd)
	return cmd
}

func runEdit(cmd *cobra.Command, opts *rootOptions, entryID string) error {
	m, closeStore, err := opts.openManager(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := m.OpenEdit(entryID); err != nil {
		return fmt.Errorf("%w: %s", err, entryID)
	}
	form, _ := m.Form()
	draft := form.Draft
	if err := applyPolicyFlags(cmd, &draft); err != nil {
		m.CloseForm()
		return err
	}
	if err := m.Submit(cmd.Context(), draft); err != nil {
		return err
	}

	p, ok := m.Find(entryID)
	if !ok {
		return fmt.Errorf("%w: %s", policy.ErrUnknownEntry, entryID)
	}
	return printPolicy(cmd.OutOrStdout(), opts.format, p, time.Now())
}
