package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newRmCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <entry-id>",
		Short: "Delete a vehicle policy",
		Long:  "Delete the policy with the given Entry_ID. Asks for confirmation on stdin unless --yes is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRm(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	return cmd
}

func runRm(cmd *cobra.Command, opts *rootOptions, entryID string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	m, closeStore, err := opts.openManager(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := m.RequestDeleteByID(entryID); err != nil {
		return fmt.Errorf("%w: %s", err, entryID)
	}

	if !yes {
		target, _ := m.PendingDelete()
		prompt := fmt.Sprintf("Delete %s (%s, Entry_ID %s)? [y/N]", target.VehicleNumber, target.CustomerName, target.EntryID)
		answer, err := readLine(bufio.NewReader(cmd.InOrStdin()), prompt, cmd.ErrOrStderr())
		if err != nil && !errors.Is(err, io.EOF) {
			m.CancelDelete()
			return fmt.Errorf("read confirmation: %w", err)
		}
		if a := strings.ToLower(answer); a != "y" && a != "yes" {
			m.CancelDelete()
			fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
			return nil
		}
	}

	if err := m.ConfirmDelete(cmd.Context()); err != nil {
		return err
	}
	if opts.format == formatJSON {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"Entry_ID":%q}`+"\n", entryID)
	}
	return err
}

// readLine prints prompt to w and reads one line from reader. A partial line
// before EOF is returned.
func readLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+" "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
