package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Import policies from JSON",
		Long: "Read a JSON array in the format produced by export from stdin. Rows without an Entry_ID get a\n" +
			"new one; rows whose Entry_ID is already in the table are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			var rows []model.Policy
			if err := json.Unmarshal(data, &rows); err != nil {
				return fmt.Errorf("parse json: %w", err)
			}

			m, closeStore, err := opts.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			imported, err := m.Import(cmd.Context(), rows)
			if err != nil {
				return fmt.Errorf("import stopped after %d rows: %w", imported, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"imported":%d}`+"\n", imported)
			return err
		},
	}
}
