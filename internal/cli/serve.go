package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/sheetd"
	"github.com/mohidul-hq/VIM-System/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local table server",
		Long: "Serve a SQLite-backed table over the same REST API as the hosted spreadsheet, at /records.\n" +
			"Point the other commands at it with --store http://<addr>/records.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			dbPath, _ := cmd.Flags().GetString("db")
			if listen == "" {
				listen = opts.cfg.ListenAddr
			}
			if dbPath == "" {
				dbPath = opts.cfg.DBPath
			}

			table, err := store.NewSQLiteStore(dbPath)
			if err != nil {
				return err
			}
			defer table.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts.log.Info().Str("db", dbPath).Msg("table opened")
			return sheetd.Run(ctx, listen, table, opts.log)
		},
	}

	cmd.Flags().String("listen", "", "Listen address (default: $VIM_LISTEN_ADDR or :8080)")
	cmd.Flags().String("db", "", "SQLite database path (default: $VIM_DB_PATH or ~/.vim-tracker/records.db)")

	return cmd
}
