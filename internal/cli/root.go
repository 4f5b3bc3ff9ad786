// Package cli implements the vim-tracker commands.
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/config"
	"github.com/mohidul-hq/VIM-System/internal/policy"
	"github.com/mohidul-hq/VIM-System/internal/store"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// rootOptions carries the global flags and what PersistentPreRunE derives
// from them.
type rootOptions struct {
	storeURL string
	debug    bool
	format   string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCmd constructs the root command and its sub-commands.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "vim-tracker",
		Short: "Track vehicle insurance policies and their expiry",
		Long: "Keep a table of vehicle insurance policies, see which are active, expiring soon or expired,\n" +
			"and add, edit or remove entries. Rows live in a remote spreadsheet table or a local SQLite file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.storeURL, "store", "", "Table endpoint URL or sqlite:<path> (default: $VIM_STORE_URL)")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Debug logging and HTTP request dumps")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", formatText, "Output format: json or text")

	root.AddCommand(
		newListCmd(opts),
		newSummaryCmd(opts),
		newGetCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newRmCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newServeCmd(opts),
	)
	return root
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if o.storeURL != "" {
		cfg.StoreURL = o.storeURL
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = o.debug
	}
	switch o.format {
	case formatJSON, formatText:
	default:
		return fmt.Errorf("unsupported format %q (want json or text)", o.format)
	}
	o.cfg = cfg
	o.log = newLogger(cmd.ErrOrStderr(), cfg)
	log.Logger = o.log
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05", NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func (o *rootOptions) openStore() (store.Store, error) {
	if path, ok := o.cfg.SQLitePath(); ok {
		o.log.Debug().Str("path", path).Msg("using sqlite store")
		return store.NewSQLiteStore(path)
	}
	o.log.Debug().Str("url", o.cfg.StoreURL).Msg("using rest store")
	return store.NewRESTStore(o.cfg.StoreURL,
		store.WithTimeout(o.cfg.HTTPTimeout),
		store.WithLogger(o.log),
		store.WithDebugLogging(o.cfg.Debug),
	)
}

// openManager opens the configured store and loads the list. Notices are
// written to the command's stderr. The returned func closes the store.
func (o *rootOptions) openManager(cmd *cobra.Command, extra ...policy.Option) (*policy.Manager, func(), error) {
	s, err := o.openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	opts := []policy.Option{
		policy.WithLogger(o.log),
		policy.WithNotifier(policy.NotifierFunc(func(n policy.Notice) {
			fmt.Fprintf(errOut, "%s: %s\n", n.Kind, n.Message)
		})),
	}
	m := policy.NewManager(s, append(opts, extra...)...)
	m.Refresh(cmd.Context())

	return m, func() { s.Close() }, nil
}
