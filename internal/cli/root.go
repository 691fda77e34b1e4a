// Package cli implements payctl, the command-line front end to the payment
// ledger. Commands open the configured storage directly and call the same
// services the server exposes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/academypay/internal/app"
	"github.com/mmynk/academypay/internal/config"
	"github.com/mmynk/academypay/pkg/logging"
)

// state is shared by every command of one invocation.
type state struct {
	configPath string
	envFile    string
	jsonOut    bool
	verbose    bool

	stderr io.Writer
	app    *app.App
}

// Execute runs payctl with args and releases storage afterwards.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	st := &state{stderr: stderr}
	root := newRootCommand(st)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if st.app != nil {
		if cerr := st.app.Close(); cerr != nil {
			slog.Warn("Failed to close storage", "error", cerr)
		}
	}

	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return errors.New(cerr.Message())
	}
	return err
}

func newRootCommand(st *state) *cobra.Command {
	root := &cobra.Command{
		Use:   "payctl",
		Short: "Record and reconcile academy payments",
		Long: `payctl records player payments, lists the payment history and shows
which players of a group have paid. It reads the same configuration as the
server and works on the same storage.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: st.open,
	}

	root.PersistentFlags().StringVarP(&st.configPath, "config", "c", "", "Path to config TOML file")
	root.PersistentFlags().StringVar(&st.envFile, "env-file", ".env", "Path to .env file")
	root.PersistentFlags().BoolVar(&st.jsonOut, "json", false, "Print JSON instead of tables")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "Log at the configured level instead of warnings only")

	root.AddCommand(
		newAddCommand(st),
		newRemoveCommand(st),
		newListCommand(st),
		newSummaryCommand(st),
		newPlayersCommand(st),
		newReconcileCommand(st),
		newResetCommand(st),
		newRosterCommand(st),
	)
	return root
}

func (st *state) open(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(st.configPath, st.envFile)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if st.verbose {
		if level, err = config.ParseLevel(cfg.Log.Level); err != nil {
			return err
		}
	}
	logging.Configure(st.stderr, level, cfg.Log.Format)

	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	st.app = a

	if a.LoadErr != nil && cmd.Name() != "reset" {
		fmt.Fprintln(st.stderr, "warning: saved payment history could not be read and was set aside; starting empty.")
		fmt.Fprintln(st.stderr, "         Run 'payctl reset --yes' to start over.")
	}
	return nil
}
