package cli

import (
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/academypay/pkg/paymentrpc"
)

// ─── add ────────────────────────────────────────────────────────────────────

func newAddCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a payment",
		Long: `Record a payment for a player. The date defaults to today and may not be
in the future. The payment is stored as Completed.`,
		Example: `  payctl add --player p1 --amount 50 --method cash
  payctl add --player p1 --amount 25.50 --date 2024-03-01 --method card --receipt R-118`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(st, cmd)
		},
	}
	cmd.Flags().StringP("player", "p", "", "Player id")
	cmd.Flags().StringP("amount", "a", "", "Amount paid, e.g. 50 or 25.50")
	cmd.Flags().StringP("date", "d", "", "Payment date YYYY-MM-DD (default today)")
	cmd.Flags().StringP("method", "m", "cash", "cash, card, bank_transfer, check or online")
	cmd.Flags().String("receipt", "", "Receipt number")
	_ = cmd.MarkFlagRequired("player")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runAdd(st *state, cmd *cobra.Command) error {
	player, _ := cmd.Flags().GetString("player")
	amount, _ := cmd.Flags().GetString("amount")
	date, _ := cmd.Flags().GetString("date")
	method, _ := cmd.Flags().GetString("method")
	receipt, _ := cmd.Flags().GetString("receipt")
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	resp, err := st.app.Payments.RecordPayment(cmd.Context(), connect.NewRequest(&paymentrpc.RecordPaymentRequest{
		PlayerID: player,
		Amount:   amount,
		Date:     date,
		Method:   method,
		Receipt:  receipt,
	}))
	if err != nil {
		return err
	}
	st.warn(resp.Msg.Warning)

	if st.jsonOut {
		return printJSON(cmd.OutOrStdout(), resp.Msg)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", resp.Msg.Message, resp.Msg.Payment.ID)
	return nil
}

// ─── remove ─────────────────────────────────────────────────────────────────

func newRemoveCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:     "remove PAYMENT_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a payment record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := st.app.Payments.RemovePayment(cmd.Context(), connect.NewRequest(&paymentrpc.RemovePaymentRequest{
				PaymentID: args[0],
			}))
			if err != nil {
				return err
			}
			st.warn(resp.Msg.Warning)
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Payment %s removed\n", args[0])
			return nil
		},
	}
}

// ─── list / summary ─────────────────────────────────────────────────────────

// historyFlags are the filter and sort flags shared by list and summary.
type historyFlags struct {
	group, subgroup string
	status, method  string
	from, to        string
	search          string
	sortKey, dir    string
}

func (f *historyFlags) register(cmd *cobra.Command, withSort bool) {
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Group id")
	cmd.Flags().StringVarP(&f.subgroup, "subgroup", "s", "", "Subgroup id (requires --group)")
	cmd.Flags().StringVar(&f.status, "status", "", "all, paidOnly or unpaidOnly (default Completed only)")
	cmd.Flags().StringVar(&f.method, "method", "all", "Payment method or all")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest payment date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest payment date YYYY-MM-DD (default today, empty for no limit)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Match player name, email or receipt")
	if withSort {
		cmd.Flags().StringVar(&f.sortKey, "sort", "date", "date or playerName")
		cmd.Flags().StringVar(&f.dir, "dir", "desc", "asc or desc")
	}
}

func (f *historyFlags) request(cmd *cobra.Command) *paymentrpc.ListHistoryRequest {
	req := &paymentrpc.ListHistoryRequest{
		Filter: paymentrpc.Filter{
			GroupID:    f.group,
			SubgroupID: f.subgroup,
			Status:     f.status,
			Method:     f.method,
			StartDate:  f.from,
			SearchText: f.search,
		},
		SortKey:       f.sortKey,
		SortDirection: f.dir,
	}
	if cmd.Flags().Changed("to") {
		to := f.to
		req.Filter.EndDate = &to
	}
	return req
}

func newListCommand(st *state) *cobra.Command {
	var flags historyFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "history"},
		Short:   "Show the payment history",
		Long: `Show payment records matching the filters, followed by their totals.
Without --status only Completed payments are shown.`,
		Example: `  payctl list --group u12 --from 2024-01-01
  payctl list --status all --to "" --sort playerName --dir asc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := st.app.Payments.ListHistory(cmd.Context(), connect.NewRequest(flags.request(cmd)))
			if err != nil {
				return err
			}
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, resp.Msg.Title)
			fmt.Fprintln(out)
			if len(resp.Msg.Payments) == 0 {
				fmt.Fprintln(out, "No payments found.")
			} else if err := printPayments(out, resp.Msg.Payments, time.Now()); err != nil {
				return err
			}
			fmt.Fprintln(out)
			return printSummary(out, resp.Msg.Summary)
		},
	}
	flags.register(cmd, true)
	return cmd
}

func newSummaryCommand(st *state) *cobra.Command {
	var flags historyFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals for the filtered payment history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := st.app.Payments.ListHistory(cmd.Context(), connect.NewRequest(flags.request(cmd)))
			if err != nil {
				return err
			}
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg.Summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg.Title)
			return printSummary(cmd.OutOrStdout(), resp.Msg.Summary)
		},
	}
	flags.register(cmd, false)
	return cmd
}

// ─── players / reconcile ────────────────────────────────────────────────────

func newPlayersCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "List players by payment status",
		Example: `  payctl players --group u12 --kind unpaid
  payctl players --kind paid --search ana`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			group, _ := cmd.Flags().GetString("group")
			subgroup, _ := cmd.Flags().GetString("subgroup")
			kind, _ := cmd.Flags().GetString("kind")
			search, _ := cmd.Flags().GetString("search")

			resp, err := st.app.Payments.ListPlayerStatus(cmd.Context(), connect.NewRequest(&paymentrpc.ListPlayerStatusRequest{
				GroupID:    group,
				SubgroupID: subgroup,
				Kind:       kind,
				Search:     search,
			}))
			if err != nil {
				return err
			}
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", resp.Msg.Title, len(resp.Msg.Players))
			return printPlayers(cmd.OutOrStdout(), resp.Msg.Players)
		},
	}
	cmd.Flags().StringP("group", "g", "", "Group id")
	cmd.Flags().StringP("subgroup", "s", "", "Subgroup id")
	cmd.Flags().StringP("kind", "k", "all", "all, paid or unpaid")
	cmd.Flags().StringP("search", "q", "", "Match player name or email")
	return cmd
}

func newReconcileCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Show who in a group has paid",
		Long: `Split the roster of a group or subgroup into players with a Completed
payment and players without one. With no group the whole roster is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			group, _ := cmd.Flags().GetString("group")
			subgroup, _ := cmd.Flags().GetString("subgroup")

			resp, err := st.app.Payments.GetReconciliation(cmd.Context(), connect.NewRequest(&paymentrpc.GetReconciliationRequest{
				GroupID:    group,
				SubgroupID: subgroup,
			}))
			if err != nil {
				return err
			}
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Roster: %d  Paid: %d  Unpaid: %d\n", resp.Msg.RosterCount, resp.Msg.PaidCount, resp.Msg.UnpaidCount)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Paid")
			if err := printPlayers(out, resp.Msg.Paid); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Unpaid")
			return printPlayers(out, resp.Msg.Unpaid)
		},
	}
	cmd.Flags().StringP("group", "g", "", "Group id")
	cmd.Flags().StringP("subgroup", "s", "", "Subgroup id")
	return cmd
}

// ─── reset ──────────────────────────────────────────────────────────────────

func newResetCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every payment record",
		Long: `Replace the payment history with an empty one. This is the way out after
the saved history was found corrupt. It cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("reset deletes all payment records; pass --yes to confirm")
			}
			resp, err := st.app.Payments.ResetLedger(cmd.Context(), connect.NewRequest(&paymentrpc.ResetLedgerRequest{}))
			if err != nil {
				return err
			}
			st.warn(resp.Msg.Warning)
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Payment history cleared")
			return nil
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm the reset")
	return cmd
}

func (st *state) warn(msg string) {
	if msg != "" {
		fmt.Fprintln(st.stderr, "warning:", msg)
	}
}
