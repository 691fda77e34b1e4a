package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mmynk/academypay/pkg/paymentrpc"
)

// printJSON writes v indented, one document per call.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printPayments(w io.Writer, payments []*paymentrpc.Payment, now time.Time) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tPLAYER\tGROUP\tAMOUNT\tMETHOD\tSTATUS\tRECORDED")
	for _, p := range payments {
		group := p.GroupName
		if p.SubgroupName != "" {
			group += " > " + p.SubgroupName
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Date, p.PlayerName, dash(group), p.Amount, p.Method, p.Status, recorded(p.Timestamp, now))
	}
	return tw.Flush()
}

func printSummary(w io.Writer, s *paymentrpc.Summary) error {
	if s == nil {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "Payments:\t%s\n", humanize.Comma(int64(s.TotalPayments)))
	fmt.Fprintf(tw, "Total:\t$%s\n", s.TotalAmount)
	fmt.Fprintf(tw, "Completed:\t$%s\n", s.CompletedAmount)
	fmt.Fprintf(tw, "Pending:\t$%s\n", s.PendingAmount)
	return tw.Flush()
}

func printPlayers(w io.Writer, players []*paymentrpc.Player) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCLUB")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, dash(p.Email), dash(p.Club))
	}
	return tw.Flush()
}

// recorded renders a wire timestamp relative to now ("3 minutes ago").
func recorded(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return dash(ts)
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
