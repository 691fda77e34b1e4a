package cli

import (
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mmynk/academypay/internal/roster"
	"github.com/mmynk/academypay/pkg/paymentrpc"
)

func newRosterCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the groups, subgroups and players payments are checked against",
	}
	cmd.AddCommand(
		newRosterImportCommand(st),
		newRosterSeedCommand(st),
		newRosterGroupsCommand(st),
	)
	return cmd
}

// ─── roster import ──────────────────────────────────────────────────────────

func newRosterImportCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the roster with a JSON or YAML export",
		Long: `Replace the roster with the groups and players in FILE. Files ending in
.yaml or .yml are read as YAML, anything else as JSON. Players without an id
get one. Payment records are not touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := roster.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			if err := st.app.ReplaceRoster(cmd.Context(), doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d groups and %d players from %s\n", len(doc.Groups), len(doc.Players), args[0])
			return nil
		},
	}
}

// ─── roster seed ────────────────────────────────────────────────────────────

func newRosterSeedCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install a small demo roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			groups, err := st.app.Roster.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			if len(groups) > 0 && !force {
				return fmt.Errorf("roster already has %d groups; pass --force to replace it", len(groups))
			}

			doc := demoRoster()
			if err := st.app.ReplaceRoster(cmd.Context(), doc); err != nil {
				return err
			}
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), doc)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d groups and %d players\n", len(doc.Groups), len(doc.Players))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Replace an existing roster")
	return cmd
}

func demoRoster() *roster.Document {
	group := func(name string, subgroups ...string) roster.DocumentGroup {
		g := roster.DocumentGroup{ID: uuid.NewString(), Name: name}
		for _, sg := range subgroups {
			g.Subgroups = append(g.Subgroups, roster.DocumentSubgroup{ID: uuid.NewString(), Name: sg})
		}
		return g
	}
	u10 := group("U10", "A", "B")
	u12 := group("U12", "A", "B")
	u14 := group("U14")

	player := func(name, club string, g roster.DocumentGroup, sub int) roster.DocumentPlayer {
		p := roster.DocumentPlayer{
			ID:      uuid.NewString(),
			Name:    name,
			Email:   strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			Club:    club,
			GroupID: g.ID,
		}
		if sub >= 0 {
			p.SubgroupID = g.Subgroups[sub].ID
		}
		return p
	}

	return &roster.Document{
		Groups: []roster.DocumentGroup{u10, u12, u14},
		Players: []roster.DocumentPlayer{
			player("Lucas Silva", "Norte", u10, 0),
			player("Marta Gomez", "Norte", u10, 0),
			player("Nico Ferrer", "Sur", u10, 1),
			player("Ana Ruiz", "Norte", u12, 0),
			player("Bruno Costa", "Sur", u12, 0),
			player("Carla Mendes", "Norte", u12, 1),
			player("Diego Alves", "Sur", u14, -1),
			player("Emma Lopez", "Norte", u14, -1),
		},
	}
}

// ─── roster groups ──────────────────────────────────────────────────────────

func newRosterGroupsCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List groups and their subgroups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resp, err := st.app.Rosters.ListGroups(ctx, connect.NewRequest(&paymentrpc.ListGroupsRequest{}))
			if err != nil {
				return err
			}
			if st.jsonOut {
				return printJSON(cmd.OutOrStdout(), resp.Msg)
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tSUBGROUPS")
			for _, g := range resp.Msg.Groups {
				subs, err := st.app.Rosters.ListSubgroups(ctx, connect.NewRequest(&paymentrpc.ListSubgroupsRequest{GroupID: g.ID}))
				if err != nil {
					return err
				}
				names := make([]string, 0, len(subs.Msg.Subgroups))
				for _, sg := range subs.Msg.Subgroups {
					names = append(names, fmt.Sprintf("%s (%s)", sg.Name, sg.ID))
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", g.ID, g.Name, dash(strings.Join(names, ", ")))
			}
			return tw.Flush()
		},
	}
}
