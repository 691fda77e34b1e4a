package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/academypay/internal/roster"
	"github.com/mmynk/academypay/pkg/paymentrpc"
)

var _ paymentrpc.RosterServiceHandler = (*RosterService)(nil)

// RosterService implements the Connect RosterService, a read-only view of the
// roster for filter pickers and payment entry.
type RosterService struct {
	roster roster.Directory
}

// NewRosterService creates a new RosterService.
func NewRosterService(dir roster.Directory) *RosterService {
	return &RosterService{roster: dir}
}

// ListGroups retrieves all groups.
func (s *RosterService) ListGroups(ctx context.Context, req *connect.Request[paymentrpc.ListGroupsRequest]) (*connect.Response[paymentrpc.ListGroupsResponse], error) {
	groups, err := s.roster.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*paymentrpc.Group, len(groups))
	for i, g := range groups {
		out[i] = &paymentrpc.Group{ID: g.ID, Name: g.Name, SubgroupIDs: g.SubgroupIDs}
	}

	slog.Debug("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&paymentrpc.ListGroupsResponse{Groups: out}), nil
}

// ListSubgroups retrieves the subgroups of one group in display order.
func (s *RosterService) ListSubgroups(ctx context.Context, req *connect.Request[paymentrpc.ListSubgroupsRequest]) (*connect.Response[paymentrpc.ListSubgroupsResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, invalidArgument(errors.New("group_id is required"))
	}

	subgroups, err := s.roster.ListSubgroups(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Warn("ListSubgroups failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*paymentrpc.Subgroup, len(subgroups))
	for i, sg := range subgroups {
		out[i] = &paymentrpc.Subgroup{ID: sg.ID, Name: sg.Name, GroupID: sg.GroupID}
	}
	return connect.NewResponse(&paymentrpc.ListSubgroupsResponse{Subgroups: out}), nil
}

// ListPlayers retrieves the players of a group or subgroup, or everyone.
func (s *RosterService) ListPlayers(ctx context.Context, req *connect.Request[paymentrpc.ListPlayersRequest]) (*connect.Response[paymentrpc.ListPlayersResponse], error) {
	players, err := s.roster.ListPlayers(ctx, req.Msg.GroupID, req.Msg.SubgroupID)
	if err != nil {
		slog.Error("ListPlayers failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&paymentrpc.ListPlayersResponse{Players: playersToRPC(players)}), nil
}
