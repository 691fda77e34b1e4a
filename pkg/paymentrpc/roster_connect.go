package paymentrpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	RosterServiceListGroupsProcedure    = "/academypay.v1.RosterService/ListGroups"
	RosterServiceListSubgroupsProcedure = "/academypay.v1.RosterService/ListSubgroups"
	RosterServiceListPlayersProcedure   = "/academypay.v1.RosterService/ListPlayers"
)

// RosterServiceClient is a client for the academypay.v1.RosterService service.
type RosterServiceClient interface {
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	ListSubgroups(context.Context, *connect.Request[ListSubgroupsRequest]) (*connect.Response[ListSubgroupsResponse], error)
	ListPlayers(context.Context, *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error)
}

// NewRosterServiceClient constructs a client for the academypay.v1.RosterService service.
func NewRosterServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) RosterServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{clientCodec()}, opts...)
	return &rosterServiceClient{
		listGroups: connect.NewClient[ListGroupsRequest, ListGroupsResponse](
			httpClient, baseURL+RosterServiceListGroupsProcedure, connect.WithClientOptions(opts...),
		),
		listSubgroups: connect.NewClient[ListSubgroupsRequest, ListSubgroupsResponse](
			httpClient, baseURL+RosterServiceListSubgroupsProcedure, connect.WithClientOptions(opts...),
		),
		listPlayers: connect.NewClient[ListPlayersRequest, ListPlayersResponse](
			httpClient, baseURL+RosterServiceListPlayersProcedure, connect.WithClientOptions(opts...),
		),
	}
}

type rosterServiceClient struct {
	listGroups    *connect.Client[ListGroupsRequest, ListGroupsResponse]
	listSubgroups *connect.Client[ListSubgroupsRequest, ListSubgroupsResponse]
	listPlayers   *connect.Client[ListPlayersRequest, ListPlayersResponse]
}

func (c *rosterServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *rosterServiceClient) ListSubgroups(ctx context.Context, req *connect.Request[ListSubgroupsRequest]) (*connect.Response[ListSubgroupsResponse], error) {
	return c.listSubgroups.CallUnary(ctx, req)
}

func (c *rosterServiceClient) ListPlayers(ctx context.Context, req *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	return c.listPlayers.CallUnary(ctx, req)
}

// RosterServiceHandler is an implementation of the academypay.v1.RosterService service.
type RosterServiceHandler interface {
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	ListSubgroups(context.Context, *connect.Request[ListSubgroupsRequest]) (*connect.Response[ListSubgroupsResponse], error)
	ListPlayers(context.Context, *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error)
}

// NewRosterServiceHandler builds an HTTP handler from the service implementation.
func NewRosterServiceHandler(svc RosterServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{handlerCodecs(), connect.WithIdempotency(connect.IdempotencyNoSideEffects)}, opts...)
	listGroupsHandler := connect.NewUnaryHandler(RosterServiceListGroupsProcedure, svc.ListGroups, connect.WithHandlerOptions(opts...))
	listSubgroupsHandler := connect.NewUnaryHandler(RosterServiceListSubgroupsProcedure, svc.ListSubgroups, connect.WithHandlerOptions(opts...))
	listPlayersHandler := connect.NewUnaryHandler(RosterServiceListPlayersProcedure, svc.ListPlayers, connect.WithHandlerOptions(opts...))
	return "/" + RosterServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case RosterServiceListGroupsProcedure:
			listGroupsHandler.ServeHTTP(w, r)
		case RosterServiceListSubgroupsProcedure:
			listSubgroupsHandler.ServeHTTP(w, r)
		case RosterServiceListPlayersProcedure:
			listPlayersHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedRosterServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedRosterServiceHandler struct{}

func (UnimplementedRosterServiceHandler) ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.RosterService.ListGroups is not implemented"))
}

func (UnimplementedRosterServiceHandler) ListSubgroups(context.Context, *connect.Request[ListSubgroupsRequest]) (*connect.Response[ListSubgroupsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.RosterService.ListSubgroups is not implemented"))
}

func (UnimplementedRosterServiceHandler) ListPlayers(context.Context, *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.RosterService.ListPlayers is not implemented"))
}
