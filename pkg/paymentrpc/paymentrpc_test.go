package paymentrpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"connectrpc.com/connect"
)

type echoRoster struct {
	UnimplementedRosterServiceHandler
}

func (echoRoster) ListSubgroups(ctx context.Context, req *connect.Request[ListSubgroupsRequest]) (*connect.Response[ListSubgroupsResponse], error) {
	return connect.NewResponse(&ListSubgroupsResponse{
		Subgroups: []*Subgroup{{ID: req.Msg.GroupID + "-a", Name: "A", GroupID: req.Msg.GroupID}},
	}), nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(NewRosterServiceHandler(echoRoster{}))
	mux.Handle(NewPaymentServiceHandler(UnimplementedPaymentServiceHandler{}))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientRoundTrip(t *testing.T) {
	server := newTestServer(t)
	client := NewRosterServiceClient(http.DefaultClient, server.URL+"/")

	resp, err := client.ListSubgroups(context.Background(), connect.NewRequest(&ListSubgroupsRequest{GroupID: "u12"}))
	if err != nil {
		t.Fatalf("ListSubgroups failed: %v", err)
	}
	if len(resp.Msg.Subgroups) != 1 || resp.Msg.Subgroups[0].ID != "u12-a" {
		t.Errorf("unexpected subgroups: %+v", resp.Msg.Subgroups)
	}
}

func TestUnimplemented(t *testing.T) {
	server := newTestServer(t)
	client := NewPaymentServiceClient(http.DefaultClient, server.URL)

	_, err := client.ListHistory(context.Background(), connect.NewRequest(&ListHistoryRequest{}))
	if connect.CodeOf(err) != connect.CodeUnimplemented {
		t.Fatalf("expected CodeUnimplemented, got %v", err)
	}

	_, err = NewRosterServiceClient(http.DefaultClient, server.URL).
		ListGroups(context.Background(), connect.NewRequest(&ListGroupsRequest{}))
	if connect.CodeOf(err) != connect.CodeUnimplemented {
		t.Fatalf("expected CodeUnimplemented, got %v", err)
	}
}

func TestPlainJSONPost(t *testing.T) {
	server := newTestServer(t)

	for _, contentType := range []string{"application/json", "application/json; charset=utf-8"} {
		t.Run(contentType, func(t *testing.T) {
			resp, err := http.Post(server.URL+RosterServiceListSubgroupsProcedure, contentType,
				strings.NewReader(`{"groupId":"u14"}`))
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d: %s", resp.StatusCode, body)
			}

			var out ListSubgroupsResponse
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("invalid JSON %q: %v", body, err)
			}
			if len(out.Subgroups) != 1 || out.Subgroups[0].GroupID != "u14" {
				t.Errorf("unexpected body: %s", body)
			}
		})
	}
}

func TestUnknownProcedure(t *testing.T) {
	server := newTestServer(t)
	resp, err := http.Post(server.URL+"/academypay.v1.RosterService/Nope", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
