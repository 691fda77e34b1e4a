// Package paymentrpc defines the Connect API of the payment reconciliation
// server: message types, procedure names and typed handler/client
// constructors.
//
// Messages are plain Go structs carried as JSON. Handlers accept both
// "application/json" and "application/json; charset=utf-8"; clients send
// "application/json".
//
// Usage:
//
//	path, handler := paymentrpc.NewPaymentServiceHandler(svc)
//	mux.Handle(path, handler)
//
//	client := paymentrpc.NewPaymentServiceClient(http.DefaultClient, "http://localhost:8080")
//	resp, err := client.ListHistory(ctx, connect.NewRequest(&paymentrpc.ListHistoryRequest{}))
package paymentrpc

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

const (
	// PaymentServiceName is the fully-qualified name of the PaymentService service.
	PaymentServiceName = "academypay.v1.PaymentService"
	// RosterServiceName is the fully-qualified name of the RosterService service.
	RosterServiceName = "academypay.v1.RosterService"
)

// codecNameJSONCharsetUTF8 is the codec name browsers pick when they append a charset.
const codecNameJSONCharsetUTF8 = "json; charset=utf-8"

// jsonCodec marshals messages with encoding/json.
type jsonCodec struct {
	name string
}

var _ connect.Codec = jsonCodec{}

func (c jsonCodec) Name() string { return c.name }

func (c jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (c jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}

func handlerCodecs() connect.HandlerOption {
	return connect.WithHandlerOptions(
		connect.WithCodec(jsonCodec{name: "json"}),
		connect.WithCodec(jsonCodec{name: codecNameJSONCharsetUTF8}),
	)
}

func clientCodec() connect.ClientOption {
	return connect.WithCodec(jsonCodec{name: "json"})
}
