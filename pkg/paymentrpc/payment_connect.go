package paymentrpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	PaymentServiceRecordPaymentProcedure     = "/academypay.v1.PaymentService/RecordPayment"
	PaymentServiceRemovePaymentProcedure     = "/academypay.v1.PaymentService/RemovePayment"
	PaymentServiceListHistoryProcedure       = "/academypay.v1.PaymentService/ListHistory"
	PaymentServiceGetReconciliationProcedure = "/academypay.v1.PaymentService/GetReconciliation"
	PaymentServiceListPlayerStatusProcedure  = "/academypay.v1.PaymentService/ListPlayerStatus"
	PaymentServiceResetLedgerProcedure       = "/academypay.v1.PaymentService/ResetLedger"
)

// PaymentServiceClient is a client for the academypay.v1.PaymentService service.
type PaymentServiceClient interface {
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	RemovePayment(context.Context, *connect.Request[RemovePaymentRequest]) (*connect.Response[RemovePaymentResponse], error)
	ListHistory(context.Context, *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error)
	GetReconciliation(context.Context, *connect.Request[GetReconciliationRequest]) (*connect.Response[GetReconciliationResponse], error)
	ListPlayerStatus(context.Context, *connect.Request[ListPlayerStatusRequest]) (*connect.Response[ListPlayerStatusResponse], error)
	ResetLedger(context.Context, *connect.Request[ResetLedgerRequest]) (*connect.Response[ResetLedgerResponse], error)
}

// NewPaymentServiceClient constructs a client for the academypay.v1.PaymentService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{clientCodec()}, opts...)
	return &paymentServiceClient{
		recordPayment: connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](
			httpClient, baseURL+PaymentServiceRecordPaymentProcedure, connect.WithClientOptions(opts...),
		),
		removePayment: connect.NewClient[RemovePaymentRequest, RemovePaymentResponse](
			httpClient, baseURL+PaymentServiceRemovePaymentProcedure, connect.WithClientOptions(opts...),
		),
		listHistory: connect.NewClient[ListHistoryRequest, ListHistoryResponse](
			httpClient, baseURL+PaymentServiceListHistoryProcedure, connect.WithClientOptions(opts...),
		),
		getReconciliation: connect.NewClient[GetReconciliationRequest, GetReconciliationResponse](
			httpClient, baseURL+PaymentServiceGetReconciliationProcedure, connect.WithClientOptions(opts...),
		),
		listPlayerStatus: connect.NewClient[ListPlayerStatusRequest, ListPlayerStatusResponse](
			httpClient, baseURL+PaymentServiceListPlayerStatusProcedure, connect.WithClientOptions(opts...),
		),
		resetLedger: connect.NewClient[ResetLedgerRequest, ResetLedgerResponse](
			httpClient, baseURL+PaymentServiceResetLedgerProcedure, connect.WithClientOptions(opts...),
		),
	}
}

type paymentServiceClient struct {
	recordPayment     *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	removePayment     *connect.Client[RemovePaymentRequest, RemovePaymentResponse]
	listHistory       *connect.Client[ListHistoryRequest, ListHistoryResponse]
	getReconciliation *connect.Client[GetReconciliationRequest, GetReconciliationResponse]
	listPlayerStatus  *connect.Client[ListPlayerStatusRequest, ListPlayerStatusResponse]
	resetLedger       *connect.Client[ResetLedgerRequest, ResetLedgerResponse]
}

func (c *paymentServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) RemovePayment(ctx context.Context, req *connect.Request[RemovePaymentRequest]) (*connect.Response[RemovePaymentResponse], error) {
	return c.removePayment.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListHistory(ctx context.Context, req *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error) {
	return c.listHistory.CallUnary(ctx, req)
}

func (c *paymentServiceClient) GetReconciliation(ctx context.Context, req *connect.Request[GetReconciliationRequest]) (*connect.Response[GetReconciliationResponse], error) {
	return c.getReconciliation.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListPlayerStatus(ctx context.Context, req *connect.Request[ListPlayerStatusRequest]) (*connect.Response[ListPlayerStatusResponse], error) {
	return c.listPlayerStatus.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ResetLedger(ctx context.Context, req *connect.Request[ResetLedgerRequest]) (*connect.Response[ResetLedgerResponse], error) {
	return c.resetLedger.CallUnary(ctx, req)
}

// PaymentServiceHandler is an implementation of the academypay.v1.PaymentService service.
type PaymentServiceHandler interface {
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	RemovePayment(context.Context, *connect.Request[RemovePaymentRequest]) (*connect.Response[RemovePaymentResponse], error)
	ListHistory(context.Context, *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error)
	GetReconciliation(context.Context, *connect.Request[GetReconciliationRequest]) (*connect.Response[GetReconciliationResponse], error)
	ListPlayerStatus(context.Context, *connect.Request[ListPlayerStatusRequest]) (*connect.Response[ListPlayerStatusResponse], error)
	ResetLedger(context.Context, *connect.Request[ResetLedgerRequest]) (*connect.Response[ResetLedgerResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{handlerCodecs()}, opts...)
	recordPaymentHandler := connect.NewUnaryHandler(
		PaymentServiceRecordPaymentProcedure,
		svc.RecordPayment,
		connect.WithHandlerOptions(opts...),
	)
	removePaymentHandler := connect.NewUnaryHandler(
		PaymentServiceRemovePaymentProcedure,
		svc.RemovePayment,
		connect.WithHandlerOptions(opts...),
	)
	listHistoryHandler := connect.NewUnaryHandler(
		PaymentServiceListHistoryProcedure,
		svc.ListHistory,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	getReconciliationHandler := connect.NewUnaryHandler(
		PaymentServiceGetReconciliationProcedure,
		svc.GetReconciliation,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	listPlayerStatusHandler := connect.NewUnaryHandler(
		PaymentServiceListPlayerStatusProcedure,
		svc.ListPlayerStatus,
		connect.WithIdempotency(connect.IdempotencyNoSideEffects),
		connect.WithHandlerOptions(opts...),
	)
	resetLedgerHandler := connect.NewUnaryHandler(
		PaymentServiceResetLedgerProcedure,
		svc.ResetLedger,
		connect.WithHandlerOptions(opts...),
	)
	return "/" + PaymentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServiceRecordPaymentProcedure:
			recordPaymentHandler.ServeHTTP(w, r)
		case PaymentServiceRemovePaymentProcedure:
			removePaymentHandler.ServeHTTP(w, r)
		case PaymentServiceListHistoryProcedure:
			listHistoryHandler.ServeHTTP(w, r)
		case PaymentServiceGetReconciliationProcedure:
			getReconciliationHandler.ServeHTTP(w, r)
		case PaymentServiceListPlayerStatusProcedure:
			listPlayerStatusHandler.ServeHTTP(w, r)
		case PaymentServiceResetLedgerProcedure:
			resetLedgerHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedPaymentServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPaymentServiceHandler struct{}

func (UnimplementedPaymentServiceHandler) RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.PaymentService.RecordPayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) RemovePayment(context.Context, *connect.Request[RemovePaymentRequest]) (*connect.Response[RemovePaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.PaymentService.RemovePayment is not implemented"))
}

func (UnimplementedPaymentServiceHandler) ListHistory(context.Context, *connect.Request[ListHistoryRequest]) (*connect.Response[ListHistoryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.PaymentService.ListHistory is not implemented"))
}

func (UnimplementedPaymentServiceHandler) GetReconciliation(context.Context, *connect.Request[GetReconciliationRequest]) (*connect.Response[GetReconciliationResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.PaymentService.GetReconciliation is not implemented"))
}

func (UnimplementedPaymentServiceHandler) ListPlayerStatus(context.Context, *connect.Request[ListPlayerStatusRequest]) (*connect.Response[ListPlayerStatusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.PaymentService.ListPlayerStatus is not implemented"))
}

func (UnimplementedPaymentServiceHandler) ResetLedger(context.Context, *connect.Request[ResetLedgerRequest]) (*connect.Response[ResetLedgerResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("academypay.v1.PaymentService.ResetLedger is not implemented"))
}
