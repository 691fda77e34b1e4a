package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/academypay/internal/filter"
	"github.com/mmynk/academypay/internal/metrics"
	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/reconcile"
	"github.com/mmynk/academypay/internal/recordstore"
	"github.com/mmynk/academypay/internal/roster"
	"github.com/mmynk/academypay/internal/sorting"
	"github.com/mmynk/academypay/internal/summary"
	"github.com/mmynk/academypay/pkg/paymentrpc"
)

var _ paymentrpc.PaymentServiceHandler = (*PaymentService)(nil)

// PaymentService implements the Connect PaymentService
type PaymentService struct {
	ledger *recordstore.Store
	roster roster.Directory
	now    func() time.Time
}

// Option configures a PaymentService.
type Option func(*PaymentService)

// WithClock overrides the time source used for the default date window.
func WithClock(now func() time.Time) Option {
	return func(s *PaymentService) { s.now = now }
}

// NewPaymentService creates a new PaymentService over a loaded ledger and the roster.
func NewPaymentService(ledger *recordstore.Store, dir roster.Directory, opts ...Option) *PaymentService {
	s := &PaymentService{ledger: ledger, roster: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordPayment resolves the player in the roster and appends a Completed payment.
func (s *PaymentService) RecordPayment(ctx context.Context, req *connect.Request[paymentrpc.RecordPaymentRequest]) (*connect.Response[paymentrpc.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"player_id", req.Msg.PlayerID,
		"amount", req.Msg.Amount,
		"method", req.Msg.Method,
	)

	rec, err := s.newRecord(ctx, req.Msg)
	if err != nil {
		slog.Warn("RecordPayment rejected", "player_id", req.Msg.PlayerID, "error", err)
		return nil, err
	}

	saved, err := s.ledger.Add(ctx, rec)
	warning, degraded := degradedWarning("RecordPayment", err)
	if err != nil && !degraded {
		slog.Error("RecordPayment failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Payment recorded", "payment_id", saved.ID, "player_id", saved.PlayerID)

	return connect.NewResponse(&paymentrpc.RecordPaymentResponse{
		Payment:             paymentToRPC(saved),
		Message:             fmt.Sprintf("Payment of $%s recorded for %s", saved.Amount.StringFixed(2), saved.PlayerName),
		PersistenceDegraded: degraded,
		Warning:             warning,
	}), nil
}

// newRecord builds the record to store from the request, copying player and
// group details out of the roster.
func (s *PaymentService) newRecord(ctx context.Context, msg *paymentrpc.RecordPaymentRequest) (models.PaymentRecord, error) {
	rec := models.PaymentRecord{
		PlayerID: strings.TrimSpace(msg.PlayerID),
		Method:   models.Method(msg.Method),
		Status:   models.StatusCompleted,
		Receipt:  msg.Receipt,
	}

	if msg.Amount != "" {
		amount, err := decimal.NewFromString(strings.TrimSpace(msg.Amount))
		if err != nil {
			return rec, invalidArgument(&recordstore.ValidationError{Field: "amount", Message: "please enter a valid amount"})
		}
		rec.Amount = amount
	}
	if msg.Date != "" {
		date, err := models.ParseDate(msg.Date)
		if err != nil {
			return rec, invalidArgument(&recordstore.ValidationError{Field: "date", Message: err.Error()})
		}
		rec.Date = date
	}

	// An empty player id is reported by ledger validation.
	if rec.PlayerID == "" {
		return rec, nil
	}

	player, err := s.roster.GetPlayer(ctx, rec.PlayerID)
	if err != nil {
		return rec, toConnectError(err)
	}
	rec.PlayerName = player.Name
	rec.PlayerEmail = player.Email
	rec.GroupID = player.GroupID
	rec.SubgroupID = player.SubgroupID

	if player.GroupID != "" {
		group, err := s.roster.GetGroup(ctx, player.GroupID)
		if err != nil {
			slog.Warn("Player group not in roster", "player_id", player.ID, "group_id", player.GroupID, "error", err)
		} else {
			rec.GroupName = group.Name
		}
	}
	if player.SubgroupID != "" {
		subgroup, err := s.roster.GetSubgroup(ctx, player.SubgroupID)
		if err != nil {
			slog.Warn("Player subgroup not in roster", "player_id", player.ID, "subgroup_id", player.SubgroupID, "error", err)
		} else {
			rec.SubgroupName = subgroup.Name
		}
	}
	return rec, nil
}

// RemovePayment deletes one payment by id.
func (s *PaymentService) RemovePayment(ctx context.Context, req *connect.Request[paymentrpc.RemovePaymentRequest]) (*connect.Response[paymentrpc.RemovePaymentResponse], error) {
	slog.Info("RemovePayment request received", "payment_id", req.Msg.PaymentID)

	if req.Msg.PaymentID == "" {
		return nil, invalidArgument(errors.New("payment_id is required"))
	}

	err := s.ledger.Remove(ctx, req.Msg.PaymentID)
	warning, degraded := degradedWarning("RemovePayment", err)
	if err != nil && !degraded {
		slog.Error("RemovePayment failed", "payment_id", req.Msg.PaymentID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&paymentrpc.RemovePaymentResponse{
		PersistenceDegraded: degraded,
		Warning:             warning,
	}), nil
}

// ListHistory filters, sorts and totals the ledger.
func (s *PaymentService) ListHistory(ctx context.Context, req *connect.Request[paymentrpc.ListHistoryRequest]) (*connect.Response[paymentrpc.ListHistoryResponse], error) {
	slog.Debug("ListHistory request received",
		"group_id", req.Msg.Filter.GroupID,
		"subgroup_id", req.Msg.Filter.SubgroupID,
		"status", req.Msg.Filter.Status,
		"method", req.Msg.Filter.Method,
	)

	criteria, err := s.criteria(req.Msg.Filter)
	if err != nil {
		return nil, invalidArgument(err)
	}
	order, err := sortOrder(req.Msg.SortKey, req.Msg.SortDirection, req.Msg.ToggleSortKey)
	if err != nil {
		return nil, invalidArgument(err)
	}

	view := s.History(criteria, order)
	title := s.historyTitle(ctx, criteria.Scope.Normalize())

	slog.Info("ListHistory successful", "count", len(view.Records), "version", view.Version)

	return connect.NewResponse(&paymentrpc.ListHistoryResponse{
		Title:         title,
		Payments:      paymentsToRPC(view.Records),
		Summary:       summaryToRPC(view.Summary),
		SortKey:       string(order.Key),
		SortDirection: string(order.Direction),
		Version:       view.Version,
	}), nil
}

// HistoryView is one rendering of the payment history.
type HistoryView struct {
	Records []models.PaymentRecord
	Summary summary.Summary
	Version uint64
}

// History runs the filter, sort and summary pipeline over the current ledger.
// The summary covers exactly the records returned.
func (s *PaymentService) History(c filter.Criteria, o sorting.Order) HistoryView {
	start := time.Now()
	defer func() { metrics.QueryDuration.WithLabelValues("history").Observe(millisSince(start)) }()

	snap := s.ledger.Snapshot()
	filtered := filter.Apply(snap.Records, c)
	return HistoryView{
		Records: sorting.Sort(filtered, o),
		Summary: summary.Summarize(filtered),
		Version: snap.Version,
	}
}

// criteria converts the wire filter, applying the default end date.
func (s *PaymentService) criteria(f paymentrpc.Filter) (filter.Criteria, error) {
	c := filter.Criteria{
		Scope:      reconcile.Scope{GroupID: f.GroupID, SubgroupID: f.SubgroupID},
		SearchText: f.SearchText,
	}

	status, err := filter.ParseStatusMode(f.Status)
	if err != nil {
		return c, err
	}
	c.Status = status

	method, err := filter.ParseMethodFilter(f.Method)
	if err != nil {
		return c, err
	}
	c.Method = method

	if f.StartDate != "" {
		if c.StartDate, err = models.ParseDate(f.StartDate); err != nil {
			return c, err
		}
	}
	switch {
	case f.EndDate == nil:
		c = c.WithDefaultWindow(models.DateOf(s.now()))
	case *f.EndDate != "":
		if c.EndDate, err = models.ParseDate(*f.EndDate); err != nil {
			return c, err
		}
	}

	return c, c.Validate()
}

func sortOrder(key, direction, toggle string) (sorting.Order, error) {
	order, err := sorting.ParseOrder(key, direction)
	if err != nil {
		return sorting.Order{}, err
	}
	if toggle == "" {
		return order, nil
	}
	if _, err := sorting.ParseOrder(toggle, ""); err != nil {
		return sorting.Order{}, err
	}
	return order.Toggle(sorting.Key(toggle)), nil
}

// historyTitle renders "Payment History - <group> > <subgroup>" for the scope.
// Unknown ids are shown as-is.
func (s *PaymentService) historyTitle(ctx context.Context, scope reconcile.Scope) string {
	title := "Payment History"
	if scope.GroupID == "" {
		return title
	}
	name := scope.GroupID
	if g, err := s.roster.GetGroup(ctx, scope.GroupID); err == nil {
		name = g.Name
	}
	title += " - " + name
	if scope.SubgroupID != "" {
		name = scope.SubgroupID
		if sg, err := s.roster.GetSubgroup(ctx, scope.SubgroupID); err == nil {
			name = sg.Name
		}
		title += " > " + name
	}
	return title
}

// GetReconciliation splits the scoped roster into paid and unpaid players.
func (s *PaymentService) GetReconciliation(ctx context.Context, req *connect.Request[paymentrpc.GetReconciliationRequest]) (*connect.Response[paymentrpc.GetReconciliationResponse], error) {
	slog.Debug("GetReconciliation request received", "group_id", req.Msg.GroupID, "subgroup_id", req.Msg.SubgroupID)

	part, err := s.partition(ctx, reconcile.Scope{GroupID: req.Msg.GroupID, SubgroupID: req.Msg.SubgroupID})
	if err != nil {
		slog.Error("GetReconciliation failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetReconciliation successful",
		"group_id", part.Scope.GroupID,
		"roster", len(part.Roster),
		"paid", len(part.Paid),
	)

	return connect.NewResponse(&paymentrpc.GetReconciliationResponse{
		GroupID:     part.Scope.GroupID,
		SubgroupID:  part.Scope.SubgroupID,
		RosterCount: int32(len(part.Roster)),
		PaidCount:   int32(len(part.Paid)),
		UnpaidCount: int32(len(part.Unpaid)),
		Paid:        playersToRPC(part.Paid),
		Unpaid:      playersToRPC(part.Unpaid),
	}), nil
}

// ListPlayerStatus lists all, paid or unpaid players of a scope, narrowed by search text.
func (s *PaymentService) ListPlayerStatus(ctx context.Context, req *connect.Request[paymentrpc.ListPlayerStatusRequest]) (*connect.Response[paymentrpc.ListPlayerStatusResponse], error) {
	kind, err := reconcile.ParseListKind(req.Msg.Kind)
	if err != nil {
		return nil, invalidArgument(err)
	}

	part, err := s.partition(ctx, reconcile.Scope{GroupID: req.Msg.GroupID, SubgroupID: req.Msg.SubgroupID})
	if err != nil {
		slog.Error("ListPlayerStatus failed", "error", err)
		return nil, toConnectError(err)
	}
	players := filter.SearchPlayers(part.Players(kind), req.Msg.Search)

	return connect.NewResponse(&paymentrpc.ListPlayerStatusResponse{
		Title:   kind.Title(),
		Players: playersToRPC(players),
	}), nil
}

// partition returns the paid/unpaid split for scope against the current ledger.
func (s *PaymentService) partition(ctx context.Context, scope reconcile.Scope) (reconcile.Partition, error) {
	start := time.Now()
	defer func() { metrics.QueryDuration.WithLabelValues("partition").Observe(millisSince(start)) }()

	return reconcile.View(ctx, s.roster, scope, s.ledger.Snapshot().Paid)
}

// ResetLedger empties the ledger. It is the way out of a corrupt load.
func (s *PaymentService) ResetLedger(ctx context.Context, req *connect.Request[paymentrpc.ResetLedgerRequest]) (*connect.Response[paymentrpc.ResetLedgerResponse], error) {
	slog.Warn("ResetLedger request received")

	err := s.ledger.Reset(ctx)
	warning, degraded := degradedWarning("ResetLedger", err)
	if err != nil && !degraded {
		slog.Error("ResetLedger failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&paymentrpc.ResetLedgerResponse{
		PersistenceDegraded: degraded,
		Warning:             warning,
	}), nil
}
