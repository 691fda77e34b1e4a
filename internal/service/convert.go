package service

import (
	"time"

	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/summary"
	"github.com/mmynk/academypay/pkg/paymentrpc"
)

// timestampLayout matches the millisecond ISO form browsers produce.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func paymentToRPC(r models.PaymentRecord) *paymentrpc.Payment {
	return &paymentrpc.Payment{
		ID:           r.ID,
		PlayerID:     r.PlayerID,
		PlayerName:   r.PlayerName,
		PlayerEmail:  r.PlayerEmail,
		GroupID:      r.GroupID,
		GroupName:    r.GroupName,
		SubgroupID:   r.SubgroupID,
		SubgroupName: r.SubgroupName,
		Amount:       r.Amount.StringFixed(2),
		Date:         r.Date.String(),
		Method:       string(r.Method),
		Status:       string(r.Status),
		Receipt:      r.Receipt,
		Timestamp:    r.Timestamp.UTC().Format(timestampLayout),
	}
}

func paymentsToRPC(records []models.PaymentRecord) []*paymentrpc.Payment {
	out := make([]*paymentrpc.Payment, len(records))
	for i, r := range records {
		out[i] = paymentToRPC(r)
	}
	return out
}

func playersToRPC(players []models.Player) []*paymentrpc.Player {
	out := make([]*paymentrpc.Player, len(players))
	for i, p := range players {
		out[i] = &paymentrpc.Player{
			ID:         p.ID,
			Name:       p.Name,
			Email:      p.Email,
			Phone:      p.Phone,
			Club:       p.Club,
			GroupID:    p.GroupID,
			SubgroupID: p.SubgroupID,
		}
	}
	return out
}

func summaryToRPC(s summary.Summary) *paymentrpc.Summary {
	return &paymentrpc.Summary{
		TotalPayments:   int32(s.TotalPayments),
		TotalAmount:     s.TotalAmount.StringFixed(2),
		CompletedAmount: s.CompletedAmount.StringFixed(2),
		PendingAmount:   s.PendingAmount.StringFixed(2),
	}
}

func millisSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
