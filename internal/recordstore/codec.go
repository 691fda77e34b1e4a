package recordstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/academypay/internal/models"
)

// persistedRecord is the durable representation of a PaymentRecord.
// Field names and nullability match the format the console has always written.
type persistedRecord struct {
	ID           string          `json:"id"`
	PlayerID     string          `json:"playerId"`
	PlayerName   string          `json:"playerName"`
	PlayerEmail  string          `json:"playerEmail"`
	GroupID      *string         `json:"groupId"`
	GroupName    *string         `json:"groupName"`
	SubgroupID   *string         `json:"subgroupId"`
	SubgroupName *string         `json:"subgroupName"`
	Amount       json.Number     `json:"amount"`
	Date         string          `json:"date"`
	Method       string          `json:"method"`
	Status       string          `json:"status"`
	Timestamp    string          `json:"timestamp"`
	Receipt      json.RawMessage `json:"receipt,omitempty"`
}

// Encode serializes records, in order, to the persisted JSON array.
func Encode(records []models.PaymentRecord) ([]byte, error) {
	out := make([]persistedRecord, len(records))
	for i, r := range records {
		p := persistedRecord{
			ID:           r.ID,
			PlayerID:     r.PlayerID,
			PlayerName:   r.PlayerName,
			PlayerEmail:  r.PlayerEmail,
			GroupID:      nullable(r.GroupID),
			GroupName:    nullable(r.GroupName),
			SubgroupID:   nullable(r.SubgroupID),
			SubgroupName: nullable(r.SubgroupName),
			Amount:       json.Number(r.Amount.String()),
			Date:         r.Date.String(),
			Method:       string(r.Method),
			Status:       string(r.Status),
			Timestamp:    r.Timestamp.UTC().Format(time.RFC3339Nano),
		}
		if r.Receipt != "" {
			receipt, err := encodeReceipt(r.Receipt)
			if err != nil {
				return nil, fmt.Errorf("failed to encode receipt for %s: %w", r.ID, err)
			}
			p.Receipt = receipt
		}
		out[i] = p
	}
	return json.Marshal(out)
}

// Decode parses the persisted JSON array. Any malformed element fails the
// whole payload; a partially trusted ledger is worse than an empty one.
func Decode(data []byte) ([]models.PaymentRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []models.PaymentRecord{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var in []persistedRecord
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse payment history: %w", err)
	}

	records := make([]models.PaymentRecord, len(in))
	for i, p := range in {
		r, err := p.toModel()
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, p.ID, err)
		}
		records[i] = r
	}
	return records, nil
}

func (p persistedRecord) toModel() (models.PaymentRecord, error) {
	if p.ID == "" {
		return models.PaymentRecord{}, fmt.Errorf("missing id")
	}
	amount, err := decimal.NewFromString(p.Amount.String())
	if err != nil {
		return models.PaymentRecord{}, fmt.Errorf("invalid amount %q: %w", p.Amount, err)
	}
	date, err := models.ParseDate(p.Date)
	if err != nil {
		return models.PaymentRecord{}, err
	}
	method, err := models.ParseMethod(p.Method)
	if err != nil {
		return models.PaymentRecord{}, err
	}
	status, err := models.ParseStatus(p.Status)
	if err != nil {
		return models.PaymentRecord{}, err
	}

	var ts time.Time
	if p.Timestamp != "" {
		ts, err = time.Parse(time.RFC3339Nano, p.Timestamp)
		if err != nil {
			return models.PaymentRecord{}, fmt.Errorf("invalid timestamp %q: %w", p.Timestamp, err)
		}
	}

	return models.PaymentRecord{
		ID:           p.ID,
		PlayerID:     p.PlayerID,
		PlayerName:   p.PlayerName,
		PlayerEmail:  p.PlayerEmail,
		GroupID:      deref(p.GroupID),
		GroupName:    deref(p.GroupName),
		SubgroupID:   deref(p.SubgroupID),
		SubgroupName: deref(p.SubgroupName),
		Amount:       amount,
		Date:         date,
		Method:       method,
		Status:       status,
		Receipt:      receiptRef(p.Receipt),
		Timestamp:    ts,
	}, nil
}

// receiptRef keeps string receipts as-is. Older entries stored an arbitrary
// object (or null); those are kept as their raw JSON so nothing is lost.
func receiptRef(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// encodeReceipt is the inverse of receiptRef: a receipt that is a raw JSON
// object or array is written back unchanged, anything else as a string.
func encodeReceipt(receipt string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(receipt)
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && json.Valid([]byte(trimmed)) {
		return json.RawMessage(receipt), nil
	}
	return json.Marshal(receipt)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
