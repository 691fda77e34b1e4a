// Package recordstore holds the canonical list of payment records and mediates
// its persistence.
//
// The in-memory ledger is authoritative for the session. Every mutation
// re-serializes the whole ledger to the medium; when that write fails the
// mutation still stands and the caller receives ErrPersistenceDegraded.
package recordstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/academypay/internal/metrics"
	"github.com/mmynk/academypay/internal/models"
	"github.com/mmynk/academypay/internal/persistence"
	"github.com/mmynk/academypay/internal/reconcile"
)

// DefaultKey is the key the ledger is saved under.
const DefaultKey = "paymentHistory"

// Store is the payment ledger.
// Records are kept most-recent-first. Slices handed out by Snapshot are never
// modified afterwards; mutations build new slices.
type Store struct {
	mu sync.RWMutex

	medium persistence.Persistence
	key    string
	now    func() time.Time

	records  []models.PaymentRecord
	paid     reconcile.PaidSet
	version  uint64
	ids      idGenerator
	degraded bool
	corrupt  bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the persistence key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source used for ids, timestamps and the
// "not in the future" check.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store backed by medium. Call Load to read saved data.
func New(medium persistence.Persistence, opts ...Option) *Store {
	s := &Store{
		medium:  medium,
		key:     DefaultKey,
		now:     time.Now,
		records: []models.PaymentRecord{},
		paid:    reconcile.PaidPlayerIDs(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is an immutable view of the ledger at one version.
type Snapshot struct {
	// Records are most-recent-first. Callers must not modify the slice.
	Records []models.PaymentRecord

	// Paid is the set of players with a Completed record, built once per change.
	Paid reconcile.PaidSet

	// Version increases with every change to Records.
	Version uint64
}

// Snapshot returns the current ledger state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Records: s.records, Paid: s.paid, Version: s.version}
}

// Records returns the ledger, most-recent-first.
func (s *Store) Records() []models.PaymentRecord {
	return s.Snapshot().Records
}

// Get returns the record with id.
func (s *Store) Get(id string) (models.PaymentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.PaymentRecord{}, false
}

// Degraded reports whether the latest in-memory state is not yet saved durably.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// Load reads the ledger from the medium and returns it.
//
// Missing data yields an empty ledger. Unparseable data yields an empty ledger
// and an error wrapping ErrCorruptState; the store stays usable. If the current
// session holds changes that never reached the medium, those stay authoritative:
// Load retries the write and returns the in-memory ledger.
func (s *Store) Load(ctx context.Context) ([]models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded {
		slog.Warn("Payment history has unsaved changes, keeping in-memory ledger", "records", len(s.records))
		if err := s.persistLocked(ctx); err != nil {
			slog.Warn("Payment history still not saved", "error", err)
		}
		return s.records, nil
	}

	data, err := s.medium.Read(ctx, s.key)
	if err != nil {
		return s.records, fmt.Errorf("failed to read payment history: %w", err)
	}

	records, err := Decode(data)
	if err != nil {
		metrics.CorruptLoads.Inc()
		slog.Error("Payment history is corrupt, starting with an empty ledger",
			"key", s.key,
			"bytes", len(data),
			"error", err,
		)
		s.backupCorrupt(ctx, data)
		s.corrupt = true
		s.replaceLocked([]models.PaymentRecord{})
		return s.records, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	s.corrupt = false
	s.replaceLocked(records)
	slog.Info("Payment history loaded", "key", s.key, "records", len(records))
	return s.records, nil
}

// Add validates rec and puts it at the front of the ledger.
//
// ID, Timestamp and Status are filled in when empty (Status defaults to
// Completed). Validation failures return a *ValidationError and change
// nothing. If the record was added but could not be saved, the stored record
// is returned together with an error wrapping ErrPersistenceDegraded.
func (s *Store) Add(ctx context.Context, rec models.PaymentRecord) (models.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if rec.Status == "" {
		rec.Status = models.StatusCompleted
	}
	if err := s.validateLocked(rec, now); err != nil {
		metrics.LedgerMutations.WithLabelValues("add", "invalid").Inc()
		return models.PaymentRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = s.ids.next(now)
	} else {
		s.ids.observe(rec.ID)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now.UTC()
	}

	next := make([]models.PaymentRecord, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	s.replaceLocked(next)

	slog.Info("Payment record added",
		"payment_id", rec.ID,
		"player_id", rec.PlayerID,
		"amount", rec.Amount.StringFixed(2),
		"status", rec.Status,
	)

	if err := s.persistLocked(ctx); err != nil {
		metrics.LedgerMutations.WithLabelValues("add", "degraded").Inc()
		return rec, err
	}
	metrics.LedgerMutations.WithLabelValues("add", "ok").Inc()
	return rec, nil
}

// Remove deletes the record with id. It returns an error wrapping ErrNotFound
// when no such record exists, and ErrPersistenceDegraded when the removal
// could not be saved.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		metrics.LedgerMutations.WithLabelValues("remove", "not_found").Inc()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := make([]models.PaymentRecord, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)
	s.replaceLocked(next)

	slog.Info("Payment record removed", "payment_id", id)

	if err := s.persistLocked(ctx); err != nil {
		metrics.LedgerMutations.WithLabelValues("remove", "degraded").Inc()
		return err
	}
	metrics.LedgerMutations.WithLabelValues("remove", "ok").Inc()
	return nil
}

// Reset discards the ledger and saves an empty one. It is the recovery path
// after a corrupt load.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked([]models.PaymentRecord{})
	slog.Warn("Payment history reset", "key", s.key)
	return s.persistLocked(ctx)
}

func (s *Store) validateLocked(rec models.PaymentRecord, now time.Time) error {
	if strings.TrimSpace(rec.PlayerID) == "" {
		return &ValidationError{Field: "playerId", Message: "please select a player"}
	}
	if !rec.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Message: "please enter a valid amount"}
	}
	if rec.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "please select a payment date"}
	}
	if rec.Date.After(models.DateOf(now)) {
		return &ValidationError{Field: "date", Message: "payment date cannot be in the future"}
	}
	if !rec.Method.Valid() {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unknown payment method %q", rec.Method)}
	}
	if !rec.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown payment status %q", rec.Status)}
	}
	if rec.ID != "" {
		for _, r := range s.records {
			if r.ID == rec.ID {
				return &ValidationError{Field: "id", Message: fmt.Sprintf("payment %s already exists", rec.ID)}
			}
		}
	}
	return nil
}

// replaceLocked installs records and rebuilds the derived paid set.
func (s *Store) replaceLocked(records []models.PaymentRecord) {
	s.records = records
	s.paid = reconcile.PaidPlayerIDs(records)
	s.version++
	for _, r := range records {
		s.ids.observe(r.ID)
	}
	metrics.LedgerRecords.Set(float64(len(records)))
}

// persistLocked writes the full ledger. On capacity failure it frees the
// corrupt-data backup, if any, and retries once.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.records)
	if err != nil {
		return s.degrade(fmt.Errorf("failed to encode payment history: %w", err))
	}

	err = s.medium.Write(ctx, s.key, data)
	if persistence.IsCapacityExceeded(err) {
		if d, ok := s.medium.(persistence.Deleter); ok {
			metrics.PersistenceWrites.WithLabelValues("retried").Inc()
			slog.Warn("Storage full, dropping corrupt backup and retrying", "key", s.key, "bytes", len(data))
			if derr := d.Delete(ctx, s.backupKey()); derr != nil {
				slog.Warn("Failed to drop corrupt backup", "error", derr)
			}
			err = s.medium.Write(ctx, s.key, data)
		}
	}
	if err != nil {
		return s.degrade(err)
	}

	metrics.PersistenceWrites.WithLabelValues("ok").Inc()
	if s.degraded {
		slog.Info("Payment history saved after earlier failure", "records", len(s.records))
	}
	s.degraded = false
	s.corrupt = false
	metrics.SetDegraded(false)
	return nil
}

func (s *Store) degrade(cause error) error {
	result := "error"
	if persistence.IsCapacityExceeded(cause) {
		result = "capacity"
	}
	metrics.PersistenceWrites.WithLabelValues(result).Inc()
	metrics.SetDegraded(true)
	s.degraded = true
	slog.Error("Failed to save payment history, keeping changes in memory",
		"key", s.key,
		"records", len(s.records),
		"error", cause,
	)
	return fmt.Errorf("%w: %w", ErrPersistenceDegraded, cause)
}

func (s *Store) backupKey() string {
	return s.key + ".corrupt"
}

// backupCorrupt keeps the unparseable payload so it can be inspected later.
// Failure only loses the copy; the ledger itself is unaffected.
func (s *Store) backupCorrupt(ctx context.Context, data []byte) {
	if err := s.medium.Write(ctx, s.backupKey(), data); err != nil {
		slog.Warn("Failed to back up corrupt payment history", "key", s.backupKey(), "error", err)
	}
}

// Corrupt reports whether the last Load found unparseable data that has not
// been overwritten since.
func (s *Store) Corrupt() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corrupt
}
