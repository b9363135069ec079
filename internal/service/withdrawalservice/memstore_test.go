package withdrawalservice

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/investadmin/internal/domain"
	"github.com/GlebRadaev/investadmin/internal/pg"
)

// memStore backs Repo, Ledger and AuditRepo with maps. memTx serializes transactions and
// restores the snapshot taken at Begin when fn fails, mimicking a rollback.
type memStore struct {
	mu       sync.Mutex
	rows     map[int64]domain.Withdrawal
	balances map[int64]decimal.Decimal
	audits   []domain.AuditEntry
	debits   int
	credits  int
}

func newMemStore(rows ...domain.Withdrawal) *memStore {
	s := &memStore{
		rows:     make(map[int64]domain.Withdrawal),
		balances: make(map[int64]decimal.Decimal),
	}
	for _, r := range rows {
		s.rows[r.ID] = r
	}
	return s
}

func (s *memStore) Get(_ context.Context, id int64) (*domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("withdrawal %d: %w", id, domain.ErrNotFound)
	}
	return &w, nil
}

func (s *memStore) CompareAndSwapStatus(_ context.Context, expected domain.WithdrawalStatus, w *domain.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rows[w.ID]
	if !ok || current.Status != expected {
		return domain.ErrConcurrencyConflict
	}
	s.rows[w.ID] = *w
	return nil
}

func (s *memStore) Scan(_ context.Context, filter domain.WithdrawalFilter) ([]domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Withdrawal
	for _, w := range s.rows {
		if filter.Status == nil || *filter.Status == w.Status {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) Debit(_ context.Context, userID int64, amount decimal.Decimal, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.balances[userID].LessThan(amount) {
		return domain.ErrInsufficientFunds
	}
	s.balances[userID] = s.balances[userID].Sub(amount)
	s.debits++
	return nil
}

func (s *memStore) Credit(_ context.Context, userID int64, amount decimal.Decimal, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[userID] = s.balances[userID].Add(amount)
	s.credits++
	return nil
}

func (s *memStore) Record(_ context.Context, e *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits = append(s.audits, *e)
	return nil
}

type memSnapshot struct {
	rows     map[int64]domain.Withdrawal
	balances map[int64]decimal.Decimal
	audits   int
	debits   int
	credits  int
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		rows:     make(map[int64]domain.Withdrawal, len(s.rows)),
		balances: make(map[int64]decimal.Decimal, len(s.balances)),
		audits:   len(s.audits),
		debits:   s.debits,
		credits:  s.credits,
	}
	for k, v := range s.rows {
		snap.rows[k] = v
	}
	for k, v := range s.balances {
		snap.balances[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = snap.rows
	s.balances = snap.balances
	s.audits = s.audits[:snap.audits]
	s.debits = snap.debits
	s.credits = snap.credits
}

type memTx struct {
	mu    sync.Mutex
	store *memStore
}

func (t *memTx) Begin(ctx context.Context, fn pg.TransactionalFn) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.EventKind
}

func (n *recordingNotifier) Notify(_ context.Context, _ int64, kind domain.EventKind, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, kind)
}

func newMemService(store *memStore) (*Service, *recordingNotifier) {
	notifier := &recordingNotifier{}
	return New(store, store, store, &memTx{store: store}, notifier), notifier
}
