// Package memrepo in-memory хранилище балансов и истории баллов для однопроцессного режима.
package memrepo

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/fsdevblog/groph-points/internal/domain"
)

// Store общее состояние: балансы и истории всех пользователей. Наружу отдаются только копии.
type Store struct {
	mu        sync.RWMutex
	balances  map[int64]domain.UserBalance
	histories map[int64][]domain.TransactionRecord
	lastID    atomic.Int64
}

func NewStore() *Store {
	return &Store{
		balances:  make(map[int64]domain.UserBalance),
		histories: make(map[int64][]domain.TransactionRecord),
	}
}

// changeSet изменения одной единицы работы. nil означает запись сразу в Store.
type changeSet struct {
	balances map[int64]domain.UserBalance
	records  []domain.TransactionRecord
}

func newChangeSet() *changeSet {
	return &changeSet{balances: make(map[int64]domain.UserBalance)}
}

func (s *Store) balance(userID int64) domain.UserBalance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b, ok := s.balances[userID]; ok {
		return b
	}
	return domain.UserBalance{UserID: userID}
}

func (s *Store) history(userID int64) []domain.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.histories[userID]
	out := make([]domain.TransactionRecord, len(src))
	copy(out, src)
	return out
}

func (s *Store) nextID() int64 {
	return s.lastID.Inc()
}

// apply применяет изменения одной критической секцией: читатели видят либо все изменения, либо ни одного.
func (s *Store) apply(cs *changeSet) {
	if len(cs.balances) == 0 && len(cs.records) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, b := range cs.balances {
		s.balances[userID] = b
	}
	for _, r := range cs.records {
		s.histories[r.UserID] = append(s.histories[r.UserID], r)
	}
}
