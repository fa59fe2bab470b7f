package memrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-points/internal/domain"
)

type BalanceRepository struct {
	store   *Store
	changes *changeSet
}

func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{store: store}
}

func (r *BalanceRepository) GetByUserID(_ context.Context, userID int64) (*domain.UserBalance, error) {
	if r.changes != nil {
		if b, ok := r.changes.balances[userID]; ok {
			return &b, nil
		}
	}
	b := r.store.balance(userID)
	return &b, nil
}

func (r *BalanceRepository) Save(
	_ context.Context,
	userID int64,
	balance int64,
	at time.Time,
) (*domain.UserBalance, error) {
	b := domain.UserBalance{
		UserID:    userID,
		Balance:   balance,
		UpdatedAt: at,
	}

	if r.changes == nil {
		cs := newChangeSet()
		cs.balances[userID] = b
		r.store.apply(cs)
	} else {
		r.changes.balances[userID] = b
	}
	return &b, nil
}
