package memrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-points/internal/domain"
)

type HistoryRepository struct {
	store   *Store
	changes *changeSet
}

func NewHistoryRepository(store *Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

func (r *HistoryRepository) Append(
	_ context.Context,
	userID int64,
	amount int64,
	txType domain.TransactionType,
	at time.Time,
) (*domain.TransactionRecord, error) {
	if !txType.IsValid() {
		return nil, fmt.Errorf("[repository/appending history] %w: transaction type %q", domain.ErrUnknown, txType)
	}

	rec := domain.TransactionRecord{
		ID:        r.store.nextID(),
		UserID:    userID,
		Amount:    amount,
		Type:      txType,
		CreatedAt: at,
	}

	if r.changes == nil {
		r.store.apply(&changeSet{records: []domain.TransactionRecord{rec}})
	} else {
		r.changes.records = append(r.changes.records, rec)
	}
	return &rec, nil
}

// GetByUserID внутри транзакции к зафиксированной истории добавляются еще не зафиксированные записи.
func (r *HistoryRepository) GetByUserID(_ context.Context, userID int64) ([]domain.TransactionRecord, error) {
	records := r.store.history(userID)
	if r.changes != nil {
		for _, rec := range r.changes.records {
			if rec.UserID == userID {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}
