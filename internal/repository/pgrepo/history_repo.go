package pgrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

type HistoryRepository struct {
	conn uow.DBTX
}

func NewHistoryRepository(conn uow.DBTX) *HistoryRepository {
	return &HistoryRepository{conn: conn}
}

const historyAppend = `
INSERT INTO point_histories (user_id, amount, type, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, amount, type, created_at`

func (r *HistoryRepository) Append(
	ctx context.Context,
	userID int64,
	amount int64,
	txType domain.TransactionType,
	at time.Time,
) (*domain.TransactionRecord, error) {
	var rec domain.TransactionRecord
	err := r.conn.QueryRow(ctx, historyAppend, userID, amount, string(txType), at).
		Scan(&rec.ID, &rec.UserID, &rec.Amount, &rec.Type, &rec.CreatedAt)
	if err != nil {
		return nil, convertErr(err, "appending %s history for userID %d", txType, userID)
	}
	return &rec, nil
}

// id назначается последовательностью, поэтому порядок по id совпадает с порядком добавления.
const historyGetByUserID = `
SELECT id, user_id, amount, type, created_at
  FROM point_histories
 WHERE user_id = $1
 ORDER BY id`

func (r *HistoryRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.TransactionRecord, error) {
	rows, err := r.conn.Query(ctx, historyGetByUserID, userID)
	if err != nil {
		return nil, convertErr(err, "getting history by userID %d", userID)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TransactionRecord, error) {
		var rec domain.TransactionRecord
		scanErr := row.Scan(&rec.ID, &rec.UserID, &rec.Amount, &rec.Type, &rec.CreatedAt)
		return rec, scanErr
	})
	if err != nil {
		return nil, convertErr(err, "scanning history of userID %d", userID)
	}
	if records == nil {
		records = []domain.TransactionRecord{}
	}
	return records, nil
}
