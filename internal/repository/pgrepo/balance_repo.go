package pgrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

type BalanceRepository struct {
	conn uow.DBTX
}

func NewBalanceRepository(conn uow.DBTX) *BalanceRepository {
	return &BalanceRepository{conn: conn}
}

const balanceGetByUserID = `
SELECT user_id, balance, updated_at
  FROM user_points
 WHERE user_id = $1`

func (r *BalanceRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserBalance, error) {
	var b domain.UserBalance
	err := r.conn.QueryRow(ctx, balanceGetByUserID, userID).Scan(&b.UserID, &b.Balance, &b.UpdatedAt)
	if err != nil {
		// строки еще нет - пользователь с нулевым балансом.
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.UserBalance{UserID: userID}, nil
		}
		return nil, convertErr(err, "getting balance by userID %d", userID)
	}
	return &b, nil
}

const balanceSave = `
INSERT INTO user_points (user_id, balance, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
   SET balance    = EXCLUDED.balance,
       updated_at = EXCLUDED.updated_at
RETURNING user_id, balance, updated_at`

func (r *BalanceRepository) Save(
	ctx context.Context,
	userID int64,
	balance int64,
	at time.Time,
) (*domain.UserBalance, error) {
	var b domain.UserBalance
	err := r.conn.QueryRow(ctx, balanceSave, userID, balance, at).Scan(&b.UserID, &b.Balance, &b.UpdatedAt)
	if err != nil {
		return nil, convertErr(err, "saving balance for userID %d", userID)
	}
	return &b, nil
}
