package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-points/internal/domain"
)

// PointServicer интерфейс исключительно для моков.
type PointServicer interface {
	Charge(ctx context.Context, userID int64, amount int64) (*domain.UserBalance, error)
	Use(ctx context.Context, userID int64, amount int64) (*domain.UserBalance, error)
	Get(ctx context.Context, userID int64) (*domain.UserBalance, error)
	History(ctx context.Context, userID int64) ([]domain.TransactionRecord, error)
}
