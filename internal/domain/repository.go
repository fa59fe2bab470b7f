package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mocks/mocks.go -package=mocks
type RepositoryName string

const (
	BalanceRepoName RepositoryName = "user_point"
	HistoryRepoName RepositoryName = "point_history"
)

// BalanceRepository хранилище текущих балансов. Сам по себе не синхронизирует конкурентные записи
// в одного и того же пользователя, это задача вызывающего кода.
type BalanceRepository interface {
	// GetByUserID возвращает нулевой баланс для неизвестного пользователя, ErrRecordNotFound не возвращается.
	GetByUserID(ctx context.Context, userID int64) (*UserBalance, error)
	// Save безусловно перезаписывает баланс и время обновления.
	Save(ctx context.Context, userID int64, balance int64, at time.Time) (*UserBalance, error)
}

// HistoryRepository журнал операций, только добавление.
type HistoryRepository interface {
	Append(
		ctx context.Context,
		userID int64,
		amount int64,
		txType TransactionType,
		at time.Time,
	) (*TransactionRecord, error)
	// GetByUserID возвращает записи в порядке добавления. Для пользователя без истории - пустой срез.
	GetByUserID(ctx context.Context, userID int64) ([]TransactionRecord, error)
}
