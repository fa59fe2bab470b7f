package domain

import "time"

// UserBalance текущий баланс баллов пользователя.
type UserBalance struct {
	UserID    int64
	Balance   int64
	UpdatedAt time.Time
}

// TransactionRecord запись истории начислений и списаний. После создания не изменяется.
type TransactionRecord struct {
	ID        int64
	UserID    int64
	Amount    int64
	Type      TransactionType
	CreatedAt time.Time
}
