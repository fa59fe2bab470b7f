package domain

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-points/pkg/keylock"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknown        = errors.New("unknown error")

	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrChargeLimitExceeded = errors.New("charge amount exceeds per-operation limit")
	ErrBalanceCapExceeded  = errors.New("resulting balance exceeds maximum")
	ErrInsufficientBalance = errors.New("not enough balance")

	// ErrLockTimeout пользователь занят другой операцией дольше допустимого времени ожидания.
	ErrLockTimeout = keylock.ErrTimeout
)

// PointError ошибка валидации операции с баллами. Kind - одна из сентинел ошибок выше,
// errors.Is(err, ErrInsufficientBalance) работает через Unwrap.
type PointError struct {
	Kind    error
	UserID  int64
	Amount  int64
	Balance int64
}

func NewPointError(kind error, userID, amount, balance int64) error {
	return &PointError{Kind: kind, UserID: userID, Amount: amount, Balance: balance}
}

func (e *PointError) Error() string {
	return fmt.Sprintf(
		"%s: user %d, amount %d, balance %d",
		e.Kind.Error(),
		e.UserID,
		e.Amount,
		e.Balance,
	)
}

func (e *PointError) Unwrap() error {
	return e.Kind
}
