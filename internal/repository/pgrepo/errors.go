package pgrepo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	checkViolationCode = "23514"
)

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Добавляет форматированное сообщение контекста, тип бизнес-ошибки и оригинальное сообщение.
// Особенности:
//   - Для ошибок отсутствия данных (pgx.ErrNoRows) возвращает ErrRecordNotFound из domain.
//   - Нарушение CHECK ограничения (баланс < 0, сумма <= 0) возвращается как ErrInvalidAmount.
//   - Все остальные ошибки возвращаются как ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	errType := domain.ErrUnknown

	if errors.As(err, &pgErr) && isCheckViolationErr(pgErr) {
		errType = domain.ErrInvalidAmount
	}

	return fmt.Errorf("[repository/%s] %w: %s", msg, errType, err.Error())
}

func isCheckViolationErr(err *pgconn.PgError) bool {
	return err.Code == checkViolationCode
}
