package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/internal/metrics"
	"github.com/fsdevblog/groph-points/pkg/keylock"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

const (
	DefaultMaxChargePerOp int64 = 100_000
	DefaultMaxBalance     int64 = 10_000_000
	DefaultLockTimeout          = 5 * time.Second
)

const (
	operationCharge  = "charge"
	operationUse     = "use"
	operationGet     = "get"
	operationHistory = "history"
)

// Limits ограничения операций. Лимит одного начисления и максимальный баланс независимы.
type Limits struct {
	MaxChargePerOp int64
	MaxBalance     int64
}

// PointService единственный, кто изменяет балансы и историю. Изменения одного пользователя выполняются
// строго по одному под его слотом в locker, изменения разных пользователей друг друга не ждут.
type PointService struct {
	uow         uow.UOW
	balanceRepo domain.BalanceRepository
	historyRepo domain.HistoryRepository
	locker      keylock.Locker[int64]
	limits      Limits
	lockTimeout time.Duration
	strictReads bool
	now         func() time.Time
	metrics     *metrics.Metrics
	l           *logrus.Entry
}

func NewPointService(u uow.UOW, locker keylock.Locker[int64], l *logrus.Logger) (*PointService, error) {
	balanceRepo, err := uow.GetRepositoryAs[domain.BalanceRepository](u, uow.RepositoryName(domain.BalanceRepoName))
	if err != nil {
		return nil, err
	}
	historyRepo, err := uow.GetRepositoryAs[domain.HistoryRepository](u, uow.RepositoryName(domain.HistoryRepoName))
	if err != nil {
		return nil, err
	}

	return &PointService{
		uow:         u,
		balanceRepo: balanceRepo,
		historyRepo: historyRepo,
		locker:      locker,
		limits: Limits{
			MaxChargePerOp: DefaultMaxChargePerOp,
			MaxBalance:     DefaultMaxBalance,
		},
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "points",
		}),
	}, nil
}

// SetLimits устанавливает лимиты операций.
func (p *PointService) SetLimits(limits Limits) *PointService {
	p.limits = limits
	return p
}

// SetLockTimeout устанавливает максимальное время ожидания слота пользователя. 0 - ждать без ограничения
// (пока жив контекст вызова).
func (p *PointService) SetLockTimeout(timeout time.Duration) *PointService {
	p.lockTimeout = timeout
	return p
}

// SetStrictReads включает чтение баланса и истории под слотом пользователя. По умолчанию чтение
// идет без блокировки и возвращает последнее зафиксированное состояние.
func (p *PointService) SetStrictReads(strict bool) *PointService {
	p.strictReads = strict
	return p
}

func (p *PointService) SetClock(now func() time.Time) *PointService {
	p.now = now
	return p
}

func (p *PointService) SetMetrics(m *metrics.Metrics) *PointService {
	p.metrics = m
	return p
}

// Charge начисляет amount баллов пользователю userID.
//
// Ошибки валидации (см. domain.PointError):
//   - domain.ErrInvalidAmount: amount <= 0;
//   - domain.ErrChargeLimitExceeded: amount больше лимита одного начисления;
//   - domain.ErrBalanceCapExceeded: баланс после начисления превысит максимальный.
//
// Первые две проверяются до обращения к хранилищу.
func (p *PointService) Charge(ctx context.Context, userID int64, amount int64) (_ *domain.UserBalance, err error) {
	defer func() { p.observe(operationCharge, userID, amount, err) }()

	if amount <= 0 {
		return nil, domain.NewPointError(domain.ErrInvalidAmount, userID, amount, 0)
	}
	if amount > p.limits.MaxChargePerOp {
		return nil, domain.NewPointError(domain.ErrChargeLimitExceeded, userID, amount, 0)
	}

	return p.mutate(ctx, userID, amount, domain.TransactionCharge, func(current int64) (int64, error) {
		// сравнение в такой форме не переполняется.
		if amount > p.limits.MaxBalance-current {
			return 0, domain.NewPointError(domain.ErrBalanceCapExceeded, userID, amount, current)
		}
		return current + amount, nil
	})
}

// Use списывает amount баллов у пользователя userID. Возвращает domain.ErrInvalidAmount для amount <= 0
// и domain.ErrInsufficientBalance, если баллов не хватает.
func (p *PointService) Use(ctx context.Context, userID int64, amount int64) (_ *domain.UserBalance, err error) {
	defer func() { p.observe(operationUse, userID, amount, err) }()

	if amount <= 0 {
		return nil, domain.NewPointError(domain.ErrInvalidAmount, userID, amount, 0)
	}

	return p.mutate(ctx, userID, amount, domain.TransactionUse, func(current int64) (int64, error) {
		if current < amount {
			return 0, domain.NewPointError(domain.ErrInsufficientBalance, userID, amount, current)
		}
		return current - amount, nil
	})
}

// Get возвращает текущий баланс. Для неизвестного пользователя - нулевой баланс.
func (p *PointService) Get(ctx context.Context, userID int64) (_ *domain.UserBalance, err error) {
	defer func() { p.observe(operationGet, userID, 0, err) }()

	var balance *domain.UserBalance
	err = p.read(ctx, userID, func() error {
		var getErr error
		balance, getErr = p.balanceRepo.GetByUserID(ctx, userID)
		return getErr
	})
	if err != nil {
		return nil, fmt.Errorf("get points: %w", err)
	}
	return balance, nil
}

// History возвращает историю операций пользователя от старых к новым.
func (p *PointService) History(ctx context.Context, userID int64) (_ []domain.TransactionRecord, err error) {
	defer func() { p.observe(operationHistory, userID, 0, err) }()

	var records []domain.TransactionRecord
	err = p.read(ctx, userID, func() error {
		var getErr error
		records, getErr = p.historyRepo.GetByUserID(ctx, userID)
		return getErr
	})
	if err != nil {
		return nil, fmt.Errorf("get points history: %w", err)
	}
	return records, nil
}

// mutate выполняет read-modify-write баланса и добавление записи истории одной единицей работы
// под слотом пользователя. apply получает текущий баланс и возвращает новый или ошибку валидации,
// в этом случае ничего не записывается.
func (p *PointService) mutate(
	ctx context.Context,
	userID int64,
	amount int64,
	txType domain.TransactionType,
	apply func(current int64) (int64, error),
) (*domain.UserBalance, error) {
	var result *domain.UserBalance

	err := p.withLock(ctx, userID, func() error {
		return p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
			balanceRepo, err := uow.GetAs[domain.BalanceRepository](tx, uow.RepositoryName(domain.BalanceRepoName))
			if err != nil {
				return err //nolint:wrapcheck
			}
			historyRepo, err := uow.GetAs[domain.HistoryRepository](tx, uow.RepositoryName(domain.HistoryRepoName))
			if err != nil {
				return err //nolint:wrapcheck
			}

			current, err := balanceRepo.GetByUserID(c, userID)
			if err != nil {
				return err //nolint:wrapcheck
			}

			next, err := apply(current.Balance)
			if err != nil {
				return err
			}

			now := p.now()
			saved, err := balanceRepo.Save(c, userID, next, now)
			if err != nil {
				return err //nolint:wrapcheck
			}
			// ошибка здесь откатывает и сохранение баланса.
			if _, err = historyRepo.Append(c, userID, amount, txType, now); err != nil {
				return err //nolint:wrapcheck
			}

			result = saved
			return nil
		})
	})
	if err != nil {
		var pointErr *domain.PointError
		if errors.As(err, &pointErr) || errors.Is(err, domain.ErrLockTimeout) {
			return nil, err
		}
		return nil, fmt.Errorf("%s points: %w", txType, err)
	}
	return result, nil
}

func (p *PointService) read(ctx context.Context, userID int64, fn func() error) error {
	if !p.strictReads {
		return fn()
	}
	return p.withLock(ctx, userID, fn)
}

// withLock ограничивает lockTimeout только ожидание слота, сама fn работает с исходным ctx.
func (p *PointService) withLock(ctx context.Context, userID int64, fn func() error) error {
	lockCtx := ctx
	if p.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, p.lockTimeout)
		defer cancel()
	}

	waitStart := time.Now()
	return p.locker.WithLock(lockCtx, userID, func() error { //nolint:wrapcheck
		p.metrics.ObserveLockWait(time.Since(waitStart))
		return fn()
	})
}

func (p *PointService) observe(operation string, userID, amount int64, err error) {
	p.metrics.ObserveOperation(operation, err)
	if err == nil {
		return
	}

	l := p.l.WithFields(logrus.Fields{
		"operation": operation,
		"userID":    userID,
		"amount":    amount,
	}).WithError(err)

	var pointErr *domain.PointError
	switch {
	case errors.As(err, &pointErr):
		l.Debug("operation rejected")
	case errors.Is(err, domain.ErrLockTimeout):
		l.Warn("user is busy")
	default:
		l.Error("operation failed")
	}
}
