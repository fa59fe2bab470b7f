package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/internal/logger"
	"github.com/fsdevblog/groph-points/internal/repository/memrepo"
	"github.com/fsdevblog/groph-points/pkg/keylock"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

// PointServiceConcurrencyTestSuite гоняет сервис на in-memory хранилище под реальными блокировками.
type PointServiceConcurrencyTestSuite struct {
	suite.Suite
	newLocker func() keylock.Locker[int64]
	uow       *memrepo.UnitOfWork
	service   *PointService
}

func TestPointServiceConcurrency_KeyedMutex(t *testing.T) {
	suite.Run(t, &PointServiceConcurrencyTestSuite{
		newLocker: func() keylock.Locker[int64] { return keylock.NewKeyedMutex[int64]() },
	})
}

func TestPointServiceConcurrency_Striped(t *testing.T) {
	suite.Run(t, &PointServiceConcurrencyTestSuite{
		newLocker: func() keylock.Locker[int64] { return keylock.NewStriped[int64](16) },
	})
}

func (s *PointServiceConcurrencyTestSuite) SetupTest() {
	u, err := memrepo.NewUnitOfWork(memrepo.NewStore())
	s.Require().NoError(err)
	s.uow = u

	s.service, err = NewPointService(u, s.newLocker(), logger.New(io.Discard, false))
	s.Require().NoError(err)
}

func (s *PointServiceConcurrencyTestSuite) runParallel(n int, fn func(i int) error) {
	var g errgroup.Group
	for i := range n {
		g.Go(func() error { return fn(i) })
	}
	s.Require().NoError(g.Wait())
}

func (s *PointServiceConcurrencyTestSuite) TestConcurrentCharges() {
	userID := int64(gofakeit.Number(1, 1_000_000))

	s.runParallel(100, func(int) error {
		_, err := s.service.Charge(s.T().Context(), userID, 100)
		return err
	})

	balance, err := s.service.Get(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Equal(int64(10_000), balance.Balance)

	history, err := s.service.History(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Len(history, 100)
	for _, record := range history {
		s.Equal(domain.TransactionCharge, record.Type)
		s.Equal(int64(100), record.Amount)
	}
}

func (s *PointServiceConcurrencyTestSuite) TestConcurrentUses() {
	var userID int64 = 42
	_, err := s.service.Charge(s.T().Context(), userID, 10_000)
	s.Require().NoError(err)

	s.runParallel(100, func(int) error {
		_, useErr := s.service.Use(s.T().Context(), userID, 100)
		return useErr
	})

	balance, err := s.service.Get(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Zero(balance.Balance)

	history, err := s.service.History(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Len(history, 101)

	_, err = s.service.Use(s.T().Context(), userID, 1)
	s.Require().ErrorIs(err, domain.ErrInsufficientBalance)
}

// TestMixedOperations итоговый баланс должен совпасть с суммой успешных операций, а каждой
// успешной операции должна соответствовать ровно одна запись истории.
func (s *PointServiceConcurrencyTestSuite) TestMixedOperations() {
	var userID int64 = 7
	var (
		expected  atomic.Int64
		succeeded atomic.Int64
	)

	s.runParallel(200, func(i int) error {
		amount := int64(gofakeit.Number(1, 500))
		var err error
		if i%2 == 0 {
			_, err = s.service.Charge(s.T().Context(), userID, amount)
			if err == nil {
				expected.Add(amount)
			}
		} else {
			_, err = s.service.Use(s.T().Context(), userID, amount)
			if err == nil {
				expected.Sub(amount)
			}
		}
		if err == nil {
			succeeded.Inc()
			return nil
		}
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil
		}
		return err
	})

	balance, err := s.service.Get(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Equal(expected.Load(), balance.Balance)
	s.GreaterOrEqual(balance.Balance, int64(0))

	history, err := s.service.History(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Len(history, int(succeeded.Load()))

	var replay int64
	for i, record := range history {
		if i > 0 {
			s.Greater(record.ID, history[i-1].ID)
		}
		switch record.Type {
		case domain.TransactionCharge:
			replay += record.Amount
		case domain.TransactionUse:
			replay -= record.Amount
		}
		s.GreaterOrEqual(replay, int64(0))
	}
	s.Equal(balance.Balance, replay)
}

func (s *PointServiceConcurrencyTestSuite) TestManyUsers() {
	const (
		users   = 20
		charges = 50
	)

	s.runParallel(users*charges, func(i int) error {
		_, err := s.service.Charge(s.T().Context(), int64(i%users), 10)
		return err
	})

	for userID := range int64(users) {
		balance, err := s.service.Get(s.T().Context(), userID)
		s.Require().NoError(err)
		s.Equal(int64(charges*10), balance.Balance)

		history, err := s.service.History(s.T().Context(), userID)
		s.Require().NoError(err)
		s.Len(history, charges)
	}
}

func (s *PointServiceConcurrencyTestSuite) TestUnknownUser() {
	balance, err := s.service.Get(s.T().Context(), 404)
	s.Require().NoError(err)
	s.Equal(int64(404), balance.UserID)
	s.Zero(balance.Balance)

	history, err := s.service.History(s.T().Context(), 404)
	s.Require().NoError(err)
	s.NotNil(history)
	s.Empty(history)
}

func (s *PointServiceConcurrencyTestSuite) TestHistoryFailureRollsBackBalance() {
	var userID int64 = 9
	_, err := s.service.Charge(s.T().Context(), userID, 300)
	s.Require().NoError(err)

	broken, err := NewPointService(failingHistoryUOW{s.uow}, s.newLocker(), logger.New(io.Discard, false))
	s.Require().NoError(err)

	_, err = broken.Charge(s.T().Context(), userID, 200)
	s.Require().ErrorIs(err, errHistoryUnavailable)
	_, err = broken.Use(s.T().Context(), userID, 100)
	s.Require().ErrorIs(err, errHistoryUnavailable)

	balance, err := s.service.Get(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Equal(int64(300), balance.Balance)

	history, err := s.service.History(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Len(history, 1)
}

func (s *PointServiceConcurrencyTestSuite) TestStrictReadsSeeCommittedState() {
	var userID int64 = 11
	s.service.SetStrictReads(true)

	s.runParallel(50, func(i int) error {
		if i%2 == 0 {
			_, err := s.service.Charge(s.T().Context(), userID, 20)
			return err
		}
		balance, err := s.service.Get(s.T().Context(), userID)
		if err != nil {
			return err
		}
		// баланс всегда кратен одному начислению.
		s.Zero(balance.Balance % 20)
		return nil
	})

	balance, err := s.service.Get(s.T().Context(), userID)
	s.Require().NoError(err)
	s.Equal(int64(25*20), balance.Balance)
}

var errHistoryUnavailable = errors.New("history unavailable")

// failingHistoryUOW подменяет репозиторий истории внутри транзакции на всегда падающий.
type failingHistoryUOW struct {
	*memrepo.UnitOfWork
}

func (f failingHistoryUOW) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	return f.UnitOfWork.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		return fn(c, failingHistoryTX{tx})
	})
}

type failingHistoryTX struct {
	uow.TX
}

func (t failingHistoryTX) Get(name uow.RepositoryName) (uow.Repository, error) {
	if name == uow.RepositoryName(domain.HistoryRepoName) {
		return failingHistoryRepo{}, nil
	}
	return t.TX.Get(name) //nolint:wrapcheck
}

type failingHistoryRepo struct {
	domain.HistoryRepository
}

func (failingHistoryRepo) Append(
	context.Context,
	int64,
	int64,
	domain.TransactionType,
	time.Time,
) (*domain.TransactionRecord, error) {
	return nil, errHistoryUnavailable
}
