package memrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

type MemoryUOWTestSuite struct {
	suite.Suite
	store       *Store
	unitOfWork  *UnitOfWork
	balanceRepo domain.BalanceRepository
	historyRepo domain.HistoryRepository
}

func TestMemoryUOWSuite(t *testing.T) {
	suite.Run(t, new(MemoryUOWTestSuite))
}

func (s *MemoryUOWTestSuite) SetupTest() {
	s.store = NewStore()

	var err error
	s.unitOfWork, err = NewUnitOfWork(s.store)
	s.Require().NoError(err)

	s.balanceRepo, err = uow.GetRepositoryAs[domain.BalanceRepository](
		s.unitOfWork,
		uow.RepositoryName(domain.BalanceRepoName),
	)
	s.Require().NoError(err)

	s.historyRepo, err = uow.GetRepositoryAs[domain.HistoryRepository](
		s.unitOfWork,
		uow.RepositoryName(domain.HistoryRepoName),
	)
	s.Require().NoError(err)
}

func (s *MemoryUOWTestSuite) TestUnknownUser() {
	balance, err := s.balanceRepo.GetByUserID(s.T().Context(), 42)
	s.Require().NoError(err)
	s.Equal(int64(42), balance.UserID)
	s.Equal(int64(0), balance.Balance)
	s.True(balance.UpdatedAt.IsZero())

	history, err := s.historyRepo.GetByUserID(s.T().Context(), 42)
	s.Require().NoError(err)
	s.NotNil(history)
	s.Empty(history)
}

func (s *MemoryUOWTestSuite) TestCommit() {
	now := time.Now()

	err := s.unitOfWork.Do(s.T().Context(), func(ctx context.Context, tx uow.TX) error {
		balanceRepo, err := uow.GetAs[domain.BalanceRepository](tx, uow.RepositoryName(domain.BalanceRepoName))
		s.Require().NoError(err)
		historyRepo, err := uow.GetAs[domain.HistoryRepository](tx, uow.RepositoryName(domain.HistoryRepoName))
		s.Require().NoError(err)

		_, err = balanceRepo.Save(ctx, 1, 300, now)
		s.Require().NoError(err)
		_, err = historyRepo.Append(ctx, 1, 300, domain.TransactionCharge, now)
		s.Require().NoError(err)

		// внутри транзакции свои записи видны.
		inTx, err := balanceRepo.GetByUserID(ctx, 1)
		s.Require().NoError(err)
		s.Equal(int64(300), inTx.Balance)

		// снаружи - еще нет.
		outside, err := s.balanceRepo.GetByUserID(ctx, 1)
		s.Require().NoError(err)
		s.Equal(int64(0), outside.Balance)
		outsideHistory, err := s.historyRepo.GetByUserID(ctx, 1)
		s.Require().NoError(err)
		s.Empty(outsideHistory)
		return nil
	})
	s.Require().NoError(err)

	balance, err := s.balanceRepo.GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(int64(300), balance.Balance)
	s.True(now.Equal(balance.UpdatedAt))

	history, err := s.historyRepo.GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(int64(300), history[0].Amount)
	s.Equal(domain.TransactionCharge, history[0].Type)
}

func (s *MemoryUOWTestSuite) TestRollbackOnError() {
	wantErr := errors.New("history unavailable")

	err := s.unitOfWork.Do(s.T().Context(), func(ctx context.Context, tx uow.TX) error {
		balanceRepo, err := uow.GetAs[domain.BalanceRepository](tx, uow.RepositoryName(domain.BalanceRepoName))
		s.Require().NoError(err)
		_, err = balanceRepo.Save(ctx, 1, 500, time.Now())
		s.Require().NoError(err)
		return wantErr
	})
	s.Require().ErrorIs(err, wantErr)

	balance, err := s.balanceRepo.GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(int64(0), balance.Balance)
}

func (s *MemoryUOWTestSuite) TestRollbackOnPanic() {
	s.Panics(func() {
		_ = s.unitOfWork.Do(s.T().Context(), func(ctx context.Context, tx uow.TX) error {
			historyRepo, err := uow.GetAs[domain.HistoryRepository](tx, uow.RepositoryName(domain.HistoryRepoName))
			s.Require().NoError(err)
			_, err = historyRepo.Append(ctx, 1, 10, domain.TransactionUse, time.Now())
			s.Require().NoError(err)
			panic("boom")
		})
	})

	history, err := s.historyRepo.GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Empty(history)
}

func (s *MemoryUOWTestSuite) TestHistoryOrderAndIDs() {
	ctx := s.T().Context()
	for i := range 5 {
		_, err := s.historyRepo.Append(ctx, 7, int64(i+1), domain.TransactionCharge, time.Now())
		s.Require().NoError(err)
		_, err = s.historyRepo.Append(ctx, 8, 1, domain.TransactionUse, time.Now())
		s.Require().NoError(err)
	}

	history, err := s.historyRepo.GetByUserID(ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(history, 5)
	for i := 1; i < len(history); i++ {
		s.Greater(history[i].ID, history[i-1].ID)
		s.Equal(int64(i+1), history[i].Amount)
	}

	// возвращается копия.
	history[0].Amount = 1000
	again, err := s.historyRepo.GetByUserID(ctx, 7)
	s.Require().NoError(err)
	s.Equal(int64(1), again[0].Amount)
}

func (s *MemoryUOWTestSuite) TestAppendInvalidType() {
	_, err := s.historyRepo.Append(s.T().Context(), 1, 10, domain.TransactionType("GIFT"), time.Now())
	s.Require().ErrorIs(err, domain.ErrUnknown)
}
