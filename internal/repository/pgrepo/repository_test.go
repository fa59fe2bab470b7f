package pgrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

// Тесты с реальной базой запускаются только при заданной TEST_DATABASE_URI.
type PgRepositoryTestSuite struct {
	suite.Suite
	pool       *pgxpool.Pool
	unitOfWork *uow.PgUnitOfWork
}

func TestPgRepositorySuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URI") == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}
	suite.Run(t, new(PgRepositoryTestSuite))
}

func (s *PgRepositoryTestSuite) SetupSuite() {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	pool, err := Connect(s.T().Context(), "../../db/migrations", os.Getenv("TEST_DATABASE_URI"), l)
	s.Require().NoError(err)
	s.pool = pool

	s.unitOfWork, err = NewUnitOfWork(pool)
	s.Require().NoError(err)
}

func (s *PgRepositoryTestSuite) TearDownSuite() {
	s.pool.Close()
}

func (s *PgRepositoryTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.T().Context(), `TRUNCATE user_points, point_histories RESTART IDENTITY`)
	s.Require().NoError(err)
}

func (s *PgRepositoryTestSuite) TestUnknownUser() {
	balance, err := NewBalanceRepository(s.pool).GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(int64(0), balance.Balance)

	history, err := NewHistoryRepository(s.pool).GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.NotNil(history)
	s.Empty(history)
}

func (s *PgRepositoryTestSuite) TestCommitAndRollback() {
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := s.unitOfWork.Do(s.T().Context(), func(ctx context.Context, tx uow.TX) error {
		balanceRepo, err := uow.GetAs[domain.BalanceRepository](tx, uow.RepositoryName(domain.BalanceRepoName))
		s.Require().NoError(err)
		historyRepo, err := uow.GetAs[domain.HistoryRepository](tx, uow.RepositoryName(domain.HistoryRepoName))
		s.Require().NoError(err)

		if _, err = balanceRepo.Save(ctx, 1, 100, now); err != nil {
			return err
		}
		_, err = historyRepo.Append(ctx, 1, 100, domain.TransactionCharge, now)
		return err
	})
	s.Require().NoError(err)

	wantErr := errors.New("abort")
	err = s.unitOfWork.Do(s.T().Context(), func(ctx context.Context, tx uow.TX) error {
		balanceRepo, err := uow.GetAs[domain.BalanceRepository](tx, uow.RepositoryName(domain.BalanceRepoName))
		s.Require().NoError(err)
		if _, err = balanceRepo.Save(ctx, 1, 0, now); err != nil {
			return err
		}
		return wantErr
	})
	s.Require().ErrorIs(err, wantErr)

	balance, err := NewBalanceRepository(s.pool).GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Equal(int64(100), balance.Balance)
	s.True(now.Equal(balance.UpdatedAt))

	history, err := NewHistoryRepository(s.pool).GetByUserID(s.T().Context(), 1)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(domain.TransactionCharge, history[0].Type)
}

func (s *PgRepositoryTestSuite) TestNegativeBalanceRejected() {
	_, err := NewBalanceRepository(s.pool).Save(s.T().Context(), 1, -1, time.Now())
	s.Require().ErrorIs(err, domain.ErrInvalidAmount)
}
