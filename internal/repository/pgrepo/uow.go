package pgrepo

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

// NewUnitOfWork создает UOW postgres с зарегистрированными репозиториями баланса и истории.
func NewUnitOfWork(conn *pgxpool.Pool) (*uow.PgUnitOfWork, error) {
	unitOfWork := uow.NewPgUnitOfWork(conn)

	balanceRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return NewBalanceRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(domain.BalanceRepoName), balanceRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	historyRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return NewHistoryRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(domain.HistoryRepoName), historyRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
