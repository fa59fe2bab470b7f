package memrepo

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-points/internal/domain"
	"github.com/fsdevblog/groph-points/pkg/uow"
)

// UnitOfWork реализация uow.UOW для Store. Записи внутри Do копятся в changeSet
// и применяются к Store только при успешном завершении fn.
type UnitOfWork struct {
	store    *Store
	registry *uow.Registry[*changeSet]
}

func NewUnitOfWork(store *Store) (*UnitOfWork, error) {
	u := &UnitOfWork{
		store:    store,
		registry: uow.NewRegistry[*changeSet](),
	}

	balanceFactory := func(cs *changeSet) uow.Repository {
		return &BalanceRepository{store: store, changes: cs}
	}
	if err := u.registry.Register(uow.RepositoryName(domain.BalanceRepoName), balanceFactory); err != nil {
		return nil, fmt.Errorf("init memory UOW: %w", err)
	}

	historyFactory := func(cs *changeSet) uow.Repository {
		return &HistoryRepository{store: store, changes: cs}
	}
	if err := u.registry.Register(uow.RepositoryName(domain.HistoryRepoName), historyFactory); err != nil {
		return nil, fmt.Errorf("init memory UOW: %w", err)
	}

	return u, nil
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, uow.TX) error) error {
	cs := newChangeSet()
	if err := fn(ctx, uow.Bind(u.registry, cs)); err != nil {
		return err
	}
	u.store.apply(cs)
	return nil
}

// GetRepository репозитории вне транзакции пишут сразу в Store.
func (u *UnitOfWork) GetRepository(name uow.RepositoryName) (uow.Repository, error) {
	return u.registry.Resolve(name, nil)
}
