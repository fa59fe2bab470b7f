package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryFactory func(DBTX) Repository

// PgUnitOfWork реализация UOW поверх транзакций postgres.
type PgUnitOfWork struct {
	conn      *pgxpool.Pool
	txOptions pgx.TxOptions
	registry  *Registry[DBTX]
}

func NewPgUnitOfWork(conn *pgxpool.Pool) *PgUnitOfWork {
	return &PgUnitOfWork{
		conn:      conn,
		txOptions: pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite},
		registry:  NewRegistry[DBTX](),
	}
}

// Register регистрирует фабрику репозитория, см. Registry.Register.
func (u *PgUnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	return u.registry.Register(name, factory)
}

// Do выполняет функцию fn внутри транзакции. Транзакция откатывается, если fn вернула ошибку
// или запаниковала.
func (u *PgUnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, u.txOptions)
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		// откат на уже закоммиченной транзакции возвращает ErrTxClosed, это нормально.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if transErr := fn(ctx, Bind[DBTX](u.registry, tx)); transErr != nil {
		return transErr
	}
	return tx.Commit(ctx) //nolint:wrapcheck
}

// GetRepository возвращает репозиторий поверх пула соединений или ошибку ErrRepositoryNotRegistered.
func (u *PgUnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	return u.registry.Resolve(name, u.conn)
}
