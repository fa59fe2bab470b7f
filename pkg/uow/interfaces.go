package uow

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks
import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TX репозитории, привязанные к текущей транзакции. Записи через них становятся видны остальным
// только после успешного завершения UOW.Do.
type TX interface {
	Get(name RepositoryName) (Repository, error)
}

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// UOW единица работы. Do выполняет fn и фиксирует все записи fn одним коммитом, если fn вернула nil,
// иначе отбрасывает их. GetRepository отдает репозиторий вне транзакции, только для чтения
// зафиксированного состояния.
type UOW interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx TX) error) error
	GetRepository(name RepositoryName) (Repository, error)
}
