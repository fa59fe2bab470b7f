package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// драйвер postgres для применения миграций.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// миграции читаются из *.sql файлов.
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxAttempts   uint = 30
	defaultRetryInterval      = 3 * time.Second
)

// Connect подключается к postgres, повторяя попытки пока база не поднимется, затем применяет миграции.
func Connect(ctx context.Context, migrationsDir, dsn string, l *logrus.Logger) (*pgxpool.Pool, error) {
	conn, connErr := connectWithRetry(ctx, dsn, l.WithField("component", "pgrepo"))
	if connErr != nil {
		return nil, fmt.Errorf("init postgres connection: %w", connErr)
	}

	if err := postgresMigrate(migrationsDir, dsn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func connectWithRetry(ctx context.Context, dsn string, l *logrus.Entry) (*pgxpool.Pool, error) {
	var attempts uint
	for {
		conn, connErr := newPostgresConnection(ctx, dsn)
		if connErr == nil {
			return conn, nil
		}

		attempts++
		if attempts >= defaultMaxAttempts {
			return nil, fmt.Errorf("after %d attempts: %w", attempts, connErr)
		}
		l.WithError(connErr).
			WithField("CurrentAttempt", fmt.Sprintf("#%d / %d", attempts, defaultMaxAttempts)).
			Warnf("init postgres connection error, retrying in %.f seconds", defaultRetryInterval.Seconds())

		select {
		case <-ctx.Done():
			return nil, ctx.Err() //nolint:wrapcheck
		case <-time.After(defaultRetryInterval):
		}
	}
}

func newPostgresConnection(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, confErr := pgxpool.ParseConfig(dsn)
	if confErr != nil {
		return nil, fmt.Errorf("parse postgres config: %s", confErr.Error())
	}
	pool, poolErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if poolErr != nil {
		return nil, fmt.Errorf("failed to create pool: %s", poolErr.Error())
	}

	// Проверяем, что соединение работает (Ping)
	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %s", pingErr.Error())
	}

	return pool, nil
}

func postgresMigrate(dir string, dsn string) error {
	m, mErr := migrate.New("file://"+dir, dsn)
	if mErr != nil {
		return fmt.Errorf("failed to create migrate instance: %w", mErr)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
