// Package keylock реализует взаимное исключение по ключу: в один момент времени по одному ключу
// выполняется не более одной функции, разные ключи друг друга не блокируют.
package keylock

import (
	"context"
	"errors"
	"fmt"
	"hash/maphash"
)

var ErrTimeout = errors.New("[keylock] wait for key timed out")

// Locker выполняет fn, удерживая эксклюзивный слот ключа key. Слот освобождается при любом выходе из fn,
// включая панику. Если ctx завершится раньше чем слот будет получен, fn не выполняется
// и возвращается ErrTimeout.
type Locker[K comparable] interface {
	WithLock(ctx context.Context, key K, fn func() error) error
}

// lockSlot захватывает семафор sem (буферизированный канал емкостью 1), не занимаясь поллингом.
func lockSlot(ctx context.Context, sem chan struct{}) error {
	// быстрый путь: свободный слот берем даже при уже отмененном контексте.
	select {
	case sem <- struct{}{}:
		return nil
	default:
	}

	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

func unlockSlot(sem chan struct{}) {
	<-sem
}

func index[K comparable](seed maphash.Seed, key K, n int) int {
	return int(maphash.Comparable(seed, key) % uint64(n)) //nolint:gosec
}
