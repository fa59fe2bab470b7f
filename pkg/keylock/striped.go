package keylock

import (
	"context"
	"hash/maphash"
)

const defaultStripes = 1024

// Striped Locker с фиксированной таблицей слотов. Память ограничена размером таблицы,
// но не связанные ключи с одинаковым хешем сериализуются между собой.
type Striped[K comparable] struct {
	seed    maphash.Seed
	stripes []chan struct{}
}

func NewStriped[K comparable](stripes int) *Striped[K] {
	if stripes < 1 {
		stripes = defaultStripes
	}
	s := &Striped[K]{
		seed:    maphash.MakeSeed(),
		stripes: make([]chan struct{}, stripes),
	}
	for i := range s.stripes {
		s.stripes[i] = make(chan struct{}, 1)
	}
	return s
}

func (s *Striped[K]) WithLock(ctx context.Context, key K, fn func() error) error {
	sem := s.stripes[index(s.seed, key, len(s.stripes))]
	if err := lockSlot(ctx, sem); err != nil {
		return err
	}
	defer unlockSlot(sem)

	return fn()
}

// Stripes размер таблицы слотов.
func (s *Striped[K]) Stripes() int {
	return len(s.stripes)
}
