package keylock

import (
	"context"
	"hash/maphash"
	"sync"

	"go.uber.org/atomic"
)

const defaultShards = 64

type slot struct {
	sem  chan struct{}
	refs int // держатели + ожидающие, под мьютексом шарда
}

type shard[K comparable] struct {
	mu    sync.Mutex
	slots map[K]*slot
}

// KeyedMutex Locker со счетчиком ссылок: слот ключа существует, пока его кто-то держит или ждет,
// поэтому память не растет с количеством когда-либо встреченных ключей.
// Карта слотов разбита на шарды, мьютекс шарда удерживается только на время обслуживания карты.
type KeyedMutex[K comparable] struct {
	seed   maphash.Seed
	shards []*shard[K]
	live   atomic.Int64
}

func NewKeyedMutex[K comparable]() *KeyedMutex[K] {
	return NewKeyedMutexWithShards[K](defaultShards)
}

func NewKeyedMutexWithShards[K comparable](shards int) *KeyedMutex[K] {
	if shards < 1 {
		shards = 1
	}
	m := &KeyedMutex[K]{
		seed:   maphash.MakeSeed(),
		shards: make([]*shard[K], shards),
	}
	for i := range m.shards {
		m.shards[i] = &shard[K]{slots: make(map[K]*slot)}
	}
	return m
}

func (m *KeyedMutex[K]) WithLock(ctx context.Context, key K, fn func() error) error {
	sh := m.shards[index(m.seed, key, len(m.shards))]
	s := m.ref(sh, key)

	if err := lockSlot(ctx, s.sem); err != nil {
		m.unref(sh, key, s)
		return err
	}
	defer func() {
		unlockSlot(s.sem)
		m.unref(sh, key, s)
	}()

	return fn()
}

// Len количество живых слотов.
func (m *KeyedMutex[K]) Len() int {
	return int(m.live.Load())
}

func (m *KeyedMutex[K]) ref(sh *shard[K], key K) *slot {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.slots[key]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		sh.slots[key] = s
		m.live.Inc()
	}
	s.refs++
	return s
}

func (m *KeyedMutex[K]) unref(sh *shard[K], key K, s *slot) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(sh.slots, key)
		m.live.Dec()
	}
}
