package inventory

import (
	"sort"
	"sync"
)

// ItemLocks serializes reservation checks per organization item so two
// concurrent bookings cannot both pass the availability check and overdraw
// the same item. Locks are always taken in ascending item-ID order, which
// rules out deadlock between multi-item bookings.
type ItemLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewItemLocks() *ItemLocks {
	return &ItemLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *ItemLocks) lockFor(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Lock acquires the mutexes for the given item IDs, deduplicated and sorted,
// and returns a release function that unlocks them in reverse order.
func (l *ItemLocks) Lock(ids ...int64) func() {
	seen := make(map[int64]struct{}, len(ids))
	uniq := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	held := make([]*sync.Mutex, 0, len(uniq))
	for _, id := range uniq {
		m := l.lockFor(id)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
