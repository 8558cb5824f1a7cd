package detector

import "sync"

// pageLocks hands out one advisory mutex per page id so concurrent runs
// against the same page serialize. Mutexes are never evicted; the set of
// monitored pages is small and bounded by user action.
type pageLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *pageLocks) lock(pageID string) (unlock func()) {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := p.locks[pageID]
	if !ok {
		lock = &sync.Mutex{}
		p.locks[pageID] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
