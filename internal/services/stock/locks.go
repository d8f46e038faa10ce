package stock

import "sync"

// accountLocks serializes trading operations per account. The buy and
// sell paths validate an aggregated balance snapshot before appending
// a transaction; holding the account's lock across read and write
// keeps a concurrent order on the same account from invalidating the
// snapshot in between.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the lock for accountID and returns the unlock func.
func (l *accountLocks) Lock(accountID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[accountID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
