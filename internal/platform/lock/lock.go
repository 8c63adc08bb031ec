package lock

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotAcquired is returned when a doctor's lock is already held elsewhere.
var ErrNotAcquired = errors.New("doctor lock not acquired")

// DoctorLocker serializes conflict-sensitive writes per doctor. The
// blocked-time validator runs its check-then-insert sequence under this
// lock so two concurrent requests cannot both pass validation against the
// same stale reads.
type DoctorLocker interface {
	WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error
}

// localLocker guards each doctor with an in-process mutex. Sufficient for a
// single instance; multi-instance deployments should use the Redis locker.
type localLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewLocal returns a process-local DoctorLocker.
func NewLocal() DoctorLocker {
	return &localLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *localLocker) WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[doctorID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[doctorID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
