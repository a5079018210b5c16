package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schedulerLockKey identifies the harvest scheduler's advisory lock. Every
// instance uses the same key, so only one of them runs the daily harvest.
const schedulerLockKey = 0x5ec4_1ead

// AdvisoryLock is a Postgres session advisory lock. TryLock never blocks: a
// second instance finds the lock held and skips its turn.
type AdvisoryLock struct {
	pool *pgxpool.Pool
	key  int64
	conn *pgxpool.Conn
}

func NewAdvisoryLock(pool *pgxpool.Pool) *AdvisoryLock {
	return &AdvisoryLock{pool: pool, key: schedulerLockKey}
}

// TryLock attempts to acquire the lock. It pins a pool connection while held;
// session locks die with their session, so a crashed holder frees the lock
// automatically.
func (l *AdvisoryLock) TryLock(ctx context.Context) (bool, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire conn for advisory lock: %w", err)
	}

	var got bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", l.key).Scan(&got); err != nil {
		conn.Release()
		return false, fmt.Errorf("pg_try_advisory_lock: %w", err)
	}
	if !got {
		conn.Release()
		return false, nil
	}
	l.conn = conn
	return true, nil
}

// Unlock releases the lock and the pinned connection.
func (l *AdvisoryLock) Unlock(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	defer func() {
		l.conn.Release()
		l.conn = nil
	}()
	if _, err := l.conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", l.key); err != nil {
		return fmt.Errorf("pg_advisory_unlock: %w", err)
	}
	return nil
}
