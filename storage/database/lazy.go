package database

import (
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

// ErrNotReady is returned to callers racing the first connection attempt.
// They are expected to retry; the API surfaces it as 503.
var ErrNotReady = errors.New("database not connected")

// Lazy opens the shared connection pool on first use. Exactly one caller
// performs the connect (synchronously); concurrent early callers observe
// ErrNotReady instead of racing to open duplicate pools.
type Lazy struct {
	conf *core.Config

	mu         sync.Mutex
	db         *sqlx.DB
	connecting bool
}

func NewLazy(conf *core.Config) *Lazy {
	return &Lazy{conf: conf}
}

func (l *Lazy) Get() (*sqlx.DB, error) {
	l.mu.Lock()
	if l.db != nil {
		db := l.db
		l.mu.Unlock()
		return db, nil
	}
	if l.connecting {
		l.mu.Unlock()
		return nil, ErrNotReady
	}
	l.connecting = true
	l.mu.Unlock()

	db, err := Open(l.conf)
	if err == nil {
		err = ping(db)
	}

	l.mu.Lock()
	l.connecting = false
	if err == nil {
		l.db = db
	}
	l.mu.Unlock()

	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	return db, nil
}

// Close releases the pool if one was opened.
func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
