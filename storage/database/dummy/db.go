package dummydb

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
)

type (
	// DB is an in-memory record store. All tables share one lock so that
	// a transaction can hold it across several repository calls.
	DB struct {
		sync.RWMutex
		tables
	}

	tables struct {
		user    map[int]user.User
		profile map[int]marks.Profile
		marks   map[int]marks.Marks
		pkCount map[string]int
	}

	// txExec marks repository calls made inside DB.InTx, which already holds the lock.
	// It is never used to run queries.
	txExec struct {
		core.DBExecutor
	}
)

var _ core.Transactor = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{tables: newTables()}
}

func newTables() tables {
	return tables{
		user:    make(map[int]user.User),
		profile: make(map[int]marks.Profile),
		marks:   make(map[int]marks.Marks),
		pkCount: make(map[string]int),
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.user {
		c.user[k] = v
	}
	for k, v := range t.profile {
		c.profile[k] = v
	}
	for k, v := range t.marks {
		c.marks[k] = v
	}
	for k, v := range t.pkCount {
		c.pkCount[k] = v
	}
	return c
}

func (db *DB) nextPK(table string) int {
	db.pkCount[table]++
	return db.pkCount[table]
}

// InTx runs fn with the store locked, and restores the previous state if fn fails.
func (db *DB) InTx(ctx context.Context, fn func(exec core.DBExecutor) error) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}

	db.Lock()
	defer db.Unlock()

	snapshot := db.tables.clone()
	defer func() {
		if p := recover(); p != nil {
			db.tables = snapshot
			panic(p)
		}
	}()

	if err = fn(txExec{}); err != nil {
		db.tables = snapshot
	}
	return err
}

// Close is a noop, it matches the interface of real databases.
func (db *DB) Close() error { return nil }

func inTx(exec []core.DBExecutor) bool {
	if len(exec) == 0 {
		return false
	}
	_, ok := exec[0].(txExec)
	return ok
}

// rlock read-locks the DB unless the call is part of a transaction; it returns the unlock func.
func (db *DB) rlock(exec []core.DBExecutor) func() {
	if inTx(exec) {
		return func() {}
	}
	db.RLock()
	return db.RUnlock
}

func (db *DB) lock(exec []core.DBExecutor) func() {
	if inTx(exec) {
		return func() {}
	}
	db.Lock()
	return db.Unlock
}
