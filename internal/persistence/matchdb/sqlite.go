// Package matchdb keeps a small sqlite index of per-tick bot activity:
// roster size, energy totals, commands issued, rejection tallies. It is a
// secondary diagnostic store; losing it never affects play.
package matchdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB

	ch   chan TickRow
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

// TickRow is one tick of recorded activity.
type TickRow struct {
	Tick       uint64
	OwnSpirits int
	OwnEnergy  int
	EnemyCount int
	Commands   int
	Rejections map[string]int
}

// Summary aggregates a whole recorded match.
type Summary struct {
	Ticks      int
	FirstTick  uint64
	LastTick   uint64
	Commands   int
	Rejections map[string]int
}

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	d := &DB{
		db: db,
		// Two ticks per second; a generous buffer so a slow disk never
		// stalls the tick loop.
		ch: make(chan TickRow, 4096),
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop()
	}()
	return d, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads; NORMAL durability is
	// plenty for a diagnostic index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ticks (
			tick INTEGER PRIMARY KEY,
			own_spirits INTEGER NOT NULL,
			own_energy INTEGER NOT NULL,
			enemy_count INTEGER NOT NULL,
			commands INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rejections (
			tick INTEGER NOT NULL,
			code TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (tick, code)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordTick enqueues a row for the writer goroutine. Rows are dropped
// once the buffer is full or the db is closed; play continues regardless.
func (d *DB) RecordTick(r TickRow) {
	if d.closed.Load() {
		return
	}
	select {
	case d.ch <- r:
	default:
	}
}

func (d *DB) loop() {
	for r := range d.ch {
		d.insert(r)
	}
}

func (d *DB) insert(r TickRow) {
	_, _ = d.db.Exec(
		`INSERT OR REPLACE INTO ticks (tick, own_spirits, own_energy, enemy_count, commands)
		 VALUES (?, ?, ?, ?, ?)`,
		r.Tick, r.OwnSpirits, r.OwnEnergy, r.EnemyCount, r.Commands,
	)
	for code, n := range r.Rejections {
		if n <= 0 {
			continue
		}
		_, _ = d.db.Exec(
			`INSERT OR REPLACE INTO rejections (tick, code, count) VALUES (?, ?, ?)`,
			r.Tick, code, n,
		)
	}
}

func (d *DB) SetMeta(key, value string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (d *DB) GetMeta(key string) (string, error) {
	var v string
	err := d.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return v, err
}

func (d *DB) Summary() (Summary, error) {
	s := Summary{Rejections: map[string]int{}}

	row := d.db.QueryRow(`SELECT COUNT(*), COALESCE(MIN(tick), 0), COALESCE(MAX(tick), 0), COALESCE(SUM(commands), 0) FROM ticks`)
	if err := row.Scan(&s.Ticks, &s.FirstTick, &s.LastTick, &s.Commands); err != nil {
		return s, err
	}

	rows, err := d.db.Query(`SELECT code, SUM(count) FROM rejections GROUP BY code`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return s, err
		}
		s.Rejections[code] = n
	}
	return s, rows.Err()
}

// Close drains pending rows, then closes the database.
func (d *DB) Close() error {
	var err error
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.ch)
		d.wg.Wait()
		err = d.db.Close()
	})
	return err
}
