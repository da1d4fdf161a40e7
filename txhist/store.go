// Copyright (c) 2024 The fuegosuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txhist provides the wallet's transaction history store, backed
// by a SQL database.  SQLite is the default backend; PostgreSQL is
// supported for deployments that already run one.  The store is append
// mostly: records are inserted once and only ever read back, newest
// first.
package txhist

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	// Register the pgx driver under name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	// Register the SQLite driver under name "sqlite".
	_ "modernc.org/sqlite"

	"github.com/fuegosuite/fuegowallet/pkg/unit"
)

// ErrNilRecord is returned when a nil record is passed to InsertTx.
var ErrNilRecord = errors.New("nil history record")

// Record is one transaction as stored in the history table.  Amount is
// signed: sends are negative, credits back to the wallet are positive.
type Record struct {
	ID           string
	Hash         string
	Amount       unit.Amount
	Fee          unit.Amount
	Timestamp    time.Time
	Height       uint64
	Counterparty string
	PaymentID    string
}

// createStmts works unchanged on both SQLite and PostgreSQL.
// Timestamps are stored as unix nanoseconds to sidestep the backends'
// diverging native time types.  Statements are executed one at a time
// since the pgx driver rejects multi-statement Execs.
var createStmts = []string{`
CREATE TABLE IF NOT EXISTS transactions (
	tx_id        TEXT PRIMARY KEY,
	tx_hash      TEXT NOT NULL,
	amount       BIGINT NOT NULL,
	fee          BIGINT NOT NULL,
	created_ns   BIGINT NOT NULL,
	height       BIGINT NOT NULL,
	counterparty TEXT NOT NULL,
	payment_id   TEXT NOT NULL
)`, `
CREATE INDEX IF NOT EXISTS transactions_created_idx
	ON transactions (created_ns)`,
}

// Store is a transaction history store over a SQL database.  It is safe
// for concurrent use; all synchronization is delegated to database/sql.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle, creating the history schema if
// it does not exist yet.  The store takes ownership of the handle.
func NewStore(db *sql.DB) (*Store, error) {
	for _, stmt := range createStmts {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("unable to create history "+
				"schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// OpenSQLite opens (creating if necessary) a SQLite-backed history store
// at the given path.
func OpenSQLite(dbPath string) (*Store, error) {
	dsn := "file:" + dbPath + "?mode=rwc&_fk=1"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// modernc sqlite does not tolerate concurrent writers on one file,
	// so funnel everything through a single connection.
	db.SetMaxOpenConns(1)

	store, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Infof("Opened transaction history at %v", dbPath)
	return store, nil
}

// OpenPostgres opens a PostgreSQL-backed history store at the given DSN.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Infof("Opened transaction history on postgres")
	return store, nil
}

// InsertTx appends a transaction record to the history.
func (s *Store) InsertTx(rec *Record) error {
	if rec == nil {
		return ErrNilRecord
	}

	_, err := s.db.Exec(`
		INSERT INTO transactions (tx_id, tx_hash, amount, fee,
			created_ns, height, counterparty, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Hash, int64(rec.Amount), int64(rec.Fee),
		rec.Timestamp.UnixNano(), int64(rec.Height),
		rec.Counterparty, rec.PaymentID,
	)
	if err != nil {
		return fmt.Errorf("unable to insert tx %v: %w", rec.ID, err)
	}

	log.Tracef("Recorded tx %v (amount %v, fee %v)", rec.ID, rec.Amount,
		rec.Fee)
	return nil
}

// ListTransactions returns up to limit records, newest first, skipping
// the first offset records.  A non-positive limit returns everything
// after the offset.
func (s *Store) ListTransactions(limit, offset int) ([]Record, error) {
	if limit <= 0 {
		// Both backends accept a plain large limit; negative and
		// NULL limits are not portable between them.
		limit = math.MaxInt32
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(`
		SELECT tx_id, tx_hash, amount, fee, created_ns, height,
			counterparty, payment_id
		FROM transactions
		ORDER BY created_ns DESC, tx_id DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to query history: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			rec               Record
			amount, fee       int64
			createdNs, height int64
		)
		err := rows.Scan(&rec.ID, &rec.Hash, &amount, &fee,
			&createdNs, &height, &rec.Counterparty, &rec.PaymentID)
		if err != nil {
			return nil, err
		}
		rec.Amount = unit.Amount(amount)
		rec.Fee = unit.Amount(fee)
		rec.Timestamp = time.Unix(0, createdNs).UTC()
		rec.Height = uint64(height)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CountTransactions returns the number of records in the history.
func (s *Store) CountTransactions() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&n)
	return n, err
}

// DeleteAll removes every record from the history.  The schema is kept so
// the store remains usable afterwards.
func (s *Store) DeleteAll() error {
	_, err := s.db.Exec(`DELETE FROM transactions`)
	return err
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
