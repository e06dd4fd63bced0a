// Package pricecache stores recorded top-of-book history in SQLite so a
// market's tape can be replayed without re-downloading or re-recording it.
//
// Prices are stored as decimal strings (TEXT), never as floats, so a cached
// tape replays byte-identically to the original recording.
package pricecache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/polysim/simtrader"
)

// Schema creates the book history table. Keyed by (market, seq): re-importing
// a tape overwrites rather than duplicates.
const Schema = `
CREATE TABLE IF NOT EXISTS book_history (
	market   TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	ts_recv  REAL NOT NULL,
	best_bid TEXT,
	best_ask TEXT,
	PRIMARY KEY (market, seq)
);
`

// Cache is a SQLite-backed store of book timelines, one per market slug.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) a cache at the given path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open price cache %q: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init price cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// PutBatch stores a book timeline for a market. Rows replayed with a seq
// already present replace the stored row, matching the ledger's
// last-row-wins semantics for duplicate seqs.
func (c *Cache) PutBatch(market string, rows []simtrader.BookRow) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO book_history (market, seq, ts_recv, best_bid, best_ask)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(market, row.Sequence, row.TsRecv, decimalText(row.BestBid), decimalText(row.BestAsk)); err != nil {
			tx.Rollback()
			return fmt.Errorf("store book row seq %d: %w", row.Sequence, err)
		}
	}
	return tx.Commit()
}

// Timeline loads a market's full book timeline in ascending seq order,
// ready to hand to the ledger.
func (c *Cache) Timeline(market string) ([]simtrader.BookRow, error) {
	rows, err := c.db.Query(`
		SELECT seq, ts_recv, best_bid, best_ask
		FROM book_history WHERE market = ? ORDER BY seq ASC`, market)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timeline []simtrader.BookRow
	for rows.Next() {
		var (
			row      simtrader.BookRow
			bid, ask sql.NullString
		)
		if err := rows.Scan(&row.Sequence, &row.TsRecv, &bid, &ask); err != nil {
			return nil, err
		}
		if row.BestBid, err = parseDecimalText(bid); err != nil {
			return nil, fmt.Errorf("corrupt best_bid at seq %d: %w", row.Sequence, err)
		}
		if row.BestAsk, err = parseDecimalText(ask); err != nil {
			return nil, fmt.Errorf("corrupt best_ask at seq %d: %w", row.Sequence, err)
		}
		timeline = append(timeline, row)
	}
	return timeline, rows.Err()
}

// LastSeq returns the highest cached seq for a market, or false if the
// market has no cached history.
func (c *Cache) LastSeq(market string) (int64, bool, error) {
	var seq sql.NullInt64
	err := c.db.QueryRow(`SELECT MAX(seq) FROM book_history WHERE market = ?`, market).Scan(&seq)
	if err != nil {
		return 0, false, err
	}
	return seq.Int64, seq.Valid, nil
}

// Markets lists the market slugs present in the cache.
func (c *Cache) Markets() ([]string, error) {
	rows, err := c.db.Query(`SELECT DISTINCT market FROM book_history ORDER BY market`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var markets []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		markets = append(markets, m)
	}
	return markets, rows.Err()
}

func decimalText(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDecimalText(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
