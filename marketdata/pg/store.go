// Package pg reads par quotes and index fixings from Postgres.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the postgres driver with database/sql.
	_ "github.com/lib/pq"

	"github.com/meenmo/curvecal/marketdata"
)

// Store is a thin reader over the market-data schema:
//
//	par_quotes(curve_name text, curve_date date, tenor text, rate double precision)
//	fixings(index_name text, fixing_date date, rate double precision)
type Store struct {
	db *sql.DB
}

// Open connects to Postgres with a lib/pq DSN.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open market data store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ParQuotes loads a curve's quotes for a curve date, keyed by tenor.
func (s *Store) ParQuotes(ctx context.Context, curveName string, curveDate time.Time) (marketdata.ParQuotes, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tenor, rate FROM par_quotes WHERE curve_name = $1 AND curve_date = $2`,
		curveName, curveDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("load par quotes for %s: %w", curveName, err)
	}
	defer rows.Close()

	quotes := marketdata.ParQuotes{}
	for rows.Next() {
		var tenor string
		var rate float64
		if err := rows.Scan(&tenor, &rate); err != nil {
			return nil, fmt.Errorf("load par quotes for %s: %w", curveName, err)
		}
		quotes[tenor] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load par quotes for %s: %w", curveName, err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no par quotes for %s on %s", curveName, curveDate.Format("2006-01-02"))
	}
	return quotes, nil
}

// Fixings loads an index's published fixings over [from, to], keyed by
// YYYY-MM-DD date.
func (s *Store) Fixings(ctx context.Context, indexName string, from, to time.Time) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fixing_date, rate FROM fixings WHERE index_name = $1 AND fixing_date BETWEEN $2 AND $3`,
		indexName, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("load fixings for %s: %w", indexName, err)
	}
	defer rows.Close()

	fixings := map[string]float64{}
	for rows.Next() {
		var date time.Time
		var rate float64
		if err := rows.Scan(&date, &rate); err != nil {
			return nil, fmt.Errorf("load fixings for %s: %w", indexName, err)
		}
		fixings[date.Format("2006-01-02")] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load fixings for %s: %w", indexName, err)
	}
	return fixings, nil
}
