package database

import (
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/veritasight/portfolio-service/internal/models"
)

// InsertQuote appends a scraped quote snapshot. Rows are append-only; the
// latest row per symbol is the current quote.
func (db *DB) InsertQuote(q *models.Quote) error {
	query := `
		INSERT INTO ticker_raw_data (symbol, name, lasttradedprice, previousclose, change, changepercentage, timecreated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	if q.TimeCreated.IsZero() {
		q.TimeCreated = time.Now()
	}

	err := db.conn.QueryRow(query,
		q.Symbol, q.Name, q.LastTradedPrice, q.PreviousClose, q.Change, q.ChangePercentage, q.TimeCreated,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// GetLatestQuotes retrieves the most recent snapshot for every symbol.
func (db *DB) GetLatestQuotes() ([]models.Quote, error) {
	query := `
		SELECT DISTINCT ON (symbol)
			id, symbol, name,
			COALESCE(lasttradedprice, 0),
			COALESCE(previousclose, 0),
			COALESCE(change, 0),
			COALESCE(changepercentage, 0),
			timecreated
		FROM ticker_raw_data
		WHERE symbol IS NOT NULL
		ORDER BY symbol, timecreated DESC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest quotes: %w", err)
	}
	defer rows.Close()

	quotes := []models.Quote{}
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.ID, &q.Symbol, &q.Name, &q.LastTradedPrice, &q.PreviousClose,
			&q.Change, &q.ChangePercentage, &q.TimeCreated); err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// GetQuoteHistory retrieves daily price points per symbol, averaging the
// intraday snapshots down to one value per calendar day. The optional from
// and to bounds are inclusive.
func (db *DB) GetQuoteHistory(symbols []string, from, to *time.Time) (map[string][]models.PricePoint, error) {
	query := `
		SELECT symbol, to_char(DATE(timecreated), 'YYYY-MM-DD'), AVG(lasttradedprice)
		FROM ticker_raw_data
		WHERE symbol = ANY($1)
		  AND lasttradedprice IS NOT NULL
	`
	args := []interface{}{pq.Array(symbols)}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND timecreated >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND timecreated <= $%d", len(args))
	}
	query += `
		GROUP BY symbol, DATE(timecreated)
		ORDER BY symbol, DATE(timecreated)
	`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote history: %w", err)
	}
	defer rows.Close()

	history := make(map[string][]models.PricePoint)
	for rows.Next() {
		var symbol string
		var p models.PricePoint
		if err := rows.Scan(&symbol, &p.Time, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		history[symbol] = append(history[symbol], p)
	}
	return history, rows.Err()
}
