package database

import (
	"fmt"
	"time"

	"github.com/veritasight/portfolio-service/internal/models"
)

// InsertIndexQuote appends a scraped index snapshot.
func (db *DB) InsertIndexQuote(q *models.IndexQuote) error {
	query := `
		INSERT INTO index_raw_data (ticker, value, change, percentage, timecreated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if q.TimeCreated.IsZero() {
		q.TimeCreated = time.Now()
	}

	err := db.conn.QueryRow(query, q.Ticker, q.Value, q.Change, q.ChangePercentage, q.TimeCreated).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("failed to insert index quote: %w", err)
	}
	return nil
}

// GetLatestIndexQuotes retrieves the most recent snapshot for each tracked
// index (ASPI and S&P SL20).
func (db *DB) GetLatestIndexQuotes() ([]models.IndexQuote, error) {
	query := `
		SELECT DISTINCT ON (ticker)
			id, ticker,
			COALESCE(value, 0),
			COALESCE(change, 0),
			COALESCE(percentage, 0),
			timecreated
		FROM index_raw_data
		WHERE ticker IN ($1, $2)
		ORDER BY ticker, timecreated DESC
	`
	rows, err := db.conn.Query(query, models.IndexTickerASPI, models.IndexTickerSL20)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest index quotes: %w", err)
	}
	defer rows.Close()

	indices := []models.IndexQuote{}
	for rows.Next() {
		var q models.IndexQuote
		if err := rows.Scan(&q.ID, &q.Ticker, &q.Value, &q.Change, &q.ChangePercentage, &q.TimeCreated); err != nil {
			return nil, fmt.Errorf("failed to scan index quote: %w", err)
		}
		indices = append(indices, q)
	}
	return indices, rows.Err()
}

// GetIndexHistory retrieves daily value points per index ticker, one
// averaged value per calendar day within the optional inclusive bounds.
func (db *DB) GetIndexHistory(from, to *time.Time) (map[string][]models.PricePoint, error) {
	query := `
		SELECT ticker, to_char(DATE(timecreated), 'YYYY-MM-DD'), AVG(value)
		FROM index_raw_data
		WHERE ticker IN ($1, $2)
		  AND value IS NOT NULL
	`
	args := []interface{}{models.IndexTickerASPI, models.IndexTickerSL20}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND timecreated >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND timecreated <= $%d", len(args))
	}
	query += `
		GROUP BY ticker, DATE(timecreated)
		ORDER BY ticker, DATE(timecreated)
	`

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get index history: %w", err)
	}
	defer rows.Close()

	history := make(map[string][]models.PricePoint)
	for rows.Next() {
		var ticker string
		var p models.PricePoint
		if err := rows.Scan(&ticker, &p.Time, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan index history point: %w", err)
		}
		history[ticker] = append(history[ticker], p)
	}
	return history, rows.Err()
}
