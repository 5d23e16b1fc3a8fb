package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veritasight/portfolio-service/internal/models"
)

// UpsertHolding creates a holding or, when the symbol already exists,
// replaces its share count. Symbols are stored uppercase.
func (db *DB) UpsertHolding(h *models.Holding) error {
	query := `
		INSERT INTO portfolio_holdings (symbol, shares_held, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (symbol) DO UPDATE SET
			shares_held = EXCLUDED.shares_held,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	h.Symbol = strings.ToUpper(h.Symbol)

	err := db.conn.QueryRow(query, h.Symbol, h.SharesHeld, now).
		Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}
	return nil
}

// UpdateHoldingShares changes the share count of an existing holding.
func (db *DB) UpdateHoldingShares(symbol string, shares decimal.Decimal) (*models.Holding, error) {
	query := `
		UPDATE portfolio_holdings
		SET shares_held = $2, updated_at = $3
		WHERE symbol = $1
		RETURNING id, symbol, shares_held, created_at, updated_at
	`
	var h models.Holding
	err := db.conn.QueryRow(query, strings.ToUpper(symbol), shares, time.Now()).
		Scan(&h.ID, &h.Symbol, &h.SharesHeld, &h.CreatedAt, &h.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("holding not found: %s", symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}
	return &h, nil
}

// DeleteHolding removes a holding by symbol.
func (db *DB) DeleteHolding(symbol string) error {
	result, err := db.conn.Exec(`DELETE FROM portfolio_holdings WHERE symbol = $1`, strings.ToUpper(symbol))
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("holding not found: %s", symbol)
	}
	return nil
}

// GetAllHoldings retrieves all holdings, newest first.
func (db *DB) GetAllHoldings() ([]models.Holding, error) {
	query := `
		SELECT id, symbol, shares_held, created_at, updated_at
		FROM portfolio_holdings
		ORDER BY created_at DESC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.ID, &h.Symbol, &h.SharesHeld, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}
