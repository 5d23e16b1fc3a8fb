package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veritasight/portfolio-service/internal/models"
)

// CreateManualAsset inserts a new manually tracked asset.
func (db *DB) CreateManualAsset(a *models.ManualAsset) error {
	query := `
		INSERT INTO manual_assets (name, type, value, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	var notes sql.NullString
	if a.Notes != "" {
		notes = sql.NullString{String: a.Notes, Valid: true}
	}

	err := db.conn.QueryRow(query, a.Name, a.Type, a.Value, notes, now).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create manual asset: %w", err)
	}
	return nil
}

// ManualAssetUpdate carries the fields of a partial update. Nil fields are
// left untouched.
type ManualAssetUpdate struct {
	Name  *string
	Type  *models.AssetType
	Value *decimal.Decimal
	Notes *string
}

// UpdateManualAsset applies a partial update to an asset by ID.
func (db *DB) UpdateManualAsset(id int, update ManualAssetUpdate) (*models.ManualAsset, error) {
	query := `
		UPDATE manual_assets
		SET name = COALESCE($2, name),
		    type = COALESCE($3, type),
		    value = COALESCE($4, value),
		    notes = COALESCE($5, notes),
		    updated_at = $6
		WHERE id = $1
		RETURNING id, name, type, value, notes, created_at, updated_at
	`
	var typeArg *string
	if update.Type != nil {
		s := string(*update.Type)
		typeArg = &s
	}

	var a models.ManualAsset
	var notes sql.NullString
	err := db.conn.QueryRow(query, id, update.Name, typeArg, update.Value, update.Notes, time.Now()).
		Scan(&a.ID, &a.Name, &a.Type, &a.Value, &notes, &a.CreatedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("manual asset not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update manual asset: %w", err)
	}

	if notes.Valid {
		a.Notes = notes.String
	}
	return &a, nil
}

// DeleteManualAsset removes an asset by ID.
func (db *DB) DeleteManualAsset(id int) error {
	result, err := db.conn.Exec(`DELETE FROM manual_assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete manual asset: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("manual asset not found: %d", id)
	}
	return nil
}

// GetAllManualAssets retrieves all manual assets, newest first.
func (db *DB) GetAllManualAssets() ([]models.ManualAsset, error) {
	query := `
		SELECT id, name, type, value, notes, created_at, updated_at
		FROM manual_assets
		ORDER BY created_at DESC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get manual assets: %w", err)
	}
	defer rows.Close()

	assets := []models.ManualAsset{}
	for rows.Next() {
		var a models.ManualAsset
		var notes sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Value, &notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manual asset: %w", err)
		}
		if notes.Valid {
			a.Notes = notes.String
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}
