// Package db stores prediction history in SQLite.
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"housepredictor/ml"
)

// PredictionRecord is one row of prediction history.
type PredictionRecord struct {
	ID        int64            `json:"id"`
	Features  ml.HouseFeatures `json:"features"`
	Price     float64          `json:"price"`
	Tier      ml.Tier          `json:"tier"`
	CreatedAt time.Time        `json:"created_at"`
}

type Store struct {
	database *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database failed: %w", err)
	}
	database.SetMaxOpenConns(1)

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        area REAL NOT NULL,
        bedrooms REAL NOT NULL,
        bathrooms REAL NOT NULL,
        age REAL NOT NULL,
        location_score REAL NOT NULL,
        garage REAL NOT NULL,
        price REAL NOT NULL,
        tier TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at);
    `
	if _, err := database.Exec(query); err != nil {
		database.Close()
		return nil, fmt.Errorf("create tables failed: %w", err)
	}
	return &Store{database: database}, nil
}

func (s *Store) Close() error {
	return s.database.Close()
}

// SavePrediction appends one prediction to the history.
func (s *Store) SavePrediction(features ml.HouseFeatures, result ml.PredictionResult) error {
	_, err := s.database.Exec(`
        INSERT INTO predictions (
            area, bedrooms, bathrooms, age, location_score, garage, price, tier, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		features.Area,
		features.Bedrooms,
		features.Bathrooms,
		features.Age,
		features.LocationScore,
		features.Garage,
		result.Price,
		string(result.Tier),
		time.Now().UTC(),
	)
	return err
}

// QueryPredictions returns the newest predictions first.
func (s *Store) QueryPredictions(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.database.Query(`
        SELECT id, area, bedrooms, bathrooms, age, location_score, garage, price, tier, created_at
        FROM predictions
        ORDER BY id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0)
	for rows.Next() {
		var r PredictionRecord
		var tier string
		err := rows.Scan(&r.ID,
			&r.Features.Area, &r.Features.Bedrooms, &r.Features.Bathrooms,
			&r.Features.Age, &r.Features.LocationScore, &r.Features.Garage,
			&r.Price, &tier, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		r.Tier = ml.Tier(tier)
		records = append(records, r)
	}
	return records, rows.Err()
}
