// Package duckdb provides an append-only, queryable store for
// gene-boundary prediction runs across genomes.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/luxiangze/spider-silkome/internal/predict"
)

// Store manages a DuckDB connection for prediction results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS predictions (
		genome VARCHAR,
		spidroin VARCHAR,
		chrom VARCHAR,
		strand VARCHAR,
		start_position BIGINT,
		start_count INTEGER,
		end_position BIGINT,
		end_count INTEGER,
		length BIGINT,
		score INTEGER,
		valid BOOLEAN,
		reason VARCHAR,
		PRIMARY KEY (genome, spidroin, chrom, strand, start_position, end_position)
	)`)
	return err
}

// InsertPrediction stores one prediction for a genome and spidroin family.
// Re-inserting an existing key overwrites the previous row, so reruns of a
// family stay idempotent.
func (s *Store) InsertPrediction(genome, spidroin string, p predict.Prediction) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO predictions
		(genome, spidroin, chrom, strand, start_position, start_count,
		 end_position, end_count, length, score, valid, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		genome, spidroin, p.Chr, p.Strand, p.StartPosition, p.StartCount,
		p.EndPosition, p.EndCount, p.Length, p.Score, p.Valid, p.Reason)
	if err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// PredictionCount returns the total number of stored predictions.
func (s *Store) PredictionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM predictions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return count, nil
}

// ValidPredictions returns the valid predictions for a genome, ordered by
// chromosome text, strand and coordinates.
func (s *Store) ValidPredictions(genome string) ([]predict.Prediction, error) {
	rows, err := s.db.Query(`SELECT chrom, strand, start_position, start_count,
			end_position, end_count, length, score, valid, reason
		FROM predictions
		WHERE genome = ? AND valid
		ORDER BY chrom, strand, start_position, end_position`, genome)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var preds []predict.Prediction
	for rows.Next() {
		var p predict.Prediction
		if err := rows.Scan(&p.Chr, &p.Strand, &p.StartPosition, &p.StartCount,
			&p.EndPosition, &p.EndCount, &p.Length, &p.Score, &p.Valid, &p.Reason); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		preds = append(preds, p)
	}
	return preds, rows.Err()
}

// Genomes returns the distinct genome names present in the store.
func (s *Store) Genomes() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT genome FROM predictions ORDER BY genome`)
	if err != nil {
		return nil, fmt.Errorf("query genomes: %w", err)
	}
	defer rows.Close()

	var genomes []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan genome: %w", err)
		}
		genomes = append(genomes, g)
	}
	return genomes, rows.Err()
}
