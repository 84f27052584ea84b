package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"carsearch/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

type listingRow struct {
	model.Listing
	DocVec *pgvector.Vector `db:"doc_vector"`
}

const listingColumns = `
	car_no, car_name, make, model, body_type, fuel_type, segment,
	transmission, color, year, km, price, monthly_price, no_accident,
	options, tags, doc_vector
`

// LoadCatalog fetches the whole vehicle table. The search core filters and
// ranks in memory against an immutable snapshot, so this is a wholesale
// read, not a per-query one.
func (r *PostgresRepository) LoadCatalog(ctx context.Context) ([]model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicle_listings ORDER BY car_no`, listingColumns)

	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	listings := make([]model.Listing, 0, len(rows))
	for _, row := range rows {
		l := row.Listing
		if row.DocVec != nil {
			l.DocVector = row.DocVec.Slice()
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// GetListingByCarNo retrieves a single listing by its registration number
func (r *PostgresRepository) GetListingByCarNo(ctx context.Context, carNo string) (*model.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicle_listings WHERE car_no = $1`, listingColumns)

	var row listingRow
	err := r.db.GetContext(ctx, &row, query, carNo)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	l := row.Listing
	if row.DocVec != nil {
		l.DocVector = row.DocVec.Slice()
	}
	return &l, nil
}

// DocVectorItem pairs a listing with its document vector for batch updates
type DocVectorItem struct {
	CarNo  string
	Vector []float32
}

// BatchUpdateDocVectors updates document vectors for multiple listings
func (r *PostgresRepository) BatchUpdateDocVectors(ctx context.Context, items []DocVectorItem) (int, []string) {
	success := 0
	var errors []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE vehicle_listings SET doc_vector = $1, updated_at = NOW() WHERE car_no = $2`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Vector)
		_, err := stmt.ExecContext(ctx, vec, item.CarNo)
		if err != nil {
			errors = append(errors, fmt.Sprintf("car_no %s: %v", item.CarNo, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// intentJSON serializes an intent into a jsonb column
type intentJSON struct {
	intent *model.Intent
}

func (i intentJSON) Value() (driver.Value, error) {
	if i.intent == nil {
		return nil, nil
	}
	return json.Marshal(i.intent)
}

// LogSearch records one search for offline weight training
func (r *PostgresRepository) LogSearch(ctx context.Context, query string, intent *model.Intent, resultCount int, relaxed []string, responseTimeMs int) error {
	logQuery := `
		INSERT INTO search_logs (query, intent, result_count, relaxed_steps, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	steps := model.JSONArray(relaxed)
	_, err := r.db.ExecContext(ctx, logQuery, query, intentJSON{intent}, resultCount, steps, responseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}
