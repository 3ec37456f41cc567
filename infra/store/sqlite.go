// Package store persists locomotive snapshots and prediction results in
// SQLite so fleet state and prediction history survive restarts.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/railfleet/locopredict/core/model"
)

// ErrNotFound is returned when a locomotive number has no stored snapshot.
var ErrNotFound = errors.New("locomotive not found")

// StoredPrediction is one persisted prediction row. Result carries the
// complete engine output; the scalar columns mirror parts of it so rows
// can be filtered and sorted in SQL without decoding the JSON.
type StoredPrediction struct {
	ID               string
	LocomotiveNumber string
	Result           model.Prediction
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Active           bool
}

// Expired reports whether the row has passed its expiry at the given time.
func (p StoredPrediction) Expired(at time.Time) bool { return at.After(p.ExpiresAt) }

// BatchItem pairs a locomotive number with its prediction result for a
// transactional batch save.
type BatchItem struct {
	LocomotiveNumber string
	Result           model.Prediction
}

// SQLiteStore persists locomotives and predictions in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

const upsertLocomotiveSQL = `INSERT INTO locomotives (number, model, fleet, manufacturing_year, operating_hours, last_maintenance, status)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(number) DO UPDATE SET
            model = excluded.model,
            fleet = excluded.fleet,
            manufacturing_year = excluded.manufacturing_year,
            operating_hours = excluded.operating_hours,
            last_maintenance = excluded.last_maintenance,
            status = excluded.status`

const insertPredictionSQL = `INSERT INTO predictions (id, locomotive_number, prediction_type, prediction_period, risk_score, risk_level, prediction_data, recommendations, created_at, expires_at, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`

const selectPredictionSQL = `SELECT id, locomotive_number, prediction_data, created_at, expires_at, is_active
        FROM predictions`

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := []string{
		`CREATE TABLE IF NOT EXISTS locomotives (
        number TEXT PRIMARY KEY,
        model TEXT NOT NULL,
        fleet TEXT NOT NULL,
        manufacturing_year INTEGER NOT NULL,
        operating_hours REAL NOT NULL,
        last_maintenance INTEGER NOT NULL,
        status TEXT NOT NULL
    );`,
		`CREATE TABLE IF NOT EXISTS predictions (
        id TEXT PRIMARY KEY,
        locomotive_number TEXT NOT NULL,
        prediction_type TEXT NOT NULL,
        prediction_period INTEGER NOT NULL,
        risk_score REAL NOT NULL,
        risk_level TEXT NOT NULL,
        prediction_data TEXT NOT NULL,
        recommendations TEXT NOT NULL,
        created_at INTEGER NOT NULL,
        expires_at INTEGER NOT NULL,
        is_active INTEGER NOT NULL DEFAULT 1
    );`,
		`CREATE INDEX IF NOT EXISTS predictions_active_created ON predictions(is_active, created_at);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			if cerr := db.Close(); cerr != nil {
				return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
			}
			return nil, err
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// SaveLocomotive inserts or updates the snapshot keyed by number.
func (s *SQLiteStore) SaveLocomotive(ctx context.Context, l model.Locomotive) error {
	_, err := s.db.ExecContext(ctx, upsertLocomotiveSQL,
		l.Number, l.Model, l.FleetTag(), l.ManufacturingYear, l.OperatingHours,
		maintenanceUnix(l), string(l.Status))
	return err
}

// SaveFleet upserts every snapshot in one transaction.
func (s *SQLiteStore) SaveFleet(ctx context.Context, locos []model.Locomotive) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, l := range locos {
		if _, err := tx.ExecContext(ctx, upsertLocomotiveSQL,
			l.Number, l.Model, l.FleetTag(), l.ManufacturingYear, l.OperatingHours,
			maintenanceUnix(l), string(l.Status)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Locomotive returns the stored snapshot for the given number.
func (s *SQLiteStore) Locomotive(ctx context.Context, number string) (model.Locomotive, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT number, model, fleet, manufacturing_year, operating_hours, last_maintenance, status
        FROM locomotives WHERE number = ?`, number)
	var (
		l     model.Locomotive
		maint int64
	)
	err := row.Scan(&l.Number, &l.Model, &l.Fleet, &l.ManufacturingYear, &l.OperatingHours, &maint, &l.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Locomotive{}, ErrNotFound
	}
	if err != nil {
		return model.Locomotive{}, err
	}
	if maint != 0 {
		l.LastMaintenance = time.Unix(maint, 0).UTC()
	}
	return l, nil
}

// Locomotives returns every stored snapshot ordered by number.
func (s *SQLiteStore) Locomotives(ctx context.Context) ([]model.Locomotive, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, model, fleet, manufacturing_year, operating_hours, last_maintenance, status
        FROM locomotives ORDER BY number`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []model.Locomotive
	for rows.Next() {
		var (
			l     model.Locomotive
			maint int64
		)
		if err := rows.Scan(&l.Number, &l.Model, &l.Fleet, &l.ManufacturingYear, &l.OperatingHours, &maint, &l.Status); err != nil {
			return nil, err
		}
		if maint != 0 {
			l.LastMaintenance = time.Unix(maint, 0).UTC()
		}
		res = append(res, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// SavePrediction persists one result and returns the stored row. Expiry
// is the creation time plus the prediction horizon in days.
func (s *SQLiteStore) SavePrediction(ctx context.Context, number string, p model.Prediction) (StoredPrediction, error) {
	row := s.newRow(number, p)
	data, recs, err := encodeResult(p)
	if err != nil {
		return StoredPrediction{}, err
	}
	if _, err := s.db.ExecContext(ctx, insertPredictionSQL,
		row.ID, row.LocomotiveNumber, string(p.Type), p.PeriodDays, p.RiskScore, string(p.RiskLevel),
		data, recs, row.CreatedAt.Unix(), row.ExpiresAt.Unix()); err != nil {
		return StoredPrediction{}, err
	}
	return row, nil
}

// SaveBatch persists a set of results in one transaction. Either every
// row is written or none are.
func (s *SQLiteStore) SaveBatch(ctx context.Context, items []BatchItem) ([]StoredPrediction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	saved := make([]StoredPrediction, 0, len(items))
	for _, it := range items {
		row := s.newRow(it.LocomotiveNumber, it.Result)
		data, recs, err := encodeResult(it.Result)
		if err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, insertPredictionSQL,
			row.ID, row.LocomotiveNumber, string(it.Result.Type), it.Result.PeriodDays,
			it.Result.RiskScore, string(it.Result.RiskLevel),
			data, recs, row.CreatedAt.Unix(), row.ExpiresAt.Unix()); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		saved = append(saved, row)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return saved, nil
}

// ActivePredictions returns active rows newest first. A non-positive
// limit returns every active row.
func (s *SQLiteStore) ActivePredictions(ctx context.Context, limit int) ([]StoredPrediction, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectPredictionSQL+
		` WHERE is_active = 1 ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collectPredictions(rows)
}

// LocomotivePredictions returns the active rows for one locomotive,
// newest first. A non-positive limit returns every matching row.
func (s *SQLiteStore) LocomotivePredictions(ctx context.Context, number string, limit int) ([]StoredPrediction, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectPredictionSQL+
		` WHERE locomotive_number = ? AND is_active = 1 ORDER BY created_at DESC, id LIMIT ?`, number, limit)
	if err != nil {
		return nil, err
	}
	return collectPredictions(rows)
}

// CountActive returns the number of active prediction rows.
func (s *SQLiteStore) CountActive(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions WHERE is_active = 1`).Scan(&n)
	return n, err
}

// DeactivateAll retires every active prediction and reports how many
// rows were touched. Rows are kept for history, never deleted.
func (s *SQLiteStore) DeactivateAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE predictions SET is_active = 0 WHERE is_active = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) newRow(number string, p model.Prediction) StoredPrediction {
	created := s.now().UTC().Truncate(time.Second)
	return StoredPrediction{
		ID:               uuid.NewString(),
		LocomotiveNumber: number,
		Result:           p,
		CreatedAt:        created,
		ExpiresAt:        created.AddDate(0, 0, p.PeriodDays),
		Active:           true,
	}
}

func encodeResult(p model.Prediction) (data, recommendations string, err error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", "", err
	}
	r, err := json.Marshal(p.Recommendations)
	if err != nil {
		return "", "", err
	}
	return string(b), string(r), nil
}

func collectPredictions(rows *sql.Rows) ([]StoredPrediction, error) {
	defer func() { _ = rows.Close() }()
	var res []StoredPrediction
	for rows.Next() {
		var (
			p       StoredPrediction
			data    string
			created int64
			expires int64
		)
		if err := rows.Scan(&p.ID, &p.LocomotiveNumber, &data, &created, &expires, &p.Active); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &p.Result); err != nil {
			return nil, fmt.Errorf("unmarshal prediction: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0).UTC()
		p.ExpiresAt = time.Unix(expires, 0).UTC()
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func maintenanceUnix(l model.Locomotive) int64 {
	if l.LastMaintenance.IsZero() {
		return 0
	}
	return l.LastMaintenance.Unix()
}
