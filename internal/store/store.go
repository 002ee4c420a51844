// Package store manages all DuckDB persistence operations.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"panion/internal/model"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Store wraps a DuckDB connection and exposes domain-specific persistence.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the given DuckDB file.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb %s: %w", dbPath, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the tables and indexes if they don't exist.
func (s *Store) Init() error {
	if _, err := s.db.Exec(coreSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// --- Report operations ---

// SaveReport persists an analytics snapshot under the given id, replacing any
// existing snapshot with that id.
func (s *Store) SaveReport(id string, analytics *model.Analytics) error {
	payload, err := json.Marshal(analytics)
	if err != nil {
		return fmt.Errorf("marshal analytics: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO reports (id, analytics, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET analytics = excluded.analytics, created_at = excluded.created_at
	`, id, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save report %s: %w", id, err)
	}
	return nil
}

// GetReport returns the analytics snapshot for an id, or nil when absent.
func (s *Store) GetReport(id string) (*model.Analytics, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT CAST(analytics AS VARCHAR) FROM reports WHERE id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	var analytics model.Analytics
	if err := json.Unmarshal([]byte(payload), &analytics); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &analytics, nil
}

// DeleteReport removes a stored snapshot. Deleting an absent id is not an error.
func (s *Store) DeleteReport(id string) error {
	if _, err := s.db.Exec(`DELETE FROM reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	return nil
}

// ListReports returns stored snapshots newest first, optionally bounded by a
// time filter on creation time.
func (s *Store) ListReports(limit int, tf *model.TimeFilter) ([]model.Report, error) {
	params := []interface{}{}
	timeClause, params := appendTimeClauses(tf, "created_at", false, params)

	query := fmt.Sprintf(`
		SELECT id, CAST(analytics AS VARCHAR), created_at
		FROM reports
		%s
		ORDER BY created_at DESC
		LIMIT ?
	`, timeClause)

	params = append(params, limit)
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Report
	for rows.Next() {
		var r model.Report
		var payload string
		if err := rows.Scan(&r.ID, &payload, &r.CreatedAt); err != nil {
			return nil, err
		}
		var analytics model.Analytics
		if err := json.Unmarshal([]byte(payload), &analytics); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", r.ID, err)
		}
		r.Analytics = &analytics
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Coupon operations ---

// RedeemCoupon records a redemption. Redeeming an already-redeemed code
// returns false with no error.
func (s *Store) RedeemCoupon(code string) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO coupon_redemptions (code, redeemed_at)
		VALUES (?, ?)
		ON CONFLICT (code) DO NOTHING
	`, code, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("redeem coupon: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// IsCouponRedeemed reports whether a code has already been redeemed.
func (s *Store) IsCouponRedeemed(code string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM coupon_redemptions WHERE code = ?`, code,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check coupon: %w", err)
	}
	return count > 0, nil
}

func appendTimeClauses(tf *model.TimeFilter, tsCol string, hasWhere bool, params []interface{}) (string, []interface{}) {
	if tf == nil {
		return "", params
	}

	var clauses []string
	if tf.Since != nil {
		clauses = append(clauses, fmt.Sprintf("%s >= ?", tsCol))
		params = append(params, *tf.Since)
	}
	if tf.Until != nil {
		clauses = append(clauses, fmt.Sprintf("%s <= ?", tsCol))
		params = append(params, *tf.Until)
	}

	if len(clauses) == 0 {
		return "", params
	}

	var sb strings.Builder
	for i, c := range clauses {
		if i == 0 && !hasWhere {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(c)
	}
	return sb.String(), params
}
