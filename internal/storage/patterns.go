package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tmorriss/ledgerscope/internal/common"
	"github.com/tmorriss/ledgerscope/internal/model"
)

// SavePattern persists a recurring pattern and assigns its id. The write is
// transactional so a failed insert never leaves a partial row.
func (s *SQLiteStorage) SavePattern(ctx context.Context, pattern *model.RecurringPattern) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePattern(pattern); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.savePatternTx(ctx, tx, pattern); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) savePatternTx(ctx context.Context, tx *sql.Tx, pattern *model.RecurringPattern) error {
	occurrencesJSON, err := json.Marshal(pattern.Occurrences)
	if err != nil {
		return fmt.Errorf("failed to marshal occurrences: %w", err)
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO recurring_patterns (
			name, account_id, payee, typical_amount, amount_variance,
			frequency, frequency_interval, occurrences, confidence,
			confidence_level, pattern_type, category, subcategory,
			created_by, next_expected, last_seen, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		pattern.Name,
		pattern.AccountID,
		pattern.Payee,
		pattern.TypicalAmount,
		pattern.AmountVariance,
		string(pattern.Frequency),
		pattern.Interval,
		string(occurrencesJSON),
		pattern.Confidence,
		string(pattern.Level),
		string(pattern.Type),
		pattern.Category,
		pattern.Subcategory,
		pattern.CreatedBy,
		pattern.NextExpected,
		pattern.LastSeen,
		true,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pattern: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get pattern id: %w", err)
	}

	pattern.ID = id
	pattern.Active = true
	pattern.CreatedAt = now
	pattern.UpdatedAt = now
	return nil
}

// ListPatterns returns saved patterns newest first, optionally restricted to
// active ones. Inactive patterns remain listable for audit.
func (s *SQLiteStorage) ListPatterns(ctx context.Context, activeOnly bool) ([]model.RecurringPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listPatternsTx(ctx, s.db, activeOnly)
}

func (s *SQLiteStorage) listPatternsTx(ctx context.Context, q queryable, activeOnly bool) ([]model.RecurringPattern, error) {
	query := `
		SELECT id, name, account_id, payee, typical_amount, amount_variance,
		       frequency, frequency_interval, occurrences, confidence,
		       confidence_level, pattern_type, category, subcategory,
		       created_by, next_expected, last_seen, is_active, created_at, updated_at
		FROM recurring_patterns`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY id DESC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.RecurringPattern
	for rows.Next() {
		pattern, err := scanPattern(rows.Scan)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, *pattern)
	}

	return patterns, rows.Err()
}

// GetPattern returns the pattern with the given id, or common.ErrNotFound.
func (s *SQLiteStorage) GetPattern(ctx context.Context, id int64) (*model.RecurringPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.getPatternTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getPatternTx(ctx context.Context, q queryable, id int64) (*model.RecurringPattern, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, account_id, payee, typical_amount, amount_variance,
		       frequency, frequency_interval, occurrences, confidence,
		       confidence_level, pattern_type, category, subcategory,
		       created_by, next_expected, last_seen, is_active, created_at, updated_at
		FROM recurring_patterns
		WHERE id = ?
	`, id)

	pattern, err := scanPattern(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: pattern %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return pattern, nil
}

// DeactivatePattern marks a pattern inactive. The row is retained: balance
// projections saved in the past may reference it.
func (s *SQLiteStorage) DeactivatePattern(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.deactivatePatternTx(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) deactivatePatternTx(ctx context.Context, tx *sql.Tx, id int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE recurring_patterns
		SET is_active = 0, updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate pattern: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: pattern %d", common.ErrNotFound, id)
	}

	return nil
}

// CountActivePatterns reports how many active patterns share the given
// (account, payee, frequency) key. Duplicates are allowed under the
// user-curated workflow; callers surface the count as a warning.
func (s *SQLiteStorage) CountActivePatterns(ctx context.Context, accountID, payee string, frequency model.FrequencyType) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	return s.countActivePatternsTx(ctx, s.db, accountID, payee, frequency)
}

func (s *SQLiteStorage) countActivePatternsTx(ctx context.Context, q queryable, accountID, payee string, frequency model.FrequencyType) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM recurring_patterns
		WHERE account_id = ? AND payee = ? AND frequency = ? AND is_active = 1
	`, accountID, payee, string(frequency)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count patterns: %w", err)
	}
	return count, nil
}

// scanPattern reads one pattern row via the given scan function, so it works
// for both sql.Row and sql.Rows.
func scanPattern(scan func(...any) error) (*model.RecurringPattern, error) {
	var p model.RecurringPattern
	var frequency, level, patternType string
	var occurrencesJSON, category, subcategory, createdBy sql.NullString
	var nextExpected, lastSeen sql.NullTime

	err := scan(&p.ID, &p.Name, &p.AccountID, &p.Payee, &p.TypicalAmount,
		&p.AmountVariance, &frequency, &p.Interval, &occurrencesJSON,
		&p.Confidence, &level, &patternType, &category, &subcategory,
		&createdBy, &nextExpected, &lastSeen, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan pattern: %w", err)
	}

	p.Frequency = model.FrequencyType(frequency)
	p.Level = model.ConfidenceLevel(level)
	p.Type = model.PatternType(patternType)
	p.Category = category.String
	p.Subcategory = subcategory.String
	p.CreatedBy = createdBy.String
	p.NextExpected = nextExpected.Time
	p.LastSeen = lastSeen.Time

	if occurrencesJSON.Valid && occurrencesJSON.String != "" {
		if err := json.Unmarshal([]byte(occurrencesJSON.String), &p.Occurrences); err != nil {
			return nil, fmt.Errorf("failed to unmarshal occurrences: %w", err)
		}
	}

	return &p, nil
}
