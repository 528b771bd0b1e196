package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store persists compliance reports in a SQLite database.
//
// Store uses a write-ahead log (WAL) for better concurrent read
// performance and keeps a single writer connection, which is what SQLite
// supports anyway.
type Store struct {
	db        *sql.DB
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt  *sql.Stmt
	getStmt   *sql.Stmt
	countStmt *sql.Stmt
	pruneStmt *sql.Stmt
}

// StoreConfig configures the report store.
type StoreConfig struct {
	// Path is the SQLite database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// NewStore opens (or creates) the report database at the given path.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		rule_set_name TEXT NOT NULL,
		rule_set_version TEXT NOT NULL,
		is_compliant INTEGER NOT NULL,
		violations TEXT NOT NULL,
		warnings TEXT NOT NULL,
		checked_rules INTEGER NOT NULL,
		evaluation_time_ns INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	CREATE INDEX IF NOT EXISTS idx_reports_rule_set ON reports(rule_set_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO reports (id, rule_set_name, rule_set_version, is_compliant,
			violations, warnings, checked_rules, evaluation_time_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`
		SELECT id, rule_set_name, rule_set_version, is_compliant,
			violations, warnings, checked_rules, evaluation_time_ns, created_at
		FROM reports
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare get statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM reports`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`DELETE FROM reports WHERE created_at < ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Save persists a report, assigning its ID and CreatedAt. The assigned ID
// is returned.
func (s *Store) Save(ctx context.Context, report *Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report cannot be nil")
	}
	if report.RuleSetName == "" {
		return "", fmt.Errorf("rule set name cannot be empty")
	}

	report.ID = uuid.NewString()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}

	violationsJSON, err := json.Marshal(report.Violations)
	if err != nil {
		return "", fmt.Errorf("failed to marshal violations: %w", err)
	}
	warningsJSON, err := json.Marshal(report.Warnings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal warnings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.saveStmt.ExecContext(ctx,
		report.ID,
		report.RuleSetName,
		report.RuleSetVersion,
		boolToInt(report.IsCompliant),
		string(violationsJSON),
		string(warningsJSON),
		report.CheckedRules,
		report.EvaluationTime.Nanoseconds(),
		report.CreatedAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return report.ID, nil
}

// Get retrieves a report by ID. Returns (nil, nil) if no report exists.
func (s *Store) Get(ctx context.Context, id string) (*Report, error) {
	if id == "" {
		return nil, fmt.Errorf("report id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	report, err := scanReport(s.getStmt.QueryRowContext(ctx, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

// List returns reports matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Report, error) {
	query := `
		SELECT id, rule_set_name, rule_set_version, is_compliant,
			violations, warnings, checked_rules, evaluation_time_ns, created_at
		FROM reports
		WHERE 1=1`
	var args []any

	if filter.RuleSetName != "" {
		query += " AND rule_set_name = ?"
		args = append(args, filter.RuleSetName)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.Unix())
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return reports, nil
}

// Count returns the total number of stored reports.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// PruneBefore deletes reports created before the cutoff and returns the
// number deleted.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneStmt.ExecContext(ctx, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune reports: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// TrimToLimit deletes the oldest reports so that at most max remain.
// Returns the number deleted. A max of zero or less is a no-op.
func (s *Store) TrimToLimit(ctx context.Context, max int64) (int64, error) {
	if max <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM reports
		WHERE id NOT IN (
			SELECT id FROM reports ORDER BY created_at DESC LIMIT ?
		)
	`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to trim reports: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Close releases database resources. Close is idempotent.
func (s *Store) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.saveStmt, s.getStmt, s.countStmt, s.pruneStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*Report, error) {
	var (
		report         Report
		isCompliant    int
		violationsJSON string
		warningsJSON   string
		evalTimeNS     int64
		createdAt      int64
	)

	err := row.Scan(
		&report.ID,
		&report.RuleSetName,
		&report.RuleSetVersion,
		&isCompliant,
		&violationsJSON,
		&warningsJSON,
		&report.CheckedRules,
		&evalTimeNS,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	report.IsCompliant = isCompliant != 0
	report.EvaluationTime = time.Duration(evalTimeNS)
	report.CreatedAt = time.Unix(createdAt, 0)

	if err := json.Unmarshal([]byte(violationsJSON), &report.Violations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal violations: %w", err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &report.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings: %w", err)
	}

	return &report, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
