package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/pkg/db/migrations"
	"github.com/fadedpez/tablejack/pkg/entities"
)

const (
	sessionColumns = `id, player_id, balance, current_bet, started_at, updated_at, stats`
	recordColumns  = `id, session_id, round_id, seat_id, hand_index, bet, payout, outcome,
		player_value, dealer_value, is_double, is_split, recorded_at`
)

var upsertSessionSQL = map[string]string{
	migrations.DialectSQLite: `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			player_id = excluded.player_id,
			balance = excluded.balance,
			current_bet = excluded.current_bet,
			updated_at = excluded.updated_at,
			stats = excluded.stats`,
	migrations.DialectMySQL: `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			player_id = VALUES(player_id),
			balance = VALUES(balance),
			current_bet = VALUES(current_bet),
			updated_at = VALUES(updated_at),
			stats = VALUES(stats)`,
}

// SQLRepository implements Repository on SQLite or MySQL
type SQLRepository struct {
	db      *sql.DB
	dialect string
	log     *logging.Logger
}

// NewSQLiteRepository opens (creating if needed) a SQLite database at dbPath
// and brings its schema up to date.
func NewSQLiteRepository(ctx context.Context, dbPath string, logger *logging.Logger) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open(migrations.DialectSQLite, dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// writes serialize in sqlite anyway
	db.SetMaxOpenConns(1)

	return newSQLRepository(ctx, db, migrations.DialectSQLite, logger)
}

// NewMySQLRepository connects to the MySQL server described by dsn and
// brings its schema up to date.
func NewMySQLRepository(ctx context.Context, dsn string, logger *logging.Logger) (*SQLRepository, error) {
	db, err := OpenMySQL(dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to mysql: %w", err)
	}
	return newSQLRepository(ctx, db, migrations.DialectMySQL, logger)
}

// OpenMySQL parses dsn and opens a pool without touching the server
func OpenMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("error parsing mysql dsn: %w", err)
	}
	cfg.MultiStatements = false
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxIdleConns(10)
	return db, nil
}

func newSQLRepository(ctx context.Context, db *sql.DB, dialect string, logger *logging.Logger) (*SQLRepository, error) {
	if logger == nil {
		logger = logging.Default
	}

	migrator, err := migrations.NewMigrator(db, dialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if _, err := migrator.MigrateUp(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating %s schema: %w", dialect, err)
	}

	return &SQLRepository{
		db:      db,
		dialect: dialect,
		log:     logger.WithPrefix("sessions-" + dialect),
	}, nil
}

// Dialect returns the driver name the repository runs on
func (r *SQLRepository) Dialect() string {
	return r.dialect
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*entities.Session, error) {
	var (
		session              entities.Session
		startedAt, updatedAt int64
		stats                string
	)
	err := row.Scan(
		&session.ID,
		&session.PlayerID,
		&session.Balance,
		&session.CurrentBet,
		&startedAt,
		&updatedAt,
		&stats,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stats), &session.Stats); err != nil {
		return nil, fmt.Errorf("error decoding stats for session %s: %w", session.ID, err)
	}
	session.StartedAt = time.UnixMilli(startedAt).UTC()
	session.LastUpdated = time.UnixMilli(updatedAt).UTC()
	return &session, nil
}

// GetSession retrieves a session by ID
func (r *SQLRepository) GetSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, sessionID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	return session, nil
}

// SaveSession creates or updates a session
func (r *SQLRepository) SaveSession(ctx context.Context, session *entities.Session) error {
	stats, err := json.Marshal(session.Stats)
	if err != nil {
		return fmt.Errorf("error encoding stats: %w", err)
	}

	_, err = r.db.ExecContext(ctx, upsertSessionSQL[r.dialect],
		session.ID,
		session.PlayerID,
		session.Balance,
		session.CurrentBet,
		session.StartedAt.UnixMilli(),
		session.LastUpdated.UnixMilli(),
		string(stats),
	)
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}

	r.log.Debug("saved session %s: balance %d", session.ID, session.Balance)
	return nil
}

// AddHandRecord appends a settled hand to a session's history
func (r *SQLRepository) AddHandRecord(ctx context.Context, record *entities.HandRecord) error {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, record.SessionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking session: %w", err)
	}
	if exists == 0 {
		return ErrSessionNotFound
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO hand_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.SessionID,
		record.RoundID,
		record.SeatID,
		record.HandIndex,
		record.Bet,
		record.Payout,
		string(record.Outcome),
		record.PlayerValue,
		record.DealerValue,
		record.IsDouble,
		record.IsSplit,
		record.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("error adding hand record: %w", err)
	}
	return nil
}

// GetHandRecords returns up to limit records, most recent first
func (r *SQLRepository) GetHandRecords(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM hand_records WHERE session_id = ? ORDER BY seq DESC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying hand records: %w", err)
	}
	defer rows.Close()

	records := make([]*entities.HandRecord, 0)
	for rows.Next() {
		var (
			record     entities.HandRecord
			outcome    string
			recordedAt int64
		)
		err := rows.Scan(
			&record.ID,
			&record.SessionID,
			&record.RoundID,
			&record.SeatID,
			&record.HandIndex,
			&record.Bet,
			&record.Payout,
			&outcome,
			&record.PlayerValue,
			&record.DealerValue,
			&record.IsDouble,
			&record.IsSplit,
			&recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning hand record: %w", err)
		}
		record.Outcome = entities.Outcome(outcome)
		record.RecordedAt = time.UnixMilli(recordedAt).UTC()
		records = append(records, &record)
	}
	return records, rows.Err()
}

// GetTopSessions returns up to limit sessions ordered by balance
func (r *SQLRepository) GetTopSessions(ctx context.Context, limit int) ([]*entities.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY balance DESC, started_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*entities.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}
