// Package store implements the Postgres persistence collaborator. The
// core never touches SQL: it receives whole in-memory collections and
// returns plain structures for the handlers to serialize.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

// Postgres implements contracts.Store over database/sql + lib/pq
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a pooled connection to the prop database
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// Ping checks database connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the connection pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

// EnsureSchema creates the two tables when they don't exist yet
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS game_logs (
			player_id   TEXT NOT NULL DEFAULT '',
			player_name TEXT NOT NULL DEFAULT '',
			game_date   TEXT NOT NULL DEFAULT '',
			points      DOUBLE PRECISION,
			rebounds    DOUBLE PRECISION,
			assists     DOUBLE PRECISION,
			threes      DOUBLE PRECISION,
			imported_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (player_id, player_name, game_date)
		)`,
		`CREATE TABLE IF NOT EXISTS prop_lines (
			id          BIGSERIAL PRIMARY KEY,
			source      TEXT NOT NULL,
			prop_date   TEXT NOT NULL,
			player_id   TEXT NOT NULL DEFAULT '',
			player_name TEXT NOT NULL DEFAULT '',
			team        TEXT NOT NULL DEFAULT '',
			stat_type   TEXT NOT NULL DEFAULT '',
			line        DOUBLE PRECISION,
			imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prop_lines_source_date ON prop_lines (source, prop_date)`,
	}
	for _, stmt := range stmts {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadGameLogs materializes the full game-log collection
func (p *Postgres) LoadGameLogs(ctx context.Context) ([]models.GameLog, error) {
	query := `
		SELECT player_id, player_name, game_date, points, rebounds, assists, threes
		FROM game_logs
		ORDER BY game_date DESC
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query game logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.GameLog, 0)
	for rows.Next() {
		var log models.GameLog
		var points, rebounds, assists, threes sql.NullFloat64

		if err := rows.Scan(&log.PlayerID, &log.PlayerName, &log.GameDate,
			&points, &rebounds, &assists, &threes); err != nil {
			return nil, fmt.Errorf("scan game log: %w", err)
		}

		log.Points = nullableFloat(points)
		log.Rebounds = nullableFloat(rebounds)
		log.Assists = nullableFloat(assists)
		log.Threes = nullableFloat(threes)
		logs = append(logs, log)
	}

	return logs, rows.Err()
}

// LoadPropLines materializes all prop lines grouped by source
func (p *Postgres) LoadPropLines(ctx context.Context) (map[string][]models.PropLine, error) {
	query := `
		SELECT id, source, prop_date, player_id, player_name, team, stat_type, line
		FROM prop_lines
		ORDER BY id
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query prop lines: %w", err)
	}
	defer rows.Close()

	bySource := make(map[string][]models.PropLine)
	for rows.Next() {
		var line models.PropLine
		var value sql.NullFloat64

		if err := rows.Scan(&line.ID, &line.Source, &line.Date, &line.PlayerID,
			&line.PlayerName, &line.Team, &line.StatType, &value); err != nil {
			return nil, fmt.Errorf("scan prop line: %w", err)
		}

		line.Line = nullableFloat(value)
		bySource[line.Source] = append(bySource[line.Source], line)
	}

	return bySource, rows.Err()
}

// ListPropDates returns the distinct dates carrying prop lines
func (p *Postgres) ListPropDates(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT DISTINCT prop_date FROM prop_lines`)
	if err != nil {
		return nil, fmt.Errorf("query prop dates: %w", err)
	}
	defer rows.Close()

	dates := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan prop date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// ImportGameLogs upserts canonical logs on the natural dedup key
func (p *Postgres) ImportGameLogs(ctx context.Context, logs []models.GameLog) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO game_logs (player_id, player_name, game_date, points, rebounds, assists, threes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (player_id, player_name, game_date) DO UPDATE SET
			points = EXCLUDED.points,
			rebounds = EXCLUDED.rebounds,
			assists = EXCLUDED.assists,
			threes = EXCLUDED.threes,
			imported_at = now()
	`

	written := 0
	for i := range logs {
		log := &logs[i]
		_, err := tx.ExecContext(ctx, query, log.PlayerID, log.PlayerName, log.GameDate,
			floatValue(log.Points), floatValue(log.Rebounds),
			floatValue(log.Assists), floatValue(log.Threes))
		if err != nil {
			return 0, fmt.Errorf("upsert game log: %w", err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return written, nil
}

// ImportPropLines replaces a source's lines for every date present in
// the batch, so a re-import of a date's feed never duplicates rows
func (p *Postgres) ImportPropLines(ctx context.Context, source string, lines []models.PropLine) (int, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	seen := make(map[string]bool)
	for i := range lines {
		d := lines[i].Date
		if seen[d] {
			continue
		}
		seen[d] = true
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM prop_lines WHERE source = $1 AND prop_date = $2`, source, d); err != nil {
			return 0, fmt.Errorf("clear prop lines: %w", err)
		}
	}

	query := `
		INSERT INTO prop_lines (source, prop_date, player_id, player_name, team, stat_type, line)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	written := 0
	for i := range lines {
		line := &lines[i]
		_, err := tx.ExecContext(ctx, query, source, line.Date, line.PlayerID,
			line.PlayerName, line.Team, line.StatType, floatValue(line.Line))
		if err != nil {
			return 0, fmt.Errorf("insert prop line: %w", err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return written, nil
}

// SimulateLine perturbs one line in a single read-modify-write
// transaction and returns the updated row. Test-support only; the
// computation core never mutates lines.
func (p *Postgres) SimulateLine(ctx context.Context, id int64, newLine, delta *float64) (*models.PropLine, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin simulate: %w", err)
	}
	defer tx.Rollback()

	var line models.PropLine
	var value sql.NullFloat64
	err = tx.QueryRowContext(ctx, `
		SELECT id, source, prop_date, player_id, player_name, team, stat_type, line
		FROM prop_lines WHERE id = $1 FOR UPDATE
	`, id).Scan(&line.ID, &line.Source, &line.Date, &line.PlayerID,
		&line.PlayerName, &line.Team, &line.StatType, &value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prop line: %w", err)
	}

	var updated float64
	switch {
	case newLine != nil:
		updated = *newLine
	case delta != nil && value.Valid:
		updated = value.Float64 + *delta
	case delta != nil:
		updated = *delta
	default:
		return nil, fmt.Errorf("simulate line: no new value or delta supplied")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE prop_lines SET line = $1 WHERE id = $2`, updated, id); err != nil {
		return nil, fmt.Errorf("update prop line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit simulate: %w", err)
	}

	line.Line = &updated
	return &line, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func floatValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
