package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/brandscout-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'running',
	summary    TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS entities (
	run_id          TEXT NOT NULL REFERENCES runs(id),
	normalized_name TEXT NOT NULL,
	display_name    TEXT NOT NULL,
	location_count  INTEGER NOT NULL,
	website         TEXT,
	cities          TEXT,
	locations       TEXT NOT NULL,
	qualified       INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, normalized_name)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_entities_run_id ON entities(run_id);
CREATE INDEX IF NOT EXISTS idx_entities_qualified ON entities(run_id, qualified);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, source string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, source, string(model.RunStatusRunning), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Source:    source,
		Status:    model.RunStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run status %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET summary = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(summaryJSON), string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, status, summary, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, source, status, summary, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) SaveEntities(ctx context.Context, runID string, entities []model.ResolvedEntity) error {
	if len(entities) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entities (run_id, normalized_name, display_name, location_count, website, cities, locations, qualified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (run_id, normalized_name) DO UPDATE SET
			display_name = excluded.display_name,
			location_count = excluded.location_count,
			website = excluded.website,
			cities = excluded.cities,
			locations = excluded.locations,
			qualified = excluded.qualified`,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert entity")
	}
	defer stmt.Close()

	for _, e := range entities {
		citiesJSON, err := json.Marshal(e.Cities)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal cities")
		}
		locationsJSON, err := json.Marshal(e.Locations)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal locations")
		}
		if _, err := stmt.ExecContext(ctx,
			runID, e.NormalizedName, e.DisplayName, e.LocationCount,
			e.Website, string(citiesJSON), string(locationsJSON), e.Qualified,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert entity %s", e.NormalizedName)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit entities")
}

func (s *SQLiteStore) ListEntities(ctx context.Context, runID string) ([]model.ResolvedEntity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT normalized_name, display_name, location_count, website, cities, locations, qualified
		 FROM entities WHERE run_id = ? ORDER BY location_count DESC, normalized_name`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list entities for run %s", runID)
	}
	defer rows.Close()

	var entities []model.ResolvedEntity
	for rows.Next() {
		var e model.ResolvedEntity
		var website sql.NullString
		var citiesJSON, locationsJSON string

		if err := rows.Scan(&e.NormalizedName, &e.DisplayName, &e.LocationCount, &website, &citiesJSON, &locationsJSON, &e.Qualified); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan entity")
		}
		e.Website = website.String
		if err := json.Unmarshal([]byte(citiesJSON), &e.Cities); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal cities")
		}
		if err := json.Unmarshal([]byte(locationsJSON), &e.Locations); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal locations")
		}
		entities = append(entities, e)
	}
	return entities, eris.Wrap(rows.Err(), "sqlite: list entities iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var summaryJSON sql.NullString

	err := row.Scan(&r.ID, &r.Source, &r.Status, &summaryJSON, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if summaryJSON.Valid {
		r.Summary = &model.RunSummary{}
		if err := json.Unmarshal([]byte(summaryJSON.String), r.Summary); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal summary")
		}
	}
	return &r, nil
}
