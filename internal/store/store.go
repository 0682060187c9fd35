// Package store persists scenarios and their evaluation artifacts in a
// local SQLite database. Rows carry the full JSON document; relational
// columns exist only for lookup.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/gridline/siteplan/pkg/estimate"
	"github.com/gridline/siteplan/pkg/scenario"
	"github.com/gridline/siteplan/pkg/score"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY,
	plot_name  TEXT NOT NULL,
	name       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scenarios_plot ON scenarios(plot_name);

CREATE TABLE IF NOT EXISTS scores (
	scenario_id TEXT PRIMARY KEY REFERENCES scenarios(id) ON DELETE CASCADE,
	payload     TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS estimates (
	scenario_id TEXT PRIMARY KEY REFERENCES scenarios(id) ON DELETE CASCADE,
	payload     TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store wraps the SQLite handle.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database at path, creating it and its schema when
// absent. WAL mode keeps concurrent readers off the writer's back.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveScenario inserts or replaces a scenario document.
func (s *Store) SaveScenario(ctx context.Context, scn *scenario.Scenario) error {
	payload, err := json.Marshal(scn)
	if err != nil {
		return fmt.Errorf("store: marshal scenario %s: %w", scn.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, plot_name, name, payload) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET plot_name=excluded.plot_name, name=excluded.name, payload=excluded.payload`,
		scn.ID, scn.PlotName, scn.Name, string(payload))
	if err != nil {
		return fmt.Errorf("store: save scenario %s: %w", scn.ID, err)
	}
	return nil
}

// GetScenario loads one scenario by ID.
func (s *Store) GetScenario(ctx context.Context, id string) (*scenario.Scenario, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM scenarios WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get scenario %s: %w", id, err)
	}
	var scn scenario.Scenario
	if err := json.Unmarshal([]byte(payload), &scn); err != nil {
		return nil, fmt.Errorf("store: decode scenario %s: %w", id, err)
	}
	return &scn, nil
}

// ScenarioSummary is a listing row, payload omitted.
type ScenarioSummary struct {
	ID       string `db:"id" json:"id"`
	PlotName string `db:"plot_name" json:"plot_name"`
	Name     string `db:"name" json:"name"`
}

// ListScenarios returns summaries, optionally filtered by plot name.
func (s *Store) ListScenarios(ctx context.Context, plotName string) ([]ScenarioSummary, error) {
	var rows []ScenarioSummary
	var err error
	if plotName == "" {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT id, plot_name, name FROM scenarios ORDER BY created_at`)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT id, plot_name, name FROM scenarios WHERE plot_name = ? ORDER BY created_at`, plotName)
	}
	if err != nil {
		return nil, fmt.Errorf("store: list scenarios: %w", err)
	}
	return rows, nil
}

// DeleteScenario removes a scenario and, via cascade, its score and estimate.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete scenario %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveScore attaches a scoring result to its scenario.
func (s *Store) SaveScore(ctx context.Context, result *score.Result) error {
	return s.savePayload(ctx, "scores", result.ScenarioID, result)
}

// GetScore loads the scoring result for a scenario.
func (s *Store) GetScore(ctx context.Context, scenarioID string) (*score.Result, error) {
	var result score.Result
	if err := s.getPayload(ctx, "scores", scenarioID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SaveEstimate attaches a project estimate to its scenario.
func (s *Store) SaveEstimate(ctx context.Context, scenarioID string, pe *estimate.ProjectEstimate) error {
	return s.savePayload(ctx, "estimates", scenarioID, pe)
}

// GetEstimate loads the estimate for a scenario.
func (s *Store) GetEstimate(ctx context.Context, scenarioID string) (*estimate.ProjectEstimate, error) {
	var pe estimate.ProjectEstimate
	if err := s.getPayload(ctx, "estimates", scenarioID, &pe); err != nil {
		return nil, err
	}
	return &pe, nil
}

func (s *Store) savePayload(ctx context.Context, table, scenarioID string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: marshal %s for %s: %w", table, scenarioID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (scenario_id, payload) VALUES (?, ?)
		 ON CONFLICT(scenario_id) DO UPDATE SET payload=excluded.payload`,
		scenarioID, string(payload))
	if err != nil {
		return fmt.Errorf("store: save %s for %s: %w", table, scenarioID, err)
	}
	return nil
}

func (s *Store) getPayload(ctx context.Context, table, scenarioID string, doc any) error {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		`SELECT payload FROM `+table+` WHERE scenario_id = ?`, scenarioID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("store: get %s for %s: %w", table, scenarioID, err)
	}
	if err := json.Unmarshal([]byte(payload), doc); err != nil {
		return fmt.Errorf("store: decode %s for %s: %w", table, scenarioID, err)
	}
	return nil
}
