// Package results persists run results into an SQLite database so that
// replications can be compared after the fact.
package results

import (
	"database/sql"
	"errors"
	"fmt"

	// Registers the pure-Go "sqlite" driver.
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/erqsim/erqsim/sim"
	"github.com/erqsim/erqsim/sim/trace"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	servers      INTEGER NOT NULL,
	horizon      REAL NOT NULL,
	mean_arrival REAL NOT NULL,
	mean_service REAL NOT NULL,
	end_time     REAL NOT NULL,
	busy_time    REAL NOT NULL,
	arrivals     INTEGER NOT NULL,
	departures   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS waits (
	run_id   TEXT NOT NULL,
	category TEXT NOT NULL,
	seq      INTEGER NOT NULL,
	wait     REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS trace (
	run_id    TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	category  TEXT NOT NULL,
	kind      TEXT NOT NULL,
	clock     REAL NOT NULL,
	wait      REAL
);
`

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("results store is closed")

// RunRow is one row of the runs table.
type RunRow struct {
	ID          string
	Seed        int64
	Servers     int
	Horizon     float64
	MeanArrival float64
	MeanService float64
	EndTime     float64
	BusyTime    float64
	Arrivals    int
	Departures  int
}

// Store writes run results into an SQLite database.
type Store struct {
	*sql.DB

	path   string
	closed bool
}

// Open opens (or creates) the database at path. An empty path creates a
// fresh file named after a unique ID in the working directory.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "erqsim_results_" + xid.New().String() + ".sqlite3"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating results schema in %s: %w", path, err)
	}
	logrus.Infof("Recording results to %s", path)
	return &Store{DB: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// SaveRun writes a run's configuration summary, its waits and, when st is
// non-nil, its lifecycle trace in one transaction.
func (s *Store) SaveRun(runID string, cfg sim.RunConfig, res *sim.RunResult, st *trace.SimulationTrace) error {
	if s.closed {
		return ErrClosed
	}
	if res == nil {
		return fmt.Errorf("saving run %s: nil result", runID)
	}
	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("saving run %s: %w", runID, err)
	}
	if err := saveRunTx(tx, runID, cfg, res, st); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("saving run %s: %w", runID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving run %s: %w", runID, err)
	}
	return nil
}

func saveRunTx(tx *sql.Tx, runID string, cfg sim.RunConfig, res *sim.RunResult, st *trace.SimulationTrace) error {
	_, err := tx.Exec(
		`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, cfg.Seed, cfg.NumServers, cfg.Horizon, cfg.MeanArrivalInterval, cfg.MeanServiceTime,
		res.SimulationEndTime, res.TotalResourceBusyTime, res.Arrivals, res.Departures,
	)
	if err != nil {
		return err
	}

	waitStmt, err := tx.Prepare(`INSERT INTO waits VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer waitStmt.Close()
	for category, waits := range res.WaitTimesByCategory {
		for i, w := range waits {
			if _, err := waitStmt.Exec(runID, category, i, w); err != nil {
				return err
			}
		}
	}

	if !st.Enabled() {
		return nil
	}
	traceStmt, err := tx.Prepare(`INSERT INTO trace VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer traceStmt.Close()
	for _, a := range st.Arrivals {
		if _, err := traceStmt.Exec(runID, a.EntityID, a.Category, "arrival", a.Clock, nil); err != nil {
			return err
		}
	}
	for _, sv := range st.Services {
		if _, err := traceStmt.Exec(runID, sv.EntityID, sv.Category, "service", sv.Clock, sv.Wait); err != nil {
			return err
		}
	}
	for _, d := range st.Departures {
		if _, err := traceStmt.Exec(runID, d.EntityID, d.Category, "departure", d.Clock, nil); err != nil {
			return err
		}
	}
	return nil
}

// Runs lists the stored runs in insertion order.
func (s *Store) Runs() ([]RunRow, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.Query(`SELECT id, seed, servers, horizon, mean_arrival, mean_service,
		end_time, busy_time, arrivals, departures FROM runs ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.Seed, &r.Servers, &r.Horizon, &r.MeanArrival, &r.MeanService,
			&r.EndTime, &r.BusyTime, &r.Arrivals, &r.Departures); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Waits returns a run's waits per category, in grant order.
func (s *Store) Waits(runID string) (map[string][]float64, error) {
	if s.closed {
		return nil, ErrClosed
	}
	rows, err := s.Query(`SELECT category, wait FROM waits WHERE run_id = ? ORDER BY category, seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]float64)
	for rows.Next() {
		var category string
		var w float64
		if err := rows.Scan(&category, &w); err != nil {
			return nil, err
		}
		out[category] = append(out[category], w)
	}
	return out, rows.Err()
}

// TraceCount returns the number of trace rows of the given kind
// ("arrival", "service" or "departure") stored for a run.
func (s *Store) TraceCount(runID, kind string) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	var n int
	err := s.QueryRow(`SELECT COUNT(*) FROM trace WHERE run_id = ? AND kind = ?`, runID, kind).Scan(&n)
	return n, err
}

// Close closes the database. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.DB.Close()
}
