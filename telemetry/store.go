package telemetry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNoRun is returned when records are saved before BeginRun.
var ErrNoRun = errors.New("telemetry: no run started")

// Run is one simulation run stored in the database.
type Run struct {
	ID         string         `db:"id"`
	Seed       int64          `db:"seed"`
	Year       int            `db:"year"`
	StartedAt  string         `db:"started_at"`
	FinishedAt sql.NullString `db:"finished_at"`
	Days       int            `db:"days"`
}

// Store persists run telemetry in SQLite so several runs can be compared.
type Store struct {
	conn  *sqlx.DB
	runID string
}

// OpenStore opens or creates a SQLite database at the given path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		year INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		days INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS decisions (
		run_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		vessel INTEGER NOT NULL,
		class TEXT NOT NULL,
		kind TEXT NOT NULL,
		stands_for TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		duration_h REAL NOT NULL,
		initial_value REAL NOT NULL,
		modulated_value REAL NOT NULL,
		weighted_value REAL NOT NULL,
		candidates INTEGER NOT NULL,
		caught_t REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_run ON decisions(run_id, day);

	CREATE TABLE IF NOT EXISTS windows (
		run_id TEXT NOT NULL,
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		fad_sets INTEGER NOT NULL,
		ofs_sets INTEGER NOT NULL,
		nas_sets INTEGER NOT NULL,
		del_sets INTEGER NOT NULL,
		deployments INTEGER NOT NULL,
		searches INTEGER NOT NULL,
		waits INTEGER NOT NULL,
		catch_t REAL NOT NULL,
		trips_ended INTEGER NOT NULL,
		revenue REAL NOT NULL,
		active_fads INTEGER NOT NULL,
		inactive_fads INTEGER NOT NULL,
		chosen_mean REAL NOT NULL,
		chosen_p10 REAL NOT NULL,
		chosen_p50 REAL NOT NULL,
		chosen_p90 REAL NOT NULL,
		hold_fill_mean REAL NOT NULL,
		hold_fill_std REAL NOT NULL,
		active_schools INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trips (
		run_id TEXT NOT NULL,
		vessel INTEGER NOT NULL,
		trip INTEGER NOT NULL,
		start_day INTEGER NOT NULL,
		end_day INTEGER NOT NULL,
		fad_sets INTEGER NOT NULL,
		ofs_sets INTEGER NOT NULL,
		nas_sets INTEGER NOT NULL,
		del_sets INTEGER NOT NULL,
		deployed INTEGER NOT NULL,
		searches INTEGER NOT NULL,
		waits INTEGER NOT NULL,
		catch_t REAL NOT NULL,
		revenue REAL NOT NULL,
		hours_used REAL NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun registers a new run and makes it the target of later saves.
func (s *Store) BeginRun(seed int64, year int) (string, error) {
	id := uuid.New().String()
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, seed, year, started_at) VALUES (?, ?, ?, ?)",
		id, seed, year, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	s.runID = id
	return id, nil
}

// RunID returns the current run, or "" before BeginRun.
func (s *Store) RunID() string {
	return s.runID
}

// FinishRun stamps the current run with its end time and length in days.
func (s *Store) FinishRun(days int) error {
	if s.runID == "" {
		return ErrNoRun
	}
	_, err := s.conn.Exec(
		"UPDATE runs SET finished_at = ?, days = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), days, s.runID,
	)
	return err
}

// SaveDecisions stores a batch of decisions in one transaction.
func (s *Store) SaveDecisions(records []DecisionRecord) error {
	if s.runID == "" {
		return ErrNoRun
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO decisions
		(run_id, day, vessel, class, kind, stands_for, x, y, duration_h,
		 initial_value, modulated_value, weighted_value, candidates, caught_t)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			s.runID, r.Day, r.Vessel, r.Class, r.Kind, r.StandsFor, r.X, r.Y, r.Duration,
			r.Initial, r.Modulated, r.Weighted, r.Candidates, r.Caught,
		)
		if err != nil {
			return fmt.Errorf("insert decision day %d vessel %d: %w", r.Day, r.Vessel, err)
		}
	}

	return tx.Commit()
}

// SaveWindow stores one window of fleet statistics.
func (s *Store) SaveWindow(w WindowStats) error {
	if s.runID == "" {
		return ErrNoRun
	}
	_, err := s.conn.Exec(`INSERT INTO windows
		(run_id, window_start, window_end, fad_sets, ofs_sets, nas_sets, del_sets,
		 deployments, searches, waits, catch_t, trips_ended, revenue, active_fads,
		 inactive_fads, chosen_mean, chosen_p10, chosen_p50, chosen_p90,
		 hold_fill_mean, hold_fill_std, active_schools)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, w.WindowStartDay, w.WindowEndDay, w.FadSets, w.OpportunisticSets,
		w.FreeSchoolSets, w.DolphinSets, w.Deployments, w.Searches, w.Waits,
		w.CatchTonnes, w.TripsEnded, w.LandedRevenue, w.ActiveFads, w.InactiveFads,
		w.ChosenValueMean, w.ChosenValueP10, w.ChosenValueP50, w.ChosenValueP90,
		w.HoldFillMean, w.HoldFillStd, w.ActiveSchools,
	)
	if err != nil {
		return fmt.Errorf("insert window %d: %w", w.WindowEndDay, err)
	}
	return nil
}

// SaveTrip stores one finished trip.
func (s *Store) SaveTrip(t TripStats) error {
	if s.runID == "" {
		return ErrNoRun
	}
	_, err := s.conn.Exec(`INSERT INTO trips
		(run_id, vessel, trip, start_day, end_day, fad_sets, ofs_sets, nas_sets,
		 del_sets, deployed, searches, waits, catch_t, revenue, hours_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, t.Vessel, t.Trip, t.StartDay, t.EndDay, t.FadSets, t.OfsSets, t.NasSets,
		t.DelSets, t.Deployed, t.Searches, t.Waits, t.CatchT, t.Revenue, t.HoursUsed,
	)
	if err != nil {
		return fmt.Errorf("insert trip %d of vessel %d: %w", t.Trip, t.Vessel, err)
	}
	return nil
}

// Runs returns every stored run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	var runs []Run
	err := s.conn.Select(&runs, "SELECT id, seed, year, started_at, finished_at, days FROM runs ORDER BY started_at, id")
	return runs, err
}

// Decisions returns the stored decisions of a run in day and vessel order.
func (s *Store) Decisions(runID string) ([]DecisionRecord, error) {
	var out []DecisionRecord
	err := s.conn.Select(&out,
		`SELECT day, vessel, class, kind, stands_for, x, y, duration_h, initial_value,
		        modulated_value, weighted_value, candidates, caught_t
		 FROM decisions WHERE run_id = ? ORDER BY day, vessel, rowid`, runID)
	return out, err
}

// Windows returns the stored window statistics of a run.
func (s *Store) Windows(runID string) ([]WindowStats, error) {
	var out []WindowStats
	err := s.conn.Select(&out,
		`SELECT window_start, window_end, fad_sets, ofs_sets, nas_sets, del_sets,
		        deployments, searches, waits, catch_t, trips_ended, revenue, active_fads,
		        inactive_fads, chosen_mean, chosen_p10, chosen_p50, chosen_p90,
		        hold_fill_mean, hold_fill_std, active_schools
		 FROM windows WHERE run_id = ? ORDER BY window_end`, runID)
	return out, err
}

// CatchByKind sums the tonnes caught per action kind over a run.
func (s *Store) CatchByKind(runID string) (map[string]float64, error) {
	var rows []struct {
		Kind   string  `db:"kind"`
		Tonnes float64 `db:"tonnes"`
	}
	err := s.conn.Select(&rows,
		"SELECT kind, SUM(caught_t) AS tonnes FROM decisions WHERE run_id = ? GROUP BY kind", runID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Kind] = r.Tonnes
	}
	return out, nil
}
