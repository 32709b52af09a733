package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// Archive is a SQLite history of runs: one row per run plus its samples.
type Archive struct {
	conn *sqlx.DB
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	a := &Archive{conn: conn}
	if err := a.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

func (a *Archive) Close() error {
	return a.conn.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		preset TEXT NOT NULL DEFAULT '',
		profile TEXT NOT NULL,
		t REAL NOT NULL,
		r REAL NOT NULL,
		k1 REAL NOT NULL,
		k2 REAL NOT NULL,
		k3 REAL NOT NULL,
		t_start REAL NOT NULL,
		t_end REAL NOT NULL,
		step REAL NOT NULL,
		samples INTEGER NOT NULL,
		final_x REAL NOT NULL,
		metrics_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		idx INTEGER NOT NULL,
		t REAL NOT NULL,
		x REAL NOT NULL,
		x_d REAL NOT NULL,
		x_dd REAL NOT NULL,
		x_ddd REAL NOT NULL,
		x_dddd REAL NOT NULL,
		f REAL NOT NULL,
		PRIMARY KEY (run_id, idx)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := a.conn.Exec(schema)
	return err
}

// ArchivedRun is one row of the runs table.
type ArchivedRun struct {
	ID          string  `db:"id"`
	CreatedAt   string  `db:"created_at"`
	Preset      string  `db:"preset"`
	Profile     string  `db:"profile"`
	T           float64 `db:"t"`
	R           float64 `db:"r"`
	K1          float64 `db:"k1"`
	K2          float64 `db:"k2"`
	K3          float64 `db:"k3"`
	TStart      float64 `db:"t_start"`
	TEnd        float64 `db:"t_end"`
	Step        float64 `db:"step"`
	Samples     int     `db:"samples"`
	FinalX      float64 `db:"final_x"`
	MetricsJSON string  `db:"metrics_json"`
}

func (r ArchivedRun) Metrics() (map[string]float64, error) {
	m := make(map[string]float64)
	if err := json.Unmarshal([]byte(r.MetricsJSON), &m); err != nil {
		return nil, err
	}
	return m, nil
}

type sampleRow struct {
	RunID string  `db:"run_id"`
	Idx   int     `db:"idx"`
	T     float64 `db:"t"`
	X     float64 `db:"x"`
	XD    float64 `db:"x_d"`
	XDD   float64 `db:"x_dd"`
	XDDD  float64 `db:"x_ddd"`
	XDDDD float64 `db:"x_dddd"`
	F     float64 `db:"f"`
}

// SaveRun writes the run and all its samples in one transaction, replacing
// any earlier run with the same id. An empty id gets a fresh one.
func (a *Archive) SaveRun(meta RunMetadata, samples []dynamo.Sample) error {
	metricsJSON, err := json.Marshal(meta.Metrics)
	if err != nil {
		return err
	}
	if meta.ID == "" {
		meta.ID = uuid.Must(uuid.NewV7()).String()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	run := ArchivedRun{
		ID:          meta.ID,
		CreatedAt:   meta.Timestamp.UTC().Format(time.RFC3339Nano),
		Preset:      meta.Preset,
		Profile:     meta.Profile,
		T:           meta.Engine["t"],
		R:           meta.Engine["r"],
		K1:          meta.Engine["k1"],
		K2:          meta.Engine["k2"],
		K3:          meta.Engine["k3"],
		TStart:      meta.TStart,
		TEnd:        meta.TEnd,
		Step:        meta.Step,
		Samples:     len(samples),
		MetricsJSON: string(metricsJSON),
	}
	if len(samples) > 0 {
		run.FinalX = samples[len(samples)-1].State[0]
	}

	tx, err := a.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM samples WHERE run_id = ?", run.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", run.ID); err != nil {
		return err
	}

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, created_at, preset, profile, t, r, k1, k2, k3, t_start, t_end, step, samples, final_x, metrics_json)
		VALUES (:id, :created_at, :preset, :profile, :t, :r, :k1, :k2, :k3, :t_start, :t_end, :step, :samples, :final_x, :metrics_json)`,
		run)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO samples
		(run_id, idx, t, x, x_d, x_dd, x_ddd, x_dddd, f)
		VALUES (:run_id, :idx, :t, :x, :x_d, :x_dd, :x_ddd, :x_dddd, :f)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, s := range samples {
		row := sampleRow{
			RunID: run.ID, Idx: i, T: s.T,
			X: s.State[0], XD: s.State[1], XDD: s.State[2], XDDD: s.State[3],
			XDDDD: s.Fourth(), F: s.Forcing,
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("insert sample %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Runs lists archived runs, newest first.
func (a *Archive) Runs() ([]ArchivedRun, error) {
	var runs []ArchivedRun
	err := a.conn.Select(&runs, "SELECT * FROM runs ORDER BY created_at DESC, id DESC")
	return runs, err
}

func (a *Archive) Run(id string) (*ArchivedRun, error) {
	var run ArchivedRun
	if err := a.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRunNotFound, id, err)
	}
	return &run, nil
}

// Samples restores the full samples of a run in time order.
func (a *Archive) Samples(id string) ([]dynamo.Sample, error) {
	var rows []sampleRow
	if err := a.conn.Select(&rows, "SELECT * FROM samples WHERE run_id = ? ORDER BY idx", id); err != nil {
		return nil, err
	}

	out := make([]dynamo.Sample, len(rows))
	for i, r := range rows {
		st := dynamo.State{r.X, r.XD, r.XDD, r.XDDD}
		out[i] = dynamo.Sample{
			T:          r.T,
			State:      st,
			Derivative: dynamo.State{r.XD, r.XDD, r.XDDD, r.XDDDD},
			Forcing:    r.F,
		}
	}
	return out, nil
}
