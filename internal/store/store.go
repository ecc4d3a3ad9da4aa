// Package store persists analysis results and job history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/signalsfoundry/sensorplan/internal/jobs"
	"github.com/signalsfoundry/sensorplan/model"
)

// ErrNotFound is returned when a result or job does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS analysis_results (
	result_id     TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	floor_plan_id TEXT NOT NULL DEFAULT '',
	payload       TEXT NOT NULL,
	created_at_ns INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_results_floor_plan
	ON analysis_results (floor_plan_id, created_at_ns);
CREATE TABLE IF NOT EXISTS analysis_jobs (
	job_id         TEXT PRIMARY KEY,
	kind           TEXT NOT NULL,
	status         TEXT NOT NULL,
	progress       REAL NOT NULL DEFAULT 0,
	error          TEXT,
	created_at_ns  INTEGER NOT NULL,
	started_at_ns  INTEGER,
	finished_at_ns INTEGER
);
`

// ResultRecord is one persisted analysis result. Payload holds the JSON
// encoding of the result value.
type ResultRecord struct {
	ID          string             `json:"id"`
	Kind        model.AnalysisKind `json:"kind"`
	FloorPlanID string             `json:"floorPlanId,omitempty"`
	Payload     json.RawMessage    `json:"payload"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Decode unmarshals the payload into v.
func (r *ResultRecord) Decode(v any) error {
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("decode %s result %s: %w", r.Kind, r.ID, err)
	}
	return nil
}

// Store wraps a SQLite database. It satisfies core.ResultSink.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the SQLite database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent and
	// serialises writers.
	db.SetMaxOpenConns(1)
	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult stores result as JSON under id, replacing any previous row.
func (s *Store) SaveResult(ctx context.Context, kind model.AnalysisKind, id, floorPlanID string, result any) error {
	if id == "" {
		return fmt.Errorf("save result: empty id")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode %s result %s: %w", kind, id, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_results (result_id, kind, floor_plan_id, payload, created_at_ns)
		VALUES (?, ?, ?, ?, ?)
	`, id, string(kind), floorPlanID, string(payload), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("insert result %s: %w", id, err)
	}
	return nil
}

// GetResult loads the result stored under id.
func (s *Store) GetResult(ctx context.Context, id string) (*ResultRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT result_id, kind, floor_plan_id, payload, created_at_ns
		FROM analysis_results
		WHERE result_id = ?
	`, id)
	rec, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", id, err)
	}
	return rec, nil
}

// ListResults returns results oldest first. An empty floorPlanID lists
// every result.
func (s *Store) ListResults(ctx context.Context, floorPlanID string) ([]ResultRecord, error) {
	query := `
		SELECT result_id, kind, floor_plan_id, payload, created_at_ns
		FROM analysis_results
	`
	var args []any
	if floorPlanID != "" {
		query += ` WHERE floor_plan_id = ?`
		args = append(args, floorPlanID)
	}
	query += ` ORDER BY created_at_ns, result_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := []ResultRecord{}
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*ResultRecord, error) {
	var (
		rec     ResultRecord
		kind    string
		payload string
		created int64
	)
	if err := row.Scan(&rec.ID, &kind, &rec.FloorPlanID, &payload, &created); err != nil {
		return nil, err
	}
	rec.Kind = model.AnalysisKind(kind)
	rec.Payload = json.RawMessage(payload)
	rec.CreatedAt = time.Unix(0, created).UTC()
	return &rec, nil
}

// SaveJob upserts a job snapshot.
func (s *Store) SaveJob(ctx context.Context, j jobs.Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_jobs (job_id, kind, status, progress, error, created_at_ns, started_at_ns, finished_at_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			error = excluded.error,
			started_at_ns = excluded.started_at_ns,
			finished_at_ns = excluded.finished_at_ns
	`,
		j.ID,
		j.Kind,
		string(j.Status),
		j.Progress,
		nullString(j.Error),
		j.CreatedAt.UnixNano(),
		nullTime(j.StartedAt),
		nullTime(j.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", j.ID, err)
	}
	return nil
}

// GetJob loads a persisted job snapshot.
func (s *Store) GetJob(ctx context.Context, id string) (jobs.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT job_id, kind, status, progress, error, created_at_ns, started_at_ns, finished_at_ns
		FROM analysis_jobs
		WHERE job_id = ?
	`, id)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return jobs.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return jobs.Job{}, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// ListJobs returns persisted jobs oldest first.
func (s *Store) ListJobs(ctx context.Context) ([]jobs.Job, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT job_id, kind, status, progress, error, created_at_ns, started_at_ns, finished_at_ns
		FROM analysis_jobs
		ORDER BY created_at_ns, job_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	out := []jobs.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return out, nil
}

// RecordJobs subscribes to m and persists every job event until the
// returned function is called. Persistence errors are passed to onErr when
// it is non-nil.
func (s *Store) RecordJobs(ctx context.Context, m *jobs.Manager, onErr func(error)) (stop func()) {
	return m.Subscribe(func(ev jobs.Event) {
		if err := s.SaveJob(ctx, ev.Job); err != nil && onErr != nil {
			onErr(err)
		}
	})
}

func scanJob(row rowScanner) (jobs.Job, error) {
	var (
		j                 jobs.Job
		status            string
		errMsg            sql.NullString
		created           int64
		started, finished sql.NullInt64
	)
	if err := row.Scan(&j.ID, &j.Kind, &status, &j.Progress, &errMsg, &created, &started, &finished); err != nil {
		return jobs.Job{}, err
	}
	j.Status = jobs.Status(status)
	if errMsg.Valid {
		j.Error = errMsg.String
	}
	j.CreatedAt = time.Unix(0, created).UTC()
	if started.Valid {
		j.StartedAt = time.Unix(0, started.Int64).UTC()
	}
	if finished.Valid {
		j.FinishedAt = time.Unix(0, finished.Int64).UTC()
	}
	return j, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}
