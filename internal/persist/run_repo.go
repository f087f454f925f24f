package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/swbattle/server/internal/core/event"
)

// RunSummary is the header row of an archived run.
type RunSummary struct {
	Scenario  string
	Seed      int64
	FinalTurn uint32
	Survivors uint32
	Digest    string
}

// StoredEvent is one archived event row.
type StoredEvent struct {
	Seq     int
	Turn    uint32
	Name    string
	Payload []byte // JSON object of the event's fields
}

// EncodeRecords converts records to rows, numbering them from 1.
func EncodeRecords(records []event.Record) ([]StoredEvent, error) {
	out := make([]StoredEvent, len(records))
	for i, r := range records {
		fields := r.Event.Fields()
		obj := make(map[string]any, len(fields))
		for _, f := range fields {
			obj[f.Key] = f.Value
		}
		payload, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", r.Event.Name(), err)
		}
		out[i] = StoredEvent{Seq: i + 1, Turn: r.Turn, Name: r.Event.Name(), Payload: payload}
	}
	return out, nil
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// SaveRun writes the run header and every event in a single transaction
// and returns the new run id.
func (r *RunRepo) SaveRun(ctx context.Context, sum RunSummary, events []StoredEvent) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var runID int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO battle_runs (scenario, seed, final_turn, survivors, digest)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sum.Scenario, sum.Seed, int32(sum.FinalTurn), int32(sum.Survivors), sum.Digest,
	).Scan(&runID); err != nil {
		return 0, fmt.Errorf("run insert: %w", err)
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO battle_events (run_id, seq, turn, name, payload) VALUES ($1, $2, $3, $4, $5)`,
			runID, e.Seq, int32(e.Turn), e.Name, e.Payload,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("event insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("run commit: %w", err)
	}
	return runID, nil
}

// LoadEvents returns the archived events of a run in emission order.
func (r *RunRepo) LoadEvents(ctx context.Context, runID int64) ([]StoredEvent, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT seq, turn, name, payload FROM battle_events WHERE run_id = $1 ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var turn int32
		if err := rows.Scan(&e.Seq, &turn, &e.Name, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Turn = uint32(turn)
		out = append(out, e)
	}
	return out, rows.Err()
}
