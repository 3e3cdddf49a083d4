package store

import (
	"context"
	"embed"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"gto-trainer/server/session"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

const writeTimeout = 3 * time.Second

/* -----------------------------
   Session write helpers
------------------------------*/

// InsertSession registers a new training session row.
func (db *DB) InsertSession(ctx context.Context, id uuid.UUID, cfg session.Config) error {
	_, err := db.Exec(ctx, `
        INSERT INTO training_sessions(id, rival_style, hands_planned, mc_samples, seed)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (id) DO NOTHING
    `, id, string(cfg.RivalStyle), cfg.Hands, cfg.MCSamples, cfg.Seed)
	return err
}

// CloseSession stamps the session's end time.
func (db *DB) CloseSession(ctx context.Context, id uuid.UUID) error {
	_, err := db.Exec(ctx, `UPDATE training_sessions SET ended_at = now() WHERE id = $1`, id)
	return err
}

// SessionResult is one row of the aggregated results view.
type SessionResult struct {
	SessionID     uuid.UUID `json:"session_id"`
	RivalStyle    string    `json:"rival_style"`
	HandsPlanned  int       `json:"hands_planned"`
	HandsPlayed   int       `json:"hands_played"`
	TotalProfitBB float64   `json:"total_profit_bb"`
	TotalEVLossBB float64   `json:"total_ev_loss_bb"`
	StartedAt     time.Time `json:"started_at"`
}

// RecentResults returns the latest sessions with their aggregates.
func (db *DB) RecentResults(ctx context.Context, limit int) ([]SessionResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
        SELECT session_id, rival_style, hands_planned, hands_played,
               total_profit_bb, total_ev_loss_bb, started_at
          FROM v_session_results
         ORDER BY started_at DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SessionResult, 0, limit)
	for rows.Next() {
		var r SessionResult
		if err := rows.Scan(&r.SessionID, &r.RivalStyle, &r.HandsPlanned, &r.HandsPlayed,
			&r.TotalProfitBB, &r.TotalEVLossBB, &r.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

/* -----------------------------
   session.Recorder
------------------------------*/

// Recorder adapts the DB into a session.Recorder. Writes run with their own
// timeout and only log on failure; persistence never stalls or kills play.
type Recorder struct{ DB *DB }

func (r Recorder) Decision(sessionID uuid.UUID, handIndex int, rec session.DecisionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	var size any
	if rec.Action.SizeBB > 0 {
		size = rec.Action.SizeBB
	}
	gap := rec.EVBestBB - rec.EVChosenBB
	if gap < 0 {
		gap = 0
	}
	if _, err := r.DB.Exec(ctx, `
        INSERT INTO decision_logs(
            session_id, hand_index, street, pot_bb,
            action, size_bb, ev_chosen_bb, ev_best_bb, ev_gap_bb
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, sessionID, handIndex, string(rec.Street), rec.PotBB,
		string(rec.Action.Kind), size, rec.EVChosenBB, rec.EVBestBB, gap); err != nil {
		log.Printf("store: decision log failed: %v", err)
	}
}

func (r Recorder) HandDone(sessionID uuid.UUID, handIndex int, result session.HandResult) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := r.DB.Exec(ctx, `
        INSERT INTO hand_results(session_id, hand_index, profit_bb, ev_loss_bb)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (session_id, hand_index) DO UPDATE
          SET profit_bb = EXCLUDED.profit_bb,
              ev_loss_bb = EXCLUDED.ev_loss_bb
    `, sessionID, handIndex, result.ProfitBB, result.EVLossBB); err != nil {
		log.Printf("store: hand result failed: %v", err)
	}
}
