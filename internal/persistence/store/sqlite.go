package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"govsim.ai/internal/sim/world/kernel/model"
)

// SQLiteStore is the reference Store adapter: one row per game, the
// WorldState blob held as zstd-compressed JSON, exactly the compression
// the teacher's snapshot writer uses for its full-state exports.
type SQLiteStore struct {
	conn       *sqlx.DB
	configPath string
}

const schema = `
CREATE TABLE IF NOT EXISTS games (
	server_id TEXT PRIMARY KEY,
	state_blob BLOB NOT NULL,
	tokens_json TEXT NOT NULL,
	updated_at_tick INTEGER NOT NULL
);
`

// Open opens or creates a sqlite database at path, matching the
// WAL/busy-timeout connection string idiom used elsewhere in the pack.
func Open(path string, configPath string) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &SQLiteStore{conn: conn, configPath: configPath}, nil
}

func (s *SQLiteStore) Close() error { return s.conn.Close() }

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

type gameRow struct {
	ServerID      string `db:"server_id"`
	StateBlob     []byte `db:"state_blob"`
	TokensJSON    string `db:"tokens_json"`
	UpdatedAtTick uint64 `db:"updated_at_tick"`
}

func (s *SQLiteStore) LoadGame(ctx context.Context, serverID string) (*model.WorldState, TokenMap, error) {
	var row gameRow
	err := s.conn.GetContext(ctx, &row, "SELECT server_id, state_blob, tokens_json, updated_at_tick FROM games WHERE server_id = ?", serverID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	raw, err := decompress(row.StateBlob)
	if err != nil {
		return nil, nil, fmt.Errorf("store: decompress: %w", err)
	}
	var state model.WorldState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, nil, fmt.Errorf("store: decode state: %w", err)
	}
	tokens := TokenMap{}
	if err := json.Unmarshal([]byte(row.TokensJSON), &tokens); err != nil {
		return nil, nil, fmt.Errorf("store: decode tokens: %w", err)
	}
	return &state, tokens, nil
}

// SaveGame commits the state blob and the token sidecar in one
// transaction, since a tick is only ever committed atomically.
func (s *SQLiteStore) SaveGame(ctx context.Context, serverID string, state *model.WorldState, tokens TokenMap) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	blob, err := compress(raw)
	if err != nil {
		return fmt.Errorf("store: compress: %w", err)
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("store: encode tokens: %w", err)
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO games (server_id, state_blob, tokens_json, updated_at_tick)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(server_id) DO UPDATE SET
			state_blob = excluded.state_blob,
			tokens_json = excluded.tokens_json,
			updated_at_tick = excluded.updated_at_tick
	`, serverID, blob, string(tokensJSON), state.Meta.Tick)
	if err != nil {
		return fmt.Errorf("store: upsert: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListGames(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.conn.SelectContext(ctx, &ids, "SELECT server_id FROM games ORDER BY server_id")
	return ids, err
}

func (s *SQLiteStore) LoadConfig(ctx context.Context) (Config, error) {
	cfg := Config{TickIntervalHours: 24, MaxPlayersPerServer: 50, AdvisorTimeout: 0}
	if s.configPath == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(s.configPath)
	if err != nil {
		return cfg, fmt.Errorf("store: read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("store: parse config: %w", err)
	}
	return cfg, nil
}
