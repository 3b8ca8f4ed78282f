// Package store defines the durable-storage collaborator the core engine
// consumes. The core never imports a database driver directly — only this
// interface — so the sqlite-backed adapter in this package is a reference
// implementation, not a dependency of the deterministic tick path.
package store

import (
	"context"
	"time"

	"gopkg.in/yaml.v3"

	"govsim.ai/internal/sim/world/kernel/model"
)

// TokenMap is the sidecar playerId -> playerToken mapping persisted
// alongside the opaque WorldState blob. Ticks commit both atomically.
type TokenMap map[string]string

// Config is process configuration loaded once at boot and re-fetched by
// LoadConfig so the YAML file can be re-read across a redeploy without a
// schema migration.
type Config struct {
	TickIntervalHours   int           `yaml:"tick_interval_hours"`
	MaxPlayersPerServer int           `yaml:"max_players_per_server"`
	AdvisorTimeout      time.Duration `yaml:"-"`
	AdvisorEndpoint     string        `yaml:"advisor_endpoint"`
}

// configYAML mirrors Config's on-disk shape; advisor_timeout is written
// as a duration string ("20s") rather than a raw nanosecond count.
type configYAML struct {
	TickIntervalHours   int    `yaml:"tick_interval_hours"`
	MaxPlayersPerServer int    `yaml:"max_players_per_server"`
	AdvisorTimeout      string `yaml:"advisor_timeout"`
	AdvisorEndpoint     string `yaml:"advisor_endpoint"`
}

// UnmarshalYAML implements yaml.v3's node-based Unmarshaler so
// advisor_timeout can be written as a duration string ("20s") in the
// config file while the Go field stays a time.Duration.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw configYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.TickIntervalHours = raw.TickIntervalHours
	c.MaxPlayersPerServer = raw.MaxPlayersPerServer
	c.AdvisorEndpoint = raw.AdvisorEndpoint
	if raw.AdvisorTimeout != "" {
		d, err := time.ParseDuration(raw.AdvisorTimeout)
		if err != nil {
			return err
		}
		c.AdvisorTimeout = d
	}
	return nil
}

// Store is the durable key-value storage collaborator named in the
// external interfaces section. Implementations must commit SaveGame
// atomically: a tick's state and token-map writes land together or not at
// all, since the finalize step is the only point a tick is ever committed.
type Store interface {
	LoadGame(ctx context.Context, serverID string) (*model.WorldState, TokenMap, error)
	SaveGame(ctx context.Context, serverID string, state *model.WorldState, tokens TokenMap) error
	ListGames(ctx context.Context) ([]string, error)
	LoadConfig(ctx context.Context) (Config, error)
}

// ErrNotFound is returned by LoadGame when serverID has no saved state.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "store: game not found" }
