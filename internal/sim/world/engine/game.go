// Package engine owns one running game: a single goroutine draining a
// mailbox of closures plus a tick ticker, the same select-loop-plus-ticker
// shape as the teacher's world runtime, generalized from a fixed set of
// named channels to a uniform request mailbox.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	auditlog "govsim.ai/internal/persistence/log"
	"govsim.ai/internal/persistence/store"
	"govsim.ai/internal/sim/world/feature/advisors"
	"govsim.ai/internal/sim/world/feature/watchdog"
	"govsim.ai/internal/sim/world/kernel/model"
)

type request struct {
	fn   func(*model.WorldState) (any, error)
	resp chan result
}

type result struct {
	val any
	err error
}

// Game wraps one WorldState with its own goroutine. All reads and writes
// to the state happen on that goroutine; callers only ever exchange
// closures and results over the mailbox channel.
type Game struct {
	serverID string
	state    *model.WorldState

	tokensMu sync.RWMutex
	tokens   store.TokenMap

	store    store.Store
	pipeline *advisors.Pipeline
	watchdog *watchdog.Watchdog
	audit    *auditlog.AuditLogger
	logger   *log.Logger

	tickInterval time.Duration
	mailbox      chan request
	stop         chan struct{}

	subscribers map[chan []byte]struct{}
}

// New constructs a Game around an already-loaded state. Call Run in its
// own goroutine to start the tick loop.
func New(serverID string, state *model.WorldState, tokens store.TokenMap, st store.Store, pipeline *advisors.Pipeline, logger *log.Logger, tickInterval time.Duration) *Game {
	return &Game{
		serverID:     serverID,
		state:        state,
		tokens:       tokens,
		store:        st,
		pipeline:     pipeline,
		watchdog:     watchdog.New(),
		audit:        auditlog.NewAuditLogger(defaultAuditDir, serverID),
		logger:       logger,
		tickInterval: tickInterval,
		mailbox:      make(chan request, 64),
		stop:         make(chan struct{}),
		subscribers:  map[chan []byte]struct{}{},
	}
}

// defaultAuditDir is overridden by SetAuditDir before any Game is
// constructed when the process wants its durable audit trail somewhere
// other than ./data.
var defaultAuditDir = "./data"

// SetAuditDir changes where future Game instances root their audit log.
// Called once at boot from main, before the first game is created.
func SetAuditDir(dir string) { defaultAuditDir = dir }

// subscribe registers a channel that receives one marshaled TickNotify
// per finalized tick. Runs on the owning goroutine only; callers reach
// it through Do.
func (g *Game) subscribe(ch chan []byte) { g.subscribers[ch] = struct{}{} }

func (g *Game) unsubscribe(ch chan []byte) { delete(g.subscribers, ch) }

// Subscribe and Unsubscribe are the HTTP-layer-facing entry points; they
// hop onto the owning goroutine via Do so the subscriber map is never
// touched concurrently.
func (g *Game) Subscribe(ctx context.Context) (chan []byte, error) {
	ch := make(chan []byte, 8)
	_, err := g.Do(ctx, func(*model.WorldState) (any, error) {
		g.subscribe(ch)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (g *Game) Unsubscribe(ch chan []byte) {
	_, _ = g.Do(context.Background(), func(*model.WorldState) (any, error) {
		g.unsubscribe(ch)
		close(ch)
		return nil, nil
	})
}

func (g *Game) broadcastTick() {
	if len(g.subscribers) == 0 {
		return
	}
	notify := protocolTickNotify(g.serverID, g.state)
	b, err := json.Marshal(notify)
	if err != nil {
		return
	}
	for ch := range g.subscribers {
		select {
		case ch <- b:
		default:
		}
	}
}

// Do submits fn to run on the game's owning goroutine and blocks for its
// result. Safe to call from any goroutine, including HTTP handlers.
func (g *Game) Do(ctx context.Context, fn func(*model.WorldState) (any, error)) (any, error) {
	req := request{fn: fn, resp: make(chan result, 1)}
	select {
	case g.mailbox <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.stop:
		return nil, ErrStopped
	}
	select {
	case r := <-req.resp:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tokens exposes a snapshot of the token sidecar for the HTTP layer's
// auth check. Guarded by its own mutex rather than the mailbox, since
// auth checks happen far more often than tick finalization touches it.
func (g *Game) Tokens() store.TokenMap {
	g.tokensMu.RLock()
	defer g.tokensMu.RUnlock()
	snap := make(store.TokenMap, len(g.tokens))
	for k, v := range g.tokens {
		snap[k] = v
	}
	return snap
}

func (g *Game) SetToken(playerID, token string) {
	g.tokensMu.Lock()
	defer g.tokensMu.Unlock()
	g.tokens[playerID] = token
}

func (g *Game) Stop() {
	close(g.stop)
	if g.audit != nil {
		_ = g.audit.Close()
	}
}

// Run drains the mailbox and advances the tick clock, exactly the
// select-over-channels-plus-ticker shape the teacher's world runtime uses.
func (g *Game) Run(ctx context.Context) {
	ticker := time.NewTicker(g.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-g.stop:
			return
		case req := <-g.mailbox:
			val, err := req.fn(g.state)
			req.resp <- result{val: val, err: err}
		case <-ticker.C:
			g.runTick()
			if g.store != nil {
				if err := g.store.SaveGame(context.Background(), g.serverID, g.state, g.Tokens()); err != nil && g.logger != nil {
					g.logger.Printf("engine: save failed server=%s tick=%d: %v", g.serverID, g.state.Meta.Tick, err)
				}
			}
		}
	}
}

func contentHash(w *model.WorldState) string {
	raw, err := json.Marshal(w)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

type stoppedError struct{}

func (stoppedError) Error() string { return "engine: game stopped" }

// ErrStopped is returned by Do once the game's goroutine has exited.
var ErrStopped = stoppedError{}
