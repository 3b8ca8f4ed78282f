// Package httpapi implements the HTTP surface named in the external
// interfaces: one mux, one handler per route, CORS permissive, JSON
// in and out. No router framework, matching the teacher's bare
// http.ServeMux style in cmd/server/main.go.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"govsim.ai/internal/persistence/store"
	"govsim.ai/internal/sim/world/engine"
	"govsim.ai/internal/sim/world/feature/actions"
	"govsim.ai/internal/sim/world/feature/advisors"
	"govsim.ai/internal/sim/world/kernel/model"
)

// Server owns the registry of running games and wires every HTTP route
// to the owning Game's mailbox.
type Server struct {
	mu       sync.RWMutex
	games    map[string]*engine.Game
	store    store.Store
	pipeline *advisors.Pipeline
	logger   *log.Logger
	cfg      store.Config

	tickInterval time.Duration
}

func NewServer(st store.Store, pipeline *advisors.Pipeline, logger *log.Logger, cfg store.Config) *Server {
	return &Server{
		games:        map[string]*engine.Game{},
		store:        st,
		pipeline:     pipeline,
		logger:       logger,
		cfg:          cfg,
		tickInterval: time.Duration(cfg.TickIntervalHours) * time.Hour,
	}
}

// Mux builds the route table. CORS and OPTIONS preflight wrap every
// route.
func (s *Server) Mux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHealth)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /server/create", s.handleCreate)
	mux.HandleFunc("POST /server/{id}/join", s.handleJoin)
	mux.HandleFunc("GET /server/{id}/view", s.handleView)
	mux.HandleFunc("POST /server/{id}/action", s.handleAction)
	mux.HandleFunc("GET /server/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /server/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /server/{id}/stream", s.handleStream)
	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Game: "govsim", Status: "ok", Timestamp: time.Now().Unix()})
}

func (s *Server) game(id string) (*engine.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// RestoreGames re-creates a Game goroutine for every server the Store
// already knows about, so a process restart resumes in-flight games
// instead of losing them until their next /server/:id/join or action.
// Per the catch-up Open Question decision (DESIGN.md), a restored game's
// ticker starts a full tick interval from the moment of restore; the
// persisted tick_deadline is not consulted, and any ticks missed while
// the process was down are dropped, not fast-forwarded.
func (s *Server) RestoreGames(ctx context.Context) error {
	ids, err := s.store.ListGames(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		state, tokens, err := s.store.LoadGame(ctx, id)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("restore: load %s: %v", id, err)
			}
			continue
		}
		g := engine.New(id, state, tokens, s.store, s.pipeline, s.logger, s.tickInterval)
		s.mu.Lock()
		s.games[id] = g
		s.mu.Unlock()
		go g.Run(ctx)
		if s.logger != nil {
			s.logger.Printf("restore: resumed server=%s tick=%d", id, state.Meta.Tick)
		}
	}
	return nil
}

func newToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func newServerID() string {
	return "srv_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func newPlayerID() string {
	return "ply_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func parseRole(raw string) (model.Role, bool) {
	switch model.Role(raw) {
	case model.RoleCitizen, model.RoleBusinessOwner, model.RolePolitician:
		return model.Role(raw), true
	default:
		return "", false
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest)
		return
	}
	role, ok := parseRole(req.PlayerRole)
	if !ok {
		writeError(w, errBadRequest)
		return
	}

	serverID := newServerID()
	seed := uint32(time.Now().UnixNano())
	state := model.New(serverID, seed, s.cfg.TickIntervalHours)
	tokens := store.TokenMap{}

	g := engine.New(serverID, state, tokens, s.store, s.pipeline, s.logger, s.tickInterval)
	s.mu.Lock()
	s.games[serverID] = g
	s.mu.Unlock()
	go g.Run(context.Background())

	playerID := newPlayerID()
	if _, err := g.JoinPlayer(r.Context(), playerID, role); err != nil {
		writeError(w, errInternal)
		return
	}
	token := newToken()
	g.SetToken(playerID, token)

	writeJSON(w, http.StatusOK, createResponse{
		ServerID: serverID, PlayerID: playerID, PlayerToken: token,
		Tick: 0, TickDeadline: state.Meta.TickDeadlineUnix,
	})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, ok := s.game(id)
	if !ok {
		writeError(w, errNotFound)
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest)
		return
	}
	role, ok := parseRole(req.PlayerRole)
	if !ok {
		writeError(w, errBadRequest)
		return
	}

	status, err := g.Status(r.Context())
	if err != nil {
		writeError(w, errInternal)
		return
	}
	if status.Phase != model.PhaseAcceptingActions {
		writeError(w, errWrongPhase)
		return
	}
	if s.cfg.MaxPlayersPerServer > 0 && status.PlayerCount >= s.cfg.MaxPlayersPerServer {
		writeError(w, errServerFull)
		return
	}

	playerID := newPlayerID()
	if _, err := g.JoinPlayer(r.Context(), playerID, role); err != nil {
		writeError(w, errInternal)
		return
	}
	token := newToken()
	g.SetToken(playerID, token)

	writeJSON(w, http.StatusOK, joinResponse{
		PlayerID: playerID, PlayerToken: token,
		Tick: status.Tick, TickDeadline: status.TickDeadlineUnix,
	})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, ok := s.game(id)
	if !ok {
		writeError(w, errNotFound)
		return
	}
	playerID := r.URL.Query().Get("playerId")
	token := r.URL.Query().Get("token")
	if playerID == "" || token == "" || g.Tokens()[playerID] != token {
		writeError(w, errUnauthorized)
		return
	}
	view, err := g.View(r.Context(), playerID)
	if err != nil {
		writeError(w, errNotFound)
		return
	}
	status, err := g.Status(r.Context())
	if err != nil {
		writeError(w, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{
		View: view, Tick: status.Tick, Phase: string(status.Phase), TickDeadline: status.TickDeadlineUnix,
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, ok := s.game(id)
	if !ok {
		writeError(w, errNotFound)
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errBadRequest)
		return
	}
	if req.PlayerID == "" || req.PlayerToken == "" || g.Tokens()[req.PlayerID] != req.PlayerToken {
		writeError(w, errUnauthorized)
		return
	}

	err := g.SubmitAction(r.Context(), req.PlayerID, req.Action.ActionType, req.Action.Params)
	if err != nil {
		switch err {
		case actions.ErrNotFound:
			writeError(w, errNotFound)
		case actions.ErrWrongPhase:
			writeError(w, errWrongPhase)
		case actions.ErrWrongRole:
			writeError(w, errWrongRole)
		case actions.ErrRateLimited:
			writeError(w, errRateLimited)
		default:
			writeError(w, errInternal)
		}
		return
	}

	status, serr := g.Status(r.Context())
	if serr != nil {
		writeError(w, errInternal)
		return
	}
	pendingCount, perr := s.pendingCount(r.Context(), g, req.PlayerID)
	if perr != nil {
		writeError(w, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, PendingCount: pendingCount, Tick: status.Tick})
}

func (s *Server) pendingCount(ctx context.Context, g *engine.Game, playerID string) (int, error) {
	v, err := g.Do(ctx, func(w *model.WorldState) (any, error) {
		p, ok := w.Players[playerID]
		if !ok {
			return 0, nil
		}
		return len(p.ActionsPending), nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, ok := s.game(id)
	if !ok {
		writeError(w, errNotFound)
		return
	}
	status, err := g.Status(r.Context())
	if err != nil {
		writeError(w, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleHistory is the supplemented debug endpoint exposing a player's
// reputation record and the era ledger.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g, ok := s.game(id)
	if !ok {
		writeError(w, errNotFound)
		return
	}
	playerID := r.URL.Query().Get("playerId")
	token := r.URL.Query().Get("token")
	if playerID == "" || token == "" || g.Tokens()[playerID] != token {
		writeError(w, errUnauthorized)
		return
	}
	hist, err := g.History(r.Context(), playerID)
	if err != nil {
		writeError(w, errInternal)
		return
	}
	writeJSON(w, http.StatusOK, hist)
}
