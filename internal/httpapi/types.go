package httpapi

import "govsim.ai/internal/sim/world/feature/observer"

type createRequest struct {
	PlayerName string `json:"playerName"`
	PlayerRole string `json:"playerRole"`
}

type createResponse struct {
	ServerID     string `json:"serverId"`
	PlayerID     string `json:"playerId"`
	PlayerToken  string `json:"playerToken"`
	Tick         uint64 `json:"tick"`
	TickDeadline int64  `json:"tickDeadline"`
}

type joinResponse struct {
	PlayerID     string `json:"playerId"`
	PlayerToken  string `json:"playerToken"`
	Tick         uint64 `json:"tick"`
	TickDeadline int64  `json:"tickDeadline"`
}

type viewResponse struct {
	View         *observer.View `json:"view"`
	Tick         uint64         `json:"tick"`
	Phase        string         `json:"phase"`
	TickDeadline int64          `json:"tickDeadline"`
}

type actionBody struct {
	ActionType string                 `json:"action_type"`
	Params     map[string]interface{} `json:"params"`
}

type actionRequest struct {
	PlayerID    string     `json:"playerId"`
	PlayerToken string     `json:"playerToken"`
	Action      actionBody `json:"action"`
}

type actionResponse struct {
	Success      bool   `json:"success"`
	PendingCount int    `json:"pendingCount"`
	Tick         uint64 `json:"tick"`
}

type healthResponse struct {
	Game      string `json:"game"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}
