// Package protocol carries the small set of sentinel error codes and the
// one notification message the optional tick stream pushes, mirroring
// the teacher's protocol package shape without its voxel wire framing.
package protocol

const Version = "1.0"

// TypeTick is the only message type the stream ever sends: a tick has
// finalized.
const TypeTick = "TICK"

// TickNotify is pushed to every subscriber of a game's optional
// /server/:id/stream websocket once per finalized tick.
type TickNotify struct {
	Type             string `json:"type"`
	ServerID         string `json:"server_id"`
	Tick             uint64 `json:"tick"`
	Phase            string `json:"phase"`
	TickDeadlineUnix int64  `json:"tick_deadline_unix"`
}
