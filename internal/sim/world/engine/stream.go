package engine

import (
	"govsim.ai/internal/protocol"
	"govsim.ai/internal/sim/world/kernel/model"
)

func protocolTickNotify(serverID string, w *model.WorldState) protocol.TickNotify {
	return protocol.TickNotify{
		Type:             protocol.TypeTick,
		ServerID:         serverID,
		Tick:             w.Meta.Tick,
		Phase:            string(w.Meta.Phase),
		TickDeadlineUnix: w.Meta.TickDeadlineUnix,
	}
}
