package relay

import "duet/internal/rooms"

// relaySync passes a playback event (videoId, state, time, timestamp) to the
// other member untouched. Receivers correct for latency with the event
// timestamp and keep only the latest one.
func (r *Router) relaySync(conn rooms.Connection, data []byte) {
	r.deliver(r.registry.PeersOf(conn), data)
}
