package websocket

import "sync/atomic"

// HubRef points at the currently running Hub. The server swaps in a fresh hub
// after Run panics; handlers call Get for each new connection.
type HubRef struct {
	v atomic.Pointer[Hub]
}

func NewHubRef(initial *Hub) *HubRef {
	r := &HubRef{}
	r.v.Store(initial)
	return r
}

func (r *HubRef) Get() (*Hub, bool) {
	h := r.v.Load()
	return h, h != nil
}

func (r *HubRef) Set(h *Hub) {
	r.v.Store(h)
}
