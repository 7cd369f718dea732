package chat

import "sync"

// hub fans out per-customer nudges to transcript subscribers. A nudge
// carries no payload: receivers re-fetch the full transcript, which keeps
// ordering trivially correct at the cost of redundant reads.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan struct{}]struct{})}
}

func (h *hub) subscribe(customerEmail string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	set, ok := h.subs[customerEmail]
	if !ok {
		set = make(map[chan struct{}]struct{})
		h.subs[customerEmail] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[customerEmail]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, customerEmail)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *hub) notify(customerEmail string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[customerEmail] {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending nudge; one is enough since
			// every nudge triggers a full re-fetch.
		}
	}
}
