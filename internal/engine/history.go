package engine

// snapshot is the session state captured before an accepted move.
type snapshot struct {
	board   Board
	score   int
	moves   int
	highest int
	over    bool
	won     bool
}

// history is a bounded stack of snapshots. Pushing at capacity evicts the oldest.
type history struct {
	entries  []snapshot
	capacity int
}

func newHistory(capacity int) *history {
	return &history{capacity: capacity}
}

func (h *history) push(s snapshot) {
	if h.capacity <= 0 {
		return
	}
	if len(h.entries) == h.capacity {
		h.entries = append(h.entries[:0], h.entries[1:]...)
	}
	h.entries = append(h.entries, s)
}

func (h *history) pop() (snapshot, bool) {
	if len(h.entries) == 0 {
		return snapshot{}, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return last, true
}

func (h *history) len() int {
	return len(h.entries)
}

func (h *history) clear() {
	h.entries = h.entries[:0]
}
